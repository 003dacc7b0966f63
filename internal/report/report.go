package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/iburimskiy/ferrofluid/internal/analysis"
	"github.com/iburimskiy/ferrofluid/internal/config"
	"github.com/iburimskiy/ferrofluid/internal/playback"
)

var (
	header = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	label  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	value  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	panel  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// Series is one band energy over time.
type Series struct {
	Name   string
	Values []float64
	Mean   float64
	Peak   float64
}

func newSeries(name string, values []float64) Series {
	s := Series{Name: name, Values: values}
	if len(values) == 0 {
		return s
	}
	var sum float64
	for _, v := range values {
		sum += v
		s.Peak = max(s.Peak, v)
	}
	s.Mean = sum / float64(len(values))
	return s
}

// Bands summarises a track as the shape engine would see it.
type Bands struct {
	Title      string
	SampleRate int
	FPS        int
	Duration   time.Duration
	Bass       Series
	Mid        Series
	Treble     Series
}

func (b Bands) Frames() int { return len(b.Bass.Values) }

// Analyse runs the analyser over samples at fps frames per second.
func Analyse(samples []float64, sampleRate, fps int) Bands {
	if fps <= 0 {
		fps = 30
	}
	src := analysis.NewBufferSource(samples, sampleRate, fps, analysis.NewAnalyser(config.FFTSize))
	n := src.Frames()
	bass := make([]float64, 0, n)
	mid := make([]float64, 0, n)
	treble := make([]float64, 0, n)
	for !src.Done() {
		_, e := src.Frame()
		bass = append(bass, e.Bass)
		mid = append(mid, e.Mid)
		treble = append(treble, e.Treble)
	}

	var d time.Duration
	if sampleRate > 0 {
		d = time.Duration(len(samples)) * time.Second / time.Duration(sampleRate)
	}
	return Bands{
		SampleRate: sampleRate,
		FPS:        fps,
		Duration:   d,
		Bass:       newSeries("bass", bass),
		Mid:        newSeries("mid", mid),
		Treble:     newSeries("treble", treble),
	}
}

// File decodes path and analyses it.
func File(path string, fps int) (Bands, error) {
	samples, format, err := playback.ReadAll(path)
	if err != nil {
		return Bands{}, err
	}
	b := Analyse(samples, int(format.SampleRate), fps)
	b.Title = playback.ReadTitle(path)
	return b, nil
}

// Render writes the summary and a chart of the three bands, width columns wide.
func Render(w io.Writer, b Bands, width, height int) error {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 12
	}

	title := b.Title
	if title == "" {
		title = "band energies"
	}
	rows := []string{
		row("frames", fmt.Sprintf("%d @ %d fps", b.Frames(), b.FPS)),
		row("duration", b.Duration.Round(time.Millisecond).String()),
		row("sample rate", fmt.Sprintf("%d Hz", b.SampleRate)),
	}
	for _, s := range []Series{b.Bass, b.Mid, b.Treble} {
		rows = append(rows, row(s.Name, fmt.Sprintf("mean %6.1f  peak %6.1f", s.Mean, s.Peak)))
	}
	summary := lipgloss.JoinVertical(lipgloss.Left, header.Render(title), strings.Join(rows, "\n"))
	if _, err := fmt.Fprintln(w, panel.Render(summary)); err != nil {
		return err
	}

	if b.Frames() == 0 {
		_, err := fmt.Fprintln(w, "no audio frames")
		return err
	}
	graph := asciigraph.PlotMany(
		[][]float64{b.Bass.Values, b.Mid.Values, b.Treble.Values},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(255),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue),
		asciigraph.Caption("bass (red)  mid (green)  treble (blue)"),
	)
	_, err := fmt.Fprintln(w, graph)
	return err
}

func row(name, v string) string {
	return label.Render(name) + value.Render(v)
}
