package report

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"
)

func tone(n int, freq, rate float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.8 * math.Sin(2*math.Pi*freq*float64(i)/rate)
	}
	return out
}

func TestAnalyse_Silence(t *testing.T) {
	t.Parallel()

	b := Analyse(make([]float64, 8000), 8000, 10)
	if b.Frames() != 10 {
		t.Fatalf("Frames() = %d, want 10", b.Frames())
	}
	if b.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", b.Duration)
	}
	for _, s := range []Series{b.Bass, b.Mid, b.Treble} {
		if s.Peak != 0 || s.Mean != 0 {
			t.Errorf("%s: mean %v peak %v, want 0", s.Name, s.Mean, s.Peak)
		}
	}
}

func TestAnalyse_LowToneLandsInBass(t *testing.T) {
	t.Parallel()

	// 8000 Hz over 1024 bins puts 200 Hz near bin 26, inside the first sixth.
	b := Analyse(tone(16000, 200, 8000), 8000, 20)
	if b.Frames() != 40 {
		t.Fatalf("Frames() = %d, want 40", b.Frames())
	}
	if b.Bass.Mean <= b.Mid.Mean || b.Bass.Mean <= b.Treble.Mean {
		t.Errorf("bass %.1f should dominate mid %.1f and treble %.1f", b.Bass.Mean, b.Mid.Mean, b.Treble.Mean)
	}
	if b.Bass.Peak < b.Bass.Mean || b.Bass.Peak > 255 {
		t.Errorf("bass peak %.1f out of range (mean %.1f)", b.Bass.Peak, b.Bass.Mean)
	}
}

func TestNewSeries(t *testing.T) {
	t.Parallel()

	s := newSeries("mid", []float64{10, 40, 25})
	if s.Mean != 25 || s.Peak != 40 {
		t.Errorf("mean %v peak %v, want 25 and 40", s.Mean, s.Peak)
	}
	if e := newSeries("x", nil); e.Mean != 0 || e.Peak != 0 {
		t.Errorf("empty series = %+v", e)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	b := Analyse(tone(8000, 200, 8000), 8000, 30)
	b.Title = "Test Tone"

	var buf bytes.Buffer
	if err := Render(&buf, b, 60, 8); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Test Tone", "frames", "30 fps", "8000 Hz", "bass", "treble", "bass (red)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q", want)
		}
	}
}

func TestRender_NoFrames(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Render(&buf, Analyse(nil, 44100, 30), 0, 0); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "no audio frames") {
		t.Errorf("output = %q", buf.String())
	}
}
