package tui

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/faiface/beep"

	"github.com/iburimskiy/ferrofluid/internal/config"
	"github.com/iburimskiy/ferrofluid/internal/ferrofluid"
	"github.com/iburimskiy/ferrofluid/internal/playback"
)

type silentOutput struct{}

func (silentOutput) Init(beep.SampleRate, int) error { return nil }
func (silentOutput) Play(...beep.Streamer)           {}
func (silentOutput) Clear()                          {}
func (silentOutput) Lock()                           {}
func (silentOutput) Unlock()                         {}

func square(x0, y0, x1, y1 float64) ferrofluid.Path {
	return ferrofluid.Path{
		Points: []ferrofluid.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0}},
		Closed: true,
	}
}

func TestBrailleSurface_FillSquare(t *testing.T) {
	t.Parallel()

	// 10x5 cells = 20x20 dots, one dot per virtual pixel.
	b := newBrailleSurface(20, 20, 10, 5)
	b.FillPath(square(4, 4, 12, 12), ferrofluid.FillStyle{})

	tests := []struct {
		x, y int
		want bool
	}{
		{4, 4, true},
		{11, 11, true},
		{8, 8, true},
		{3, 8, false},
		{12, 8, false},
		{8, 12, false},
		{0, 0, false},
		{19, 19, false},
	}
	for _, tt := range tests {
		if got := b.dot(tt.x, tt.y); got != tt.want {
			t.Errorf("dot(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestBrailleSurface_NonZeroWinding(t *testing.T) {
	t.Parallel()

	// Two overlapping squares wound the same way: the overlap stays filled.
	b := newBrailleSurface(20, 20, 10, 5)
	p := square(2, 2, 12, 12)
	q := square(6, 6, 16, 16)
	p.Points = append(p.Points, q.Points...)
	b.FillPath(p, ferrofluid.FillStyle{})

	for _, pt := range [][2]int{{3, 3}, {8, 8}, {14, 14}} {
		if !b.dot(pt[0], pt[1]) {
			t.Errorf("dot(%d, %d) should be filled", pt[0], pt[1])
		}
	}
}

func TestBrailleSurface_OppositeWindingCutsHole(t *testing.T) {
	t.Parallel()

	b := newBrailleSurface(20, 20, 10, 5)
	p := square(2, 2, 18, 18)
	// Counter-clockwise inner square.
	p.Points = append(p.Points,
		ferrofluid.Point{X: 6, Y: 6}, ferrofluid.Point{X: 6, Y: 14},
		ferrofluid.Point{X: 14, Y: 14}, ferrofluid.Point{X: 14, Y: 6},
		ferrofluid.Point{X: 6, Y: 6},
	)
	b.FillPath(p, ferrofluid.FillStyle{})

	tests := []struct {
		x, y int
		want bool
	}{
		{3, 3, true},
		{16, 10, true},
		{10, 10, false},
		{6, 6, false},
		{13, 13, false},
		{5, 10, true},
	}
	for _, tt := range tests {
		if got := b.dot(tt.x, tt.y); got != tt.want {
			t.Errorf("dot(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestBrailleSurface_FillThreshold(t *testing.T) {
	t.Parallel()

	// The left edge covers three quarters of column 4, the right edge a quarter of column 10.
	b := newBrailleSurface(20, 20, 10, 5)
	b.FillPath(square(4.25, 4, 10.25, 12), ferrofluid.FillStyle{})

	if !b.dot(4, 8) {
		t.Error("mostly covered dot should be set")
	}
	if b.dot(10, 8) {
		t.Error("quarter covered dot should stay clear")
	}
	if !b.dot(9, 8) {
		t.Error("fully covered dot should be set")
	}
}

func TestBrailleSurface_StrokeCircle(t *testing.T) {
	t.Parallel()

	b := newBrailleSurface(40, 40, 20, 10)
	b.StrokeCircle(20, 20, 15, ferrofluid.StrokeStyle{})

	if b.dot(20, 20) {
		t.Error("circle centre should stay empty")
	}
	hits := 0
	for y := range 40 {
		for x := range 40 {
			if !b.dot(x, y) {
				continue
			}
			hits++
			d := math.Hypot(float64(x)+0.5-20, float64(y)+0.5-20)
			if math.Abs(d-15) > 1.5 {
				t.Fatalf("dot (%d, %d) is %v from the centre", x, y, d)
			}
		}
	}
	if hits < 60 {
		t.Errorf("only %d dots on the circle", hits)
	}

	b.Clear(nil)
	if strings.ContainsFunc(b.Plain(), func(r rune) bool { return r > 0x2800 && r <= 0x28ff }) {
		t.Error("Clear left dots behind")
	}
}

func TestBrailleSurface_ScalesToGrid(t *testing.T) {
	t.Parallel()

	b := newBrailleSurface(800, 800, 80, 20)
	if w, h := b.Size(); w != 800 || h != 800 {
		t.Fatalf("Size() = %v, %v", w, h)
	}
	// 160x80 dots: the square virtual space fits the height and is centred.
	if b.scale != 0.1 {
		t.Errorf("scale = %v, want 0.1", b.scale)
	}
	if b.offX != 40 || b.offY != 0 {
		t.Errorf("offset = (%v, %v), want (40, 0)", b.offX, b.offY)
	}

	b.FillPath(square(0, 0, 800, 800), ferrofluid.FillStyle{})
	if b.dot(39, 40) || !b.dot(40, 40) || !b.dot(119, 40) || b.dot(120, 40) {
		t.Error("fill should cover exactly the centred square")
	}
}

func TestBrailleSurface_Plain(t *testing.T) {
	t.Parallel()

	b := newBrailleSurface(4, 8, 2, 2)
	b.FillPath(square(0, 0, 2, 4), ferrofluid.FillStyle{})
	lines := strings.Split(strings.TrimSuffix(b.Plain(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if got := []rune(lines[0]); got[0] != 0x28ff || got[1] != 0x2800 {
		t.Errorf("first row = %q, want full cell then blank", lines[0])
	}

	plain := lipgloss.NewStyle()
	if got := b.Render(plain, plain); got != strings.TrimSuffix(b.Plain(), "\n") {
		t.Errorf("Render with empty styles = %q, want %q", got, b.Plain())
	}
}

func TestBrailleSurface_Degenerate(t *testing.T) {
	t.Parallel()

	b := newBrailleSurface(0, 0, 0, 0)
	b.FillPath(square(0, 0, 1, 1), ferrofluid.FillStyle{})
	b.StrokeCircle(0, 0, 1, ferrofluid.StrokeStyle{})
	if b.Plain() != "" {
		t.Errorf("empty grid rendered %q", b.Plain())
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	return New(Options{
		ConfigPath: filepath.Join(t.TempDir(), "settings.yaml"),
		Player:     playback.NewPlayer(silentOutput{}, nil),
		Clock:      ferrofluid.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
}

func TestModel_TickDrawsShape(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 23})
	if m.surface.cols != 60 || m.surface.rows != 20 {
		t.Fatalf("grid = %dx%d, want 60x20", m.surface.cols, m.surface.rows)
	}

	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.engine.Ticks() != 1 {
		t.Errorf("Ticks() = %d, want 1", m.engine.Ticks())
	}
	// The shape is centred 60px above the middle; the grid centre column is inside it.
	if !m.surface.dot(60, 30) {
		t.Error("expected the fluid around the centre of the grid")
	}

	view := m.View()
	if got := strings.Count(view, "\n"); got != 22 {
		t.Errorf("view has %d newlines, want 22", got)
	}
	if !strings.Contains(view, "no file") {
		t.Error("view should say no file is loaded")
	}
}

func TestModel_Keys(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	s := m.engine.Settings

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	if math.Abs(s.Sensitivity()-1.05) > 1e-9 || math.Abs(s.RotationSpeed()-0.30) > 1e-9 || s.ShowOutline() {
		t.Errorf("settings = (%v, %v, %v)", s.Sensitivity(), s.RotationSpeed(), s.ShowOutline())
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace}); cmd != nil {
		t.Error("space should not return a command")
	}
	if m.err != nil {
		t.Errorf("space without audio set error %v", m.err)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	cfg, err := config.Load(m.cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ShowOutline || math.Abs(cfg.RotationSpeed-0.30) > 1e-9 {
		t.Errorf("saved config = %+v", cfg)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    float64
		want int
	}{
		{0, 1},
		{127.5, 5},
		{255, 10},
		{999, 10},
	}
	for _, tt := range tests {
		got := blocks(tt.v)
		if n := strings.Count(got, "█"); n != tt.want {
			t.Errorf("blocks(%v) has %d blocks, want %d", tt.v, n, tt.want)
		}
		if len([]rune(got)) != 10 {
			t.Errorf("blocks(%v) width = %d, want 10", tt.v, len([]rune(got)))
		}
	}
}
