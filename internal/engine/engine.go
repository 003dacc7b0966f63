package engine

import (
	"github.com/iburimskiy/ferrofluid/internal/config"
	"github.com/iburimskiy/ferrofluid/internal/ferrofluid"
)

// FrameSource hands the engine the current analysis frame. A nil magnitude
// slice means there is no audio and the shape should idle.
type FrameSource interface {
	Frame() ([]uint8, *ferrofluid.BandEnergies)
}

// Idle is a FrameSource that never has audio.
type Idle struct{}

func (Idle) Frame() ([]uint8, *ferrofluid.BandEnergies) { return nil, nil }

// Engine runs one animation tick at a time: pull a frame, update the model,
// render onto a surface.
type Engine struct {
	Model    *ferrofluid.Model
	Renderer *ferrofluid.Renderer
	Settings *config.Settings

	source  FrameSource
	width   float64
	height  float64
	running bool
	ticks   uint64
}

// New builds a stopped engine for a width x height surface.
func New(width, height float64, points int, settings *config.Settings, clock ferrofluid.Clock, source FrameSource) *Engine {
	if settings == nil {
		settings = config.NewSettings()
	}
	if source == nil {
		source = Idle{}
	}
	return &Engine{
		Model:    ferrofluid.NewModel(width, height, points, settings, clock),
		Renderer: ferrofluid.NewRenderer(),
		Settings: settings,
		source:   source,
		width:    width,
		height:   height,
	}
}

func (e *Engine) Start() { e.running = true }

// Stop freezes the shape. Later ticks still paint the last state.
func (e *Engine) Stop() { e.running = false }

func (e *Engine) Running() bool { return e.running }

func (e *Engine) Ticks() uint64 { return e.ticks }

func (e *Engine) SetSource(s FrameSource) {
	if s == nil {
		s = Idle{}
	}
	e.source = s
}

// Resize re-initializes the ring when the surface size changed.
func (e *Engine) Resize(width, height float64) bool {
	if width == e.width && height == e.height {
		return false
	}
	e.width, e.height = width, height
	e.Model.Initialize(width, height)
	return true
}

// Step advances the model by one tick without drawing.
func (e *Engine) Step() {
	if !e.running {
		return
	}
	freq, bands := e.source.Frame()
	e.Model.Update(freq, bands)
	e.ticks++
}

// Draw paints the current ring onto s.
func (e *Engine) Draw(s ferrofluid.Surface) {
	e.Renderer.Render(s, e.Model.Points(), ferrofluid.Options{ShowOutline: e.Settings.ShowOutline()})
}

// Tick is Step followed by Draw.
func (e *Engine) Tick(s ferrofluid.Surface) {
	e.Step()
	e.Draw(s)
}
