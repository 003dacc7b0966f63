package ferrofluid

import (
	"math"
	"time"

	"github.com/iburimskiy/ferrofluid/internal/config"
)

const (
	// DefaultPoints is the ring size: 8 points per lobe, 32 lobes.
	DefaultPoints = 256

	// MinBaseRadius replaces a resting radius that would be zero or negative.
	MinBaseRadius = 1.0

	// MaxTickDelta bounds the elapsed time fed into the rotation so a long
	// pause (minimized window, stopped loop) does not jump the shape.
	MaxTickDelta = 100 * time.Millisecond

	// Per-tick smoothing gain toward the target position.
	smoothing = 0.25

	// Shape tuning.
	edgeMargin     = 100
	lobeGain       = 0.5
	waveGain       = 0.16
	waveHarmonic   = 6
	wavePeriodMs   = 300
	idlePeriodMs   = 900
	idleLobes      = 14
	idleSpikes     = 42
	idleLobeAmp    = 16
	idleSpikeAmp   = 7
	idleSpikeSpeed = 1.2

	twoPi = 2 * math.Pi
)

// ControlPoint is one point of the ring. BaseAngle and BaseRadius are fixed
// when the ring is built; X and Y are the rendered position.
type ControlPoint struct {
	BaseAngle  float64
	BaseRadius float64
	X, Y       float64
}

// Model owns the ring of control points and moves it toward an audio- or
// idle-driven target every tick.
type Model struct {
	points   []ControlPoint
	n        int
	cx, cy   float64
	rotation float64
	last     time.Time

	settings *config.Settings
	clock    Clock
}

// NewModel builds a ring of n points (DefaultPoints when n <= 0) sized for a
// width x height surface.
func NewModel(width, height float64, n int, settings *config.Settings, clock Clock) *Model {
	if n <= 0 {
		n = DefaultPoints
	}
	if settings == nil {
		settings = config.NewSettings()
	}
	if clock == nil {
		clock = SystemClock()
	}
	m := &Model{
		n:        n,
		settings: settings,
		clock:    clock,
	}
	m.Initialize(width, height)
	return m
}

// Initialize resets the ring to a circle of radius width/2-100 centered on the
// surface. It replaces the whole ring and is safe to call on every resize.
func (m *Model) Initialize(width, height float64) {
	width, height = nonNegative(width), nonNegative(height)
	m.InitializeCircle(width/2, height/2, width/2-edgeMargin)
}

// InitializeCircle resets the ring to a circle of the given center and radius.
func (m *Model) InitializeCircle(cx, cy, radius float64) {
	if math.IsNaN(radius) || radius < MinBaseRadius {
		radius = MinBaseRadius
	}
	m.cx, m.cy = finite(cx), finite(cy)
	points := make([]ControlPoint, m.n)
	for i := range points {
		angle := float64(i) / float64(m.n) * twoPi
		points[i] = ControlPoint{
			BaseAngle:  angle,
			BaseRadius: radius,
			X:          m.cx + math.Cos(angle)*radius,
			Y:          m.cy + math.Sin(angle)*radius,
		}
	}
	m.points = points
}

// Update advances the rotation and moves every point toward its target.
// With no magnitudes the shape falls back to idle motion. bands may be nil,
// in which case every band reads 64.
func (m *Model) Update(magnitudes []uint8, bands *BandEnergies) {
	now := m.clock.Now()
	m.advance(now)

	active := len(magnitudes) > 0
	if active && bands == nil {
		bands = &defaultBands
	}

	nowMs := float64(now.UnixNano()) / float64(time.Millisecond)
	sensitivity := m.settings.Sensitivity()
	step := twoPi / float64(m.n)

	for i := range m.points {
		p := &m.points[i]

		var spike float64
		if active {
			large, small := bands.pick(i)
			lobe := (large - Midpoint) * lobeGain * sensitivity
			phase := float64(i)*step + m.rotation
			wave := (small - Midpoint) * waveGain * math.Sin(waveHarmonic*phase+nowMs/wavePeriodMs) * sensitivity
			spike = lobe + wave
		} else {
			t := nowMs / idlePeriodMs
			spike = sensitivity * (idleLobeAmp*math.Sin(t+float64(i)*step*idleLobes) +
				idleSpikeAmp*math.Sin(idleSpikeSpeed*t+float64(i)*step*idleSpikes))
		}

		angle := p.BaseAngle + m.rotation
		r := p.BaseRadius + spike
		tx := m.cx + math.Cos(angle)*r
		ty := m.cy + math.Sin(angle)*r

		p.X += (tx - p.X) * smoothing
		p.Y += (ty - p.Y) * smoothing
	}
}

func (m *Model) advance(now time.Time) {
	var delta time.Duration
	if !m.last.IsZero() {
		delta = now.Sub(m.last)
	}
	m.last = now
	if delta < 0 {
		delta = 0
	}
	if delta > MaxTickDelta {
		delta = MaxTickDelta
	}

	m.rotation = wrapAngle(m.rotation + delta.Seconds()*m.settings.RotationSpeed())
}

// Points returns the ring. Callers must treat it as read-only; it is only
// valid until the next Initialize.
func (m *Model) Points() []ControlPoint { return m.points }

func (m *Model) Len() int { return len(m.points) }

func (m *Model) Rotation() float64 { return m.rotation }

func (m *Model) Center() (float64, float64) { return m.cx, m.cy }

func wrapAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		a = 0
	}
	return a
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
