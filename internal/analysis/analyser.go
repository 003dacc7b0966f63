package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	DefaultFFTSize   = 1024
	DefaultSmoothing = 0.8
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
)

// Analyser turns a block of samples into byte frequency magnitudes: a
// windowed FFT, smoothed over time and mapped from [MinDB, MaxDB] onto 0..255.
// It keeps the smoothing state between calls, so one Analyser serves one stream.
type Analyser struct {
	size      int
	smoothing float64
	minDB     float64
	maxDB     float64

	window []float64
	frame  []float64
	prev   []float64
	out    []uint8
}

// NewAnalyser creates an analyser for fftSize samples, producing fftSize/2 bins.
// fftSize is rounded up to a power of two.
func NewAnalyser(fftSize int) *Analyser {
	size := 32
	for size < fftSize {
		size <<= 1
	}
	return &Analyser{
		size:      size,
		smoothing: DefaultSmoothing,
		minDB:     DefaultMinDB,
		maxDB:     DefaultMaxDB,
		window:    window.Blackman(size),
		frame:     make([]float64, size),
		prev:      make([]float64, size/2),
		out:       make([]uint8, size/2),
	}
}

func (a *Analyser) FFTSize() int { return a.size }

func (a *Analyser) BinCount() int { return a.size / 2 }

// SetSmoothing sets the time constant in [0, 1); 0 disables smoothing.
func (a *Analyser) SetSmoothing(v float64) {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	if v >= 1 {
		v = 0.99
	}
	a.smoothing = v
}

// Analyse reads the newest FFTSize samples (zero padded at the front when
// fewer are given) and returns the byte magnitudes. The returned slice is
// reused by the next call.
func (a *Analyser) Analyse(samples []float64) []uint8 {
	if len(samples) > a.size {
		samples = samples[len(samples)-a.size:]
	}
	pad := a.size - len(samples)
	for i := 0; i < pad; i++ {
		a.frame[i] = 0
	}
	for i, s := range samples {
		a.frame[pad+i] = s * a.window[pad+i]
	}

	spectrum := fft.FFTReal(a.frame)

	scale := 255 / (a.maxDB - a.minDB)
	for k := range a.prev {
		mag := cmplx.Abs(spectrum[k]) / float64(a.size)
		v := a.smoothing*a.prev[k] + (1-a.smoothing)*mag
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		a.prev[k] = v

		db := 20 * math.Log10(v)
		b := math.Floor(scale * (db - a.minDB))
		switch {
		case math.IsNaN(b) || b < 0:
			a.out[k] = 0
		case b > 255:
			a.out[k] = 255
		default:
			a.out[k] = uint8(b)
		}
	}
	return a.out
}

// Reset clears the smoothing history.
func (a *Analyser) Reset() {
	clear(a.prev)
}
