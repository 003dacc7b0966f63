package analysis

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap wraps a beep.Streamer and records the last N samples into a ring buffer
// so the analyser can look at what is being played right now.
type Tap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	filled    int
	mu        sync.RWMutex
}

// NewTap records up to ringSize frames; sizes below 1 are raised to 1.
func NewTap(src beep.Streamer, ringSize int) *Tap {
	return &Tap{
		Source: src,
		buffer: make([][2]float64, max(ringSize, 1)),
	}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.filled = min(t.filled+n, len(t.buffer))
		t.mu.Unlock()
	}
	return n, ok
}

func (t *Tap) Err() error { return t.Source.Err() }

// Samples returns up to the last n samples mixed to mono, oldest first.
// Positions never written read as silence.
func (t *Tap) Samples(n int) []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	out := make([]float64, n)
	// Walk backwards from nextIndex - 1, filling out from the end.
	idx := t.nextIndex - 1
	if idx < 0 {
		idx = len(t.buffer) - 1
	}
	for i := n - 1; i >= 0 && n-1-i < t.filled; i-- {
		s := t.buffer[idx]
		out[i] = (s[0] + s[1]) * 0.5
		idx--
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
	}
	return out
}

// Reset forgets recorded samples, e.g. after a seek.
func (t *Tap) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.buffer)
	t.nextIndex = 0
	t.filled = 0
}
