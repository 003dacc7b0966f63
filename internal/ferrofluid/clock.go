package ferrofluid

import "time"

// Clock supplies wall-clock time to the model.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real-time clock.
func SystemClock() Clock { return systemClock{} }

// ManualClock is a Clock that only moves when told to. Offline rendering
// and tests drive the model with it.
type ManualClock struct {
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time { return c.now }

func (c *ManualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func (c *ManualClock) Set(t time.Time) { c.now = t }
