package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iburimskiy/ferrofluid/internal/ferrofluid"
)

// ErrStopped is returned by a Scheduler that has no more ticks to give.
var ErrStopped = errors.New("scheduler stopped")

// Scheduler decides when the next tick happens.
type Scheduler interface {
	// Next blocks until the next tick is due and returns its time.
	Next(ctx context.Context) (time.Time, error)
	Close()
}

// TickerScheduler ticks on the wall clock at a fixed interval.
type TickerScheduler struct {
	ticker *time.Ticker
}

func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	return &TickerScheduler{ticker: time.NewTicker(interval)}
}

func (s *TickerScheduler) Next(ctx context.Context) (time.Time, error) {
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case t := <-s.ticker.C:
		return t, nil
	}
}

func (s *TickerScheduler) Close() { s.ticker.Stop() }

// StepScheduler advances a manual clock by a fixed interval per tick without
// sleeping. With a positive limit it stops after that many ticks.
type StepScheduler struct {
	clock    *ferrofluid.ManualClock
	interval time.Duration
	limit    int
	count    int
}

func NewStepScheduler(clock *ferrofluid.ManualClock, interval time.Duration, limit int) *StepScheduler {
	return &StepScheduler{clock: clock, interval: interval, limit: limit}
}

func (s *StepScheduler) Next(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	if s.limit > 0 && s.count >= s.limit {
		return time.Time{}, ErrStopped
	}
	if s.count > 0 {
		s.clock.Advance(s.interval)
	}
	s.count++
	return s.clock.Now(), nil
}

func (s *StepScheduler) Close() {}

// Loop calls a tick function every time its scheduler fires. Ticks run one
// after another on a single goroutine.
type Loop struct {
	sched Scheduler
	tick  func(now time.Time) error

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func NewLoop(sched Scheduler, tick func(now time.Time) error) *Loop {
	return &Loop{sched: sched, tick: tick}
}

// Run ticks until ctx is cancelled, the scheduler stops or a tick fails.
// A scheduler running out of ticks is not an error.
func (l *Loop) Run(ctx context.Context) error {
	defer l.sched.Close()
	for {
		now, err := l.sched.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrStopped) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := l.tick(now); err != nil {
			return err
		}
	}
}

// Start runs the loop in the background. Calling Start on a running loop is a no-op.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done != nil {
		return
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})
	go func(done chan struct{}) {
		err := l.Run(ctx)
		l.mu.Lock()
		l.err = err
		l.mu.Unlock()
		close(done)
	}(l.done)
}

// Stop ends a background loop and waits for the tick in flight to finish.
func (l *Loop) Stop() error {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.mu.Unlock()
	if done == nil {
		return nil
	}
	cancel()
	<-done
	return l.Err()
}

// Done is closed when a background loop has returned. It is nil before Start.
func (l *Loop) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}

func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
