package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iburimskiy/ferrofluid/internal/config"
	"github.com/iburimskiy/ferrofluid/internal/ferrofluid"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type countingSource struct {
	calls int
	bands ferrofluid.BandEnergies
}

func (s *countingSource) Frame() ([]uint8, *ferrofluid.BandEnergies) {
	s.calls++
	return []uint8{1, 2, 3}, &s.bands
}

func TestEngine_StoppedDoesNotUpdate(t *testing.T) {
	t.Parallel()

	clock := ferrofluid.NewManualClock(epoch)
	src := &countingSource{bands: ferrofluid.NewBandEnergies(255, 255, 255)}
	e := New(400, 400, 16, nil, clock, src)
	before := append([]ferrofluid.ControlPoint(nil), e.Model.Points()...)

	rec := ferrofluid.NewRecorder(400, 400)
	e.Tick(rec)
	if src.calls != 0 {
		t.Errorf("stopped engine pulled %d frames", src.calls)
	}
	for i, p := range e.Model.Points() {
		if p != before[i] {
			t.Fatalf("point %d moved while stopped", i)
		}
	}
	if len(rec.Fills) != 1 {
		t.Errorf("stopped engine should still draw, got %d fills", len(rec.Fills))
	}

	e.Start()
	clock.Advance(16 * time.Millisecond)
	e.Tick(rec)
	if src.calls != 1 || e.Ticks() != 1 {
		t.Errorf("calls = %d, ticks = %d, want 1 and 1", src.calls, e.Ticks())
	}
	if e.Model.Points()[0] == before[0] {
		t.Error("running engine did not move the shape")
	}

	e.Stop()
	if e.Running() {
		t.Error("Running() = true after Stop")
	}
}

func TestEngine_OutlineFollowsSettings(t *testing.T) {
	t.Parallel()

	settings := config.NewSettings()
	e := New(400, 400, 16, settings, ferrofluid.NewManualClock(epoch), nil)
	rec := ferrofluid.NewRecorder(400, 400)

	e.Draw(rec)
	if len(rec.Circles) != 1 {
		t.Fatalf("expected outline, got %d circles", len(rec.Circles))
	}
	settings.SetShowOutline(false)
	e.Draw(rec)
	if len(rec.Circles) != 0 {
		t.Errorf("expected no outline, got %d circles", len(rec.Circles))
	}
}

func TestEngine_Resize(t *testing.T) {
	t.Parallel()

	e := New(400, 400, 16, nil, ferrofluid.NewManualClock(epoch), nil)
	if e.Resize(400, 400) {
		t.Error("Resize with same size should be a no-op")
	}
	if !e.Resize(1000, 500) {
		t.Fatal("Resize with new size should re-initialize")
	}
	if got := e.Model.Points()[0].BaseRadius; got != 400 {
		t.Errorf("BaseRadius = %f, want 400", got)
	}
	if cx, cy := e.Model.Center(); cx != 500 || cy != 250 {
		t.Errorf("Center() = (%f, %f), want (500, 250)", cx, cy)
	}
}

func TestLoop_StepSchedulerRunsToLimit(t *testing.T) {
	t.Parallel()

	clock := ferrofluid.NewManualClock(epoch)
	e := New(300, 300, 32, nil, clock, nil)
	e.Start()
	rec := ferrofluid.NewRecorder(300, 300)

	var times []time.Time
	loop := NewLoop(NewStepScheduler(clock, time.Second/30, 10), func(now time.Time) error {
		times = append(times, now)
		e.Tick(rec)
		return nil
	})
	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(times) != 10 || e.Ticks() != 10 {
		t.Fatalf("ran %d ticks (engine %d), want 10", len(times), e.Ticks())
	}
	if !times[0].Equal(epoch) {
		t.Errorf("first tick at %v, want %v", times[0], epoch)
	}
	if got := times[9].Sub(times[0]); got != 9*(time.Second/30) {
		t.Errorf("span = %v, want %v", got, 9*(time.Second/30))
	}
}

func TestLoop_TickErrorStops(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	clock := ferrofluid.NewManualClock(epoch)
	n := 0
	loop := NewLoop(NewStepScheduler(clock, time.Millisecond, 0), func(time.Time) error {
		n++
		if n == 3 {
			return boom
		}
		return nil
	})
	if err := loop.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if n != 3 {
		t.Errorf("ran %d ticks, want 3", n)
	}
}

func TestLoop_StartStop(t *testing.T) {
	t.Parallel()

	ticks := make(chan struct{}, 100)
	loop := NewLoop(NewTickerScheduler(time.Millisecond), func(time.Time) error {
		select {
		case ticks <- struct{}{}:
		default:
		}
		return nil
	})
	if loop.Done() != nil {
		t.Fatal("Done() should be nil before Start")
	}

	loop.Start(context.Background())
	loop.Start(context.Background())

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick within 2s")
	}
	if err := loop.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	select {
	case <-loop.Done():
	default:
		t.Error("Done() not closed after Stop")
	}
}

func TestStepScheduler_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStepScheduler(ferrofluid.NewManualClock(epoch), time.Millisecond, 0)
	if _, err := s.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}
