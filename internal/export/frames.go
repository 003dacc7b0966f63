package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/iburimskiy/ferrofluid/internal/analysis"
	"github.com/iburimskiy/ferrofluid/internal/config"
	"github.com/iburimskiy/ferrofluid/internal/engine"
	"github.com/iburimskiy/ferrofluid/internal/ferrofluid"
	"github.com/iburimskiy/ferrofluid/internal/playback"
)

const (
	DefaultFPS         = 60
	DefaultSupersample = 2
)

// ErrNoFrames is returned when there is nothing to render.
var ErrNoFrames = errors.New("no frames to render")

// epoch is the virtual start time of every export, so runs are reproducible.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

type Options struct {
	Dir         string
	FPS         int
	Width       int
	Height      int
	Points      int
	Supersample int
	// Frames caps the number of frames; 0 renders the whole track.
	Frames   int
	Settings *config.Settings
	Logger   *log.Logger
}

func (o *Options) defaults() {
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.Width <= 0 {
		o.Width = config.WindowWidth
	}
	if o.Height <= 0 {
		o.Height = config.WindowHeight
	}
	if o.Supersample <= 0 {
		o.Supersample = DefaultSupersample
	}
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.Settings == nil {
		o.Settings = config.NewSettings()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
}

type Result struct {
	Frames int
	Dir    string
}

// File decodes path and renders it with Frames.
func File(ctx context.Context, path string, opts Options) (Result, error) {
	samples, format, err := playback.ReadAll(path)
	if err != nil {
		return Result{}, err
	}
	return Frames(ctx, samples, int(format.SampleRate), opts)
}

// Frames renders one PNG per frame of the mono samples into opts.Dir.
// Time is simulated, so the output does not depend on how fast it renders.
func Frames(ctx context.Context, samples []float64, sampleRate int, opts Options) (Result, error) {
	opts.defaults()

	src := analysis.NewBufferSource(samples, sampleRate, opts.FPS, analysis.NewAnalyser(config.FFTSize))
	limit := src.Frames()
	if opts.Frames > 0 {
		limit = opts.Frames
	}
	if limit <= 0 {
		return Result{}, ErrNoFrames
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return Result{}, err
	}

	clock := ferrofluid.NewManualClock(epoch)
	eng := engine.New(float64(opts.Width), float64(opts.Height), opts.Points, opts.Settings, clock, src)
	eng.Start()
	surface := newImageSurface(opts.Width, opts.Height, opts.Supersample)

	written := 0
	sched := engine.NewStepScheduler(clock, time.Second/time.Duration(opts.FPS), limit)
	loop := engine.NewLoop(sched, func(time.Time) error {
		eng.Tick(surface)
		name := filepath.Join(opts.Dir, fmt.Sprintf("frame_%05d.png", written))
		if err := writePNG(name, surface.Frame()); err != nil {
			return err
		}
		written++
		if written%opts.FPS == 0 {
			opts.Logger.Printf("rendered %d/%d frames", written, limit)
		}
		return nil
	})

	start := time.Now()
	if err := loop.Run(ctx); err != nil {
		return Result{Frames: written, Dir: opts.Dir}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{Frames: written, Dir: opts.Dir}, err
	}
	opts.Logger.Printf("wrote %d frames to %s in %s", written, opts.Dir, time.Since(start).Round(time.Millisecond))
	return Result{Frames: written, Dir: opts.Dir}, nil
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(name), err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
