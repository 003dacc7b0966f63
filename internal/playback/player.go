package playback

import (
	"fmt"
	"io"
	"log"
	"math"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"

	"github.com/iburimskiy/ferrofluid/internal/analysis"
	"github.com/iburimskiy/ferrofluid/internal/config"
)

// State is what the status indicator shows.
type State int

const (
	StateReady State = iota
	StatePlaying
	StatePaused
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateProcessing:
		return "processing"
	default:
		return "ready"
	}
}

// endSlack is how close to the end a paused track counts as finished.
const endSlack = 100 * time.Millisecond

// Player plays one file at a time through an Output and exposes the played
// samples through a Tap.
type Player struct {
	out Output
	log *log.Logger

	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *analysis.Tap
	title    string
	playing  bool
	initDone bool

	// Written from the audio callback, which runs under the output lock.
	ended      atomic.Bool
	generation atomic.Int64
	// Set while Load decodes and prepares a file.
	loading atomic.Bool
}

func NewPlayer(out Output, logger *log.Logger) *Player {
	if out == nil {
		out = Speaker()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Player{out: out, log: logger}
}

// Load stops whatever is playing and prepares path, paused at the start.
func (p *Player) Load(path string) error {
	p.loading.Store(true)
	defer p.loading.Store(false)

	streamer, format, err := Decode(path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bufferSize := format.SampleRate.N(time.Second / 20)
	if !p.initDone || p.format.SampleRate != format.SampleRate {
		p.out.Clear()
		if err := p.out.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			return fmt.Errorf("init output: %w", err)
		}
		p.initDone = true
	} else {
		p.out.Clear()
	}
	p.closeLocked()

	p.streamer = streamer
	p.format = format
	p.tap = analysis.NewTap(streamer, config.VisualRingSize)
	p.ctrl = &beep.Ctrl{Streamer: p.tap, Paused: true}
	p.title = ReadTitle(path)
	p.playing = false
	p.ended.Store(false)
	p.queueLocked()

	p.log.Printf("loaded %s (%d Hz, %s)", filepath.Base(path), format.SampleRate, p.durationLocked())
	return nil
}

// queueLocked hands the controller to the output. The callback only marks
// the end of the run it was queued for.
func (p *Player) queueLocked() {
	gen := p.generation.Add(1)
	p.out.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		if p.generation.Load() == gen {
			p.ended.Store(true)
		}
	})))
}

// Play starts or resumes playback. A finished track starts over.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return ErrNoAudio
	}
	if p.playing && !p.ended.Load() {
		return nil
	}

	ended := p.ended.Load()
	if ended || p.atEndLocked() {
		if err := p.seekLocked(0); err != nil {
			return err
		}
	}
	if ended {
		p.ended.Store(false)
		p.queueLocked()
	}

	p.out.Lock()
	p.ctrl.Paused = false
	p.out.Unlock()
	p.playing = true
	p.log.Printf("play %q at %s", p.title, p.positionLocked())
	return nil
}

// Pause keeps the current position. It does nothing once the track has ended.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil || !p.playing || p.ended.Load() {
		return
	}
	p.out.Lock()
	p.ctrl.Paused = true
	p.out.Unlock()
	p.playing = false
	p.log.Printf("pause %q at %s", p.title, p.positionLocked())
}

// Toggle switches between Play and Pause.
func (p *Player) Toggle() error {
	if p.Playing() {
		p.Pause()
		return nil
	}
	return p.Play()
}

// SeekFraction moves to f of the track length, f clamped to [0, 1].
func (p *Player) SeekFraction(f float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return ErrNoAudio
	}
	if f < 0 || math.IsNaN(f) {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	n := p.streamer.Len()
	pos := int(f * float64(n))
	if pos >= n {
		pos = n - 1
	}
	if pos < 0 {
		pos = 0
	}
	if err := p.seekLocked(pos); err != nil {
		return err
	}
	if p.ended.Load() {
		p.ended.Store(false)
		p.playing = false
		p.out.Lock()
		p.ctrl.Paused = true
		p.out.Unlock()
		p.queueLocked()
	}
	return nil
}

func (p *Player) seekLocked(pos int) error {
	p.out.Lock()
	err := p.streamer.Seek(pos)
	p.out.Unlock()
	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	p.tap.Reset()
	return nil
}

func (p *Player) atEndLocked() bool {
	n := p.streamer.Len()
	return n > 0 && p.positionSamplesLocked() >= n-p.format.SampleRate.N(endSlack)
}

// Playing reports whether audio is flowing right now.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing && !p.ended.Load()
}

func (p *Player) State() State {
	if p.loading.Load() {
		return StateProcessing
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.streamer == nil || p.ended.Load():
		return StateReady
	case p.playing:
		return StatePlaying
	case p.positionSamplesLocked() > 0:
		return StatePaused
	default:
		return StateReady
	}
}

func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *Player) positionLocked() time.Duration {
	if p.streamer == nil {
		return 0
	}
	if p.ended.Load() {
		return p.durationLocked()
	}
	return p.format.SampleRate.D(p.positionSamplesLocked())
}

func (p *Player) positionSamplesLocked() int {
	p.out.Lock()
	defer p.out.Unlock()
	return p.streamer.Position()
}

func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.durationLocked()
}

func (p *Player) durationLocked() time.Duration {
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// Progress is the played fraction in [0, 1].
func (p *Player) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.durationLocked()
	if d <= 0 {
		return 0
	}
	return min(1, float64(p.positionLocked())/float64(d))
}

// SampleRate is the rate of the loaded file, 0 when nothing is loaded.
func (p *Player) SampleRate() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	return int(p.format.SampleRate)
}

func (p *Player) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

// Tap is the sample tap of the loaded file; nil before the first Load.
func (p *Player) Tap() *analysis.Tap {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tap
}

// Samples implements analysis.SampleReader over the current tap.
func (p *Player) Samples(n int) []float64 {
	tap := p.Tap()
	if tap == nil {
		return make([]float64, n)
	}
	return tap.Samples(n)
}

// Close stops playback and releases the file.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initDone {
		p.out.Clear()
	}
	return p.closeLocked()
}

func (p *Player) closeLocked() error {
	if p.streamer == nil {
		return nil
	}
	p.generation.Add(1)
	err := p.streamer.Close()
	p.streamer = nil
	p.ctrl = nil
	p.playing = false
	return err
}
