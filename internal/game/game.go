package game

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/ferrofluid/internal/analysis"
	"github.com/iburimskiy/ferrofluid/internal/config"
	"github.com/iburimskiy/ferrofluid/internal/engine"
	"github.com/iburimskiy/ferrofluid/internal/ferrofluid"
	"github.com/iburimskiy/ferrofluid/internal/playback"
)

const (
	settingStep  = 0.05
	seekCooldown = 50 * time.Millisecond
	seekMinDelta = 0.01
)

var watchedKeys = []ebiten.Key{
	ebiten.KeyArrowUp, ebiten.KeyArrowDown,
	ebiten.KeyArrowLeft, ebiten.KeyArrowRight,
	ebiten.KeyO, ebiten.KeyS, ebiten.KeySpace,
	ebiten.KeyEscape, ebiten.KeyQ,
}

type Options struct {
	Config     *config.Config
	ConfigPath string
	Player     *playback.Player
	Logger     *log.Logger
	Clock      ferrofluid.Clock
}

// Game is the ebiten window: the ferrofluid shape with a small HUD on top.
type Game struct {
	cfg     *config.Config
	cfgPath string
	log     *log.Logger

	player  *playback.Player
	monitor *analysis.Monitor
	engine  *engine.Engine
	surface *screenSurface
	meter   bandMeter

	width, height int
	layout        hudLayout

	// input edge detection
	prevKey map[ebiten.Key]bool

	buttonHovered    bool
	buttonPressed    bool
	progressHovered  bool
	progressDragging bool
	lastSeek         time.Time

	lastErr error
	notice  string

	// loaded delivers the result of a load started from the dialog.
	loaded  chan loadResult
	loading bool

	// selectFile asks the user for a file; "" means cancelled.
	selectFile func() (string, error)
}

func New(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	player := opts.Player
	if player == nil {
		player = playback.NewPlayer(nil, logger)
	}
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultFile
	}

	monitor := analysis.NewMonitor(player, analysis.NewAnalyser(config.FFTSize), player.Playing)
	eng := engine.New(float64(cfg.Width), float64(cfg.Height), cfg.Points, cfg.Settings(), opts.Clock, monitor)
	eng.Start()

	return &Game{
		cfg:        cfg,
		cfgPath:    path,
		log:        logger,
		player:     player,
		monitor:    monitor,
		engine:     eng,
		meter:      newBandMeter(config.TargetTPS),
		width:      cfg.Width,
		height:     cfg.Height,
		layout:     layoutFor(cfg.Width, cfg.Height),
		prevKey:    map[ebiten.Key]bool{},
		loaded:     make(chan loadResult, 1),
		selectFile: selectFileDialog,
	}
}

type loadResult struct {
	path string
	err  error
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle("Ferrofluid - click Open File, Space: Play/Pause, Esc/Q: Quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TargetTPS)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	if cerr := g.player.Close(); err == nil {
		err = cerr
	}
	return err
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = g.layout.button.contains(mouseX, mouseY)
	g.progressHovered = g.player.Duration() > 0 && g.layout.progress.contains(mouseX, mouseY)

	g.collectLoad()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if g.buttonHovered && !g.loading {
			g.buttonPressed = true
		}
		if g.progressHovered {
			g.progressDragging = true
			g.seek(g.layout.progress.fraction(mouseX), true)
		}
	}
	if g.progressDragging && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.seek(g.layout.progress.fraction(mouseX), false)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			g.report(g.openFileDialog())
		}
		g.buttonPressed = false
		g.progressDragging = false
	}

	for _, k := range watchedKeys {
		if !justPressed(k) {
			continue
		}
		if err := g.handleKey(k); err != nil {
			if errors.Is(err, ebiten.Termination) {
				return err
			}
			g.report(err)
		}
	}

	g.engine.Step()
	if g.player.Playing() {
		bands := g.monitor.Bands()
		g.meter.update(&bands)
	} else {
		g.meter.update(nil)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.surface == nil {
		g.surface = newScreenSurface()
	}
	g.surface.attach(screen)
	g.engine.Draw(g.surface)

	g.drawButton(screen)
	g.drawStatus(screen)
	g.drawBands(screen)
	g.drawProgressBar(screen)
	g.drawHelp(screen)
}

// Layout follows the window size; a changed size re-seeds the ring.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return g.width, g.height
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.layout = layoutFor(outsideWidth, outsideHeight)
	}
	if g.engine.Resize(float64(outsideWidth), float64(outsideHeight)) {
		g.log.Printf("resized to %dx%d", outsideWidth, outsideHeight)
	}
	return g.width, g.height
}

// handleKey applies one key press. Esc and Q return ebiten.Termination.
func (g *Game) handleKey(k ebiten.Key) error {
	s := g.engine.Settings
	switch k {
	case ebiten.KeyArrowUp:
		s.AdjustSensitivity(settingStep)
	case ebiten.KeyArrowDown:
		s.AdjustSensitivity(-settingStep)
	case ebiten.KeyArrowRight:
		s.AdjustRotationSpeed(settingStep)
	case ebiten.KeyArrowLeft:
		s.AdjustRotationSpeed(-settingStep)
	case ebiten.KeyO:
		s.ToggleOutline()
	case ebiten.KeyS:
		return g.saveSettings()
	case ebiten.KeySpace:
		if err := g.player.Toggle(); err != nil && !errors.Is(err, playback.ErrNoAudio) {
			return err
		}
	case ebiten.KeyEscape, ebiten.KeyQ:
		return ebiten.Termination
	}
	return nil
}

func (g *Game) saveSettings() error {
	g.cfg.Apply(g.engine.Settings)
	if err := config.Save(g.cfgPath, g.cfg); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	g.notice = "Settings saved to " + g.cfgPath
	g.log.Printf("settings saved to %s", g.cfgPath)
	return nil
}

// seek moves playback to fraction f. Drags are throttled and ignore tiny moves.
func (g *Game) seek(f float64, force bool) {
	if !force {
		if time.Since(g.lastSeek) < seekCooldown {
			return
		}
		if math.Abs(f-g.player.Progress()) <= seekMinDelta {
			return
		}
	}
	if err := g.player.SeekFraction(f); err != nil {
		g.report(err)
		return
	}
	g.lastSeek = time.Now()
}

func (g *Game) report(err error) {
	if err == nil {
		return
	}
	g.lastErr = err
	g.log.Printf("error: %v", err)
}

// Load opens path and starts playing it.
func (g *Game) Load(path string) error {
	if err := loadAndPlay(g.player, path); err != nil {
		return err
	}
	g.loadDone(path)
	return nil
}

func loadAndPlay(p *playback.Player, path string) error {
	if err := p.Load(path); err != nil {
		return err
	}
	return p.Play()
}

func (g *Game) loadDone(path string) {
	g.lastErr = nil
	g.notice = ""
	g.log.Printf("playing %s", filepath.Base(path))
}

// loadAsync decodes path off the game loop so the HUD can show the player
// processing. The result is picked up by collectLoad.
func (g *Game) loadAsync(path string) {
	g.loading = true
	go func() {
		g.loaded <- loadResult{path: path, err: loadAndPlay(g.player, path)}
	}()
}

// collectLoad reports a finished background load, if any.
func (g *Game) collectLoad() {
	select {
	case res := <-g.loaded:
		g.loading = false
		if res.err != nil {
			g.report(res.err)
			return
		}
		g.loadDone(res.path)
	default:
	}
}

func (g *Game) openFileDialog() error {
	filename, err := g.selectFile()
	if err != nil {
		return err
	}
	if filename == "" {
		return nil
	}
	g.loadAsync(filename)
	return nil
}

func selectFileDialog() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: playback.Extensions,
		}},
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", nil
	}
	return filename, err
}
