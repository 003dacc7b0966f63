package tui

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iburimskiy/ferrofluid/internal/analysis"
	"github.com/iburimskiy/ferrofluid/internal/config"
	"github.com/iburimskiy/ferrofluid/internal/engine"
	"github.com/iburimskiy/ferrofluid/internal/ferrofluid"
	"github.com/iburimskiy/ferrofluid/internal/playback"
)

// FPS is the terminal redraw rate.
const FPS = 30

const settingStep = 0.05

var (
	fluid   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	outline = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	title   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	errText = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	bar     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	stateStyles = map[playback.State]lipgloss.Style{
		playback.StateReady:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00e676")),
		playback.StatePlaying: lipgloss.NewStyle().Foreground(lipgloss.Color("#2979ff")),
		playback.StatePaused:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb300")),
		// Loading keeps the ready colour.
		playback.StateProcessing: lipgloss.NewStyle().Foreground(lipgloss.Color("#00e676")),
	}
)

// chromeLines is the number of text lines around the braille grid.
const chromeLines = 3

type Options struct {
	Config     *config.Config
	ConfigPath string
	Player     *playback.Player
	Logger     *log.Logger
	Clock      ferrofluid.Clock
}

// Model renders the ferrofluid in the terminal with braille dots.
type Model struct {
	cfg     *config.Config
	cfgPath string
	log     *log.Logger

	player  *playback.Player
	monitor *analysis.Monitor
	engine  *engine.Engine
	surface *brailleSurface

	width, height int
	err           error
	notice        string
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/FPS, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func New(opts Options) *Model {
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
	w, h := float64(cfg.Width), float64(cfg.Height)
	eng := engine.New(w, h, cfg.Points, cfg.Settings(), opts.Clock, monitor)
	eng.Start()

	m := &Model{
		cfg:     cfg,
		cfgPath: path,
		log:     logger,
		player:  player,
		monitor: monitor,
		engine:  eng,
		width:   80,
		height:  24,
	}
	m.surface = newBrailleSurface(w, h, m.width, m.height-chromeLines)
	return m
}

// Load opens path and starts playing it.
func (m *Model) Load(path string) error {
	if err := m.player.Load(path); err != nil {
		return err
	}
	return m.player.Play()
}

// Run takes over the terminal until the user quits.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	if cerr := m.player.Close(); err == nil {
		err = cerr
	}
	return err
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.surface.resize(m.width, max(m.height-chromeLines, 1))
		return m, nil
	case tickMsg:
		m.engine.Tick(m.surface)
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	s := m.engine.Settings
	m.err = nil
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return tea.Quit
	case "up", "k":
		s.AdjustSensitivity(settingStep)
	case "down", "j":
		s.AdjustSensitivity(-settingStep)
	case "right", "l":
		s.AdjustRotationSpeed(settingStep)
	case "left", "h":
		s.AdjustRotationSpeed(-settingStep)
	case "o":
		s.ToggleOutline()
	case "s":
		m.cfg.Apply(s)
		if err := config.Save(m.cfgPath, m.cfg); err != nil {
			m.err = fmt.Errorf("save settings: %w", err)
			return nil
		}
		m.notice = "settings saved to " + m.cfgPath
		m.log.Printf("settings saved to %s", m.cfgPath)
	case " ":
		if err := m.player.Toggle(); err != nil && !errors.Is(err, playback.ErrNoAudio) {
			m.err = err
		}
	}
	return nil
}

func (m *Model) View() string {
	var b strings.Builder

	state := m.player.State()
	name := m.player.Title()
	if name == "" {
		name = "no file"
	}
	b.WriteString(stateStyles[state].Render("●") + " " + title.Render("ferrofluid") + "  " + name)
	if rate := m.player.SampleRate(); rate > 0 {
		b.WriteString(dim.Render(fmt.Sprintf("  %.1f kHz  %s / %s", float64(rate)/1000,
			clock(m.player.Position()), clock(m.player.Duration()))))
	}
	b.WriteByte('\n')

	bands := m.monitor.Bands()
	if !m.player.Playing() {
		bands = ferrofluid.BandEnergies{}
	}
	b.WriteString(bandLine(bands))
	b.WriteByte('\n')

	b.WriteString(m.surface.Render(fluid, outline))
	b.WriteByte('\n')

	s := m.engine.Settings
	switch {
	case m.err != nil:
		b.WriteString(errText.Render("error: " + m.err.Error()))
	case m.notice != "":
		b.WriteString(dim.Render(m.notice))
	default:
		b.WriteString(dim.Render(fmt.Sprintf("sens %.2f  rot %.2f  outline %v  |  ↑↓ sens  ←→ rot  o outline  s save  space play  q quit",
			s.Sensitivity(), s.RotationSpeed(), s.ShowOutline())))
	}
	return b.String()
}

// bandLine draws the three bands as bars of up to ten blocks.
func bandLine(e ferrofluid.BandEnergies) string {
	parts := []string{
		dim.Render("bass ") + bar.Render(blocks(e.Bass)),
		dim.Render("mid ") + bar.Render(blocks(e.Mid)),
		dim.Render("treb ") + bar.Render(blocks(e.Treble)),
	}
	return strings.Join(parts, "  ")
}

func blocks(v float64) string {
	n := int(max(1, min(10, v/255*10)))
	return strings.Repeat("█", n) + strings.Repeat(" ", 10-n)
}

func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
