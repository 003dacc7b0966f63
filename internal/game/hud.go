package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/ferrofluid/internal/config"
	"github.com/iburimskiy/ferrofluid/internal/ferrofluid"
)

const (
	bandBarMin    = 10
	bandBarMax    = 100
	bandBarHeight = 8

	springFrequency = 6.0
	springDamping   = 1.0 // critically damped
)

var bandLabels = [3]string{"BASS", "MID", "TREB"}

// barWidth maps a band value (0..255) to a bar length in pixels.
func barWidth(v float64) float64 {
	return max(bandBarMin, clamp01(v/255)*bandBarMax)
}

// bandMeter eases the three band bars toward their targets.
type bandMeter struct {
	spring harmonica.Spring
	pos    [3]float64
	vel    [3]float64
}

func newBandMeter(fps int) bandMeter {
	m := bandMeter{spring: harmonica.NewSpring(harmonica.FPS(fps), springFrequency, springDamping)}
	for i := range m.pos {
		m.pos[i] = bandBarMin
	}
	return m
}

// update moves the bars one frame toward b. A nil b lets them sink to the minimum.
func (m *bandMeter) update(b *ferrofluid.BandEnergies) {
	targets := [3]float64{bandBarMin, bandBarMin, bandBarMin}
	if b != nil {
		targets = [3]float64{barWidth(b.Bass), barWidth(b.Mid), barWidth(b.Treble)}
	}
	for i, target := range targets {
		m.pos[i], m.vel[i] = m.spring.Update(m.pos[i], m.vel[i], target)
	}
}

func (m *bandMeter) widths() [3]float64 { return m.pos }

// hudLayout places the widgets for a screen of the given size.
type hudLayout struct {
	button   rect
	status   rect
	bands    rect
	progress rect
}

func layoutFor(width, height int) hudLayout {
	return hudLayout{
		button:   rect{x: config.ButtonX, y: config.ButtonY, w: config.ButtonWidth, h: config.ButtonHeight},
		status:   rect{x: config.ButtonX + config.ButtonWidth + 16, y: config.ButtonY, w: 160, h: config.ButtonHeight},
		bands:    rect{x: width - bandBarMax - 60, y: config.ButtonY, w: bandBarMax + 40, h: 3 * (bandBarHeight + 8)},
		progress: rect{x: 20, y: height - 76, w: width - 40, h: 10},
	}
}

var (
	hudPanel       = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xdd}
	hudTrack       = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	hudFill        = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	buttonNormal   = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	buttonHovered  = color.RGBA{R: 0x4a, G: 0x4a, B: 0x4a, A: 0xff}
	buttonPressed  = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
	tooltipBgColor = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xc8}
)

// panel backs debug text, which is always drawn white.
func panel(screen *ebiten.Image, r rect) {
	vector.DrawFilledRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), hudPanel, false)
}

func (g *Game) drawButton(screen *ebiten.Image) {
	b := g.layout.button
	bg := buttonNormal
	if g.buttonPressed {
		bg = buttonPressed
	} else if g.buttonHovered {
		bg = buttonHovered
	}
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), bg, false)

	text := "Open File"
	textWidth := len(text) * 6
	ebitenutil.DebugPrintAt(screen, text, b.x+(b.w-textWidth)/2, b.y+(b.h-16)/2)
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	s := g.layout.status
	state := g.player.State()
	panel(screen, s)
	cy := float32(s.y + s.h/2)
	vector.DrawFilledCircle(screen, float32(s.x+6), cy, 6, statusColor(state), true)
	ebitenutil.DebugPrintAt(screen, statusText(state), s.x+18, s.y+s.h/2-8)

	y := config.ButtonY + config.ButtonHeight + 8
	for _, line := range []string{g.player.Title(), sampleRateLabel(g.player.SampleRate())} {
		if line == "" {
			continue
		}
		panel(screen, rect{x: config.ButtonX - 4, y: y - 2, w: len(line)*6 + 8, h: 18})
		ebitenutil.DebugPrintAt(screen, line, config.ButtonX, y)
		y += 20
	}
}

func (g *Game) drawBands(screen *ebiten.Image) {
	b := g.layout.bands
	panel(screen, rect{x: b.x - 8, y: b.y - 8, w: b.w + 16, h: b.h + 8})
	widths := g.meter.widths()
	for i, w := range widths {
		y := b.y + i*(bandBarHeight+8)
		ebitenutil.DebugPrintAt(screen, bandLabels[i], b.x, y-4)
		vector.DrawFilledRect(screen, float32(b.x+40), float32(y), float32(bandBarMax), bandBarHeight, hudTrack, false)
		vector.DrawFilledRect(screen, float32(b.x+40), float32(y), float32(w), bandBarHeight, hudFill, false)
	}
}

func (g *Game) drawProgressBar(screen *ebiten.Image) {
	duration := g.player.Duration()
	if duration <= 0 {
		return
	}
	p := g.layout.progress
	progress := g.player.Progress()

	panel(screen, rect{x: p.x - 12, y: p.y - 12, w: p.w + 24, h: p.h + 40})
	vector.DrawFilledRect(screen, float32(p.x), float32(p.y), float32(p.w), float32(p.h), hudTrack, false)
	if progress > 0 {
		vector.DrawFilledRect(screen, float32(p.x), float32(p.y), float32(progress*float64(p.w)), float32(p.h), hudFill, false)
	}
	indicatorX := float32(float64(p.x) + progress*float64(p.w))
	vector.DrawFilledCircle(screen, indicatorX, float32(p.y+p.h/2), 7, hudFill, true)

	current := formatDuration(g.player.Position())
	total := formatDuration(duration)
	ebitenutil.DebugPrintAt(screen, current, p.x, p.y+p.h+6)
	ebitenutil.DebugPrintAt(screen, total, p.x+p.w-len(total)*6, p.y+p.h+6)

	if g.progressHovered {
		mx, my := ebiten.CursorPosition()
		tip := formatDuration(time.Duration(p.fraction(mx) * float64(duration)))
		tipWidth := len(tip)*6 + 10
		tipX := min(max(mx-tipWidth/2, 0), g.width-tipWidth)
		tipY := my - 25
		vector.DrawFilledRect(screen, float32(tipX), float32(tipY), float32(tipWidth), 20, tooltipBgColor, false)
		ebitenutil.DebugPrintAt(screen, tip, tipX+5, tipY+2)
	}
}

func (g *Game) drawHelp(screen *ebiten.Image) {
	s := g.engine.Settings
	outline := "off"
	if s.ShowOutline() {
		outline = "on"
	}
	line := fmt.Sprintf("sens %.2f  rot %.2f  outline %s  |  arrows adjust, O outline, S save, Space play/pause, Esc quit",
		s.Sensitivity(), s.RotationSpeed(), outline)
	if g.lastErr != nil {
		line = "Error: " + g.lastErr.Error()
	} else if g.notice != "" {
		line = g.notice
	}
	panel(screen, rect{x: 0, y: g.height - 26, w: g.width, h: 26})
	ebitenutil.DebugPrintAt(screen, line, 20, g.height-22)
}
