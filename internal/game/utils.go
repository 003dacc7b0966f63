package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/iburimskiy/ferrofluid/internal/playback"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// rect is a screen-space hit box.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x <= r.x+r.w && y >= r.y && y <= r.y+r.h
}

// fraction is the horizontal position of x inside r, clamped to [0, 1].
func (r rect) fraction(x int) float64 {
	if r.w <= 0 {
		return 0
	}
	return clamp01(float64(x-r.x) / float64(r.w))
}

var (
	colorReady   = color.RGBA{R: 0x00, G: 0xe6, B: 0x76, A: 0xff}
	colorPlaying = color.RGBA{R: 0x29, G: 0x79, B: 0xff, A: 0xff}
	colorPaused  = color.RGBA{R: 0xff, G: 0xb3, B: 0x00, A: 0xff}
)

func statusColor(s playback.State) color.RGBA {
	switch s {
	case playback.StatePlaying:
		return colorPlaying
	case playback.StatePaused:
		return colorPaused
	default:
		return colorReady
	}
}

func statusText(s playback.State) string {
	switch s {
	case playback.StatePlaying:
		return "Playing"
	case playback.StatePaused:
		return "Paused"
	case playback.StateProcessing:
		return "Processing"
	default:
		return "Ready"
	}
}

// sampleRateLabel renders a rate as "44.1 kHz"; empty before a file is loaded.
func sampleRateLabel(rate int) string {
	if rate <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f kHz", float64(rate)/1000)
}
