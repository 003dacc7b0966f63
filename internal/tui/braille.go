package tui

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/vector"

	"github.com/iburimskiy/ferrofluid/internal/ferrofluid"
)

// Braille patterns: 2x4 dots per cell, offset 0x2800.
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]uint8{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// brailleSurface draws onto a grid of braille cells. Callers work in a
// virtual pixel space of width x height that is scaled to fit the grid.
type brailleSurface struct {
	width, height float64
	cols, rows    int

	scale      float64
	offX, offY float64

	fill [][]uint8
	line [][]uint8

	// coverage is the fill rasterized at one pixel per dot.
	coverage *image.Alpha
	r        vector.Rasterizer
}

func newBrailleSurface(width, height float64, cols, rows int) *brailleSurface {
	b := &brailleSurface{width: width, height: height}
	b.resize(cols, rows)
	return b
}

// resize changes the grid; the virtual size stays.
func (b *brailleSurface) resize(cols, rows int) {
	b.cols, b.rows = max(cols, 0), max(rows, 0)
	b.fill = make([][]uint8, b.rows)
	b.line = make([][]uint8, b.rows)
	for i := range b.fill {
		b.fill[i] = make([]uint8, b.cols)
		b.line[i] = make([]uint8, b.cols)
	}

	b.coverage = image.NewAlpha(image.Rect(0, 0, b.cols*2, b.rows*4))

	dotsW, dotsH := float64(b.cols*2), float64(b.rows*4)
	if b.width <= 0 || b.height <= 0 {
		b.scale = 0
		return
	}
	b.scale = min(dotsW/b.width, dotsH/b.height)
	b.offX = (dotsW - b.width*b.scale) / 2
	b.offY = (dotsH - b.height*b.scale) / 2
}

func (b *brailleSurface) Size() (float64, float64) { return b.width, b.height }

func (b *brailleSurface) Clear(color.Color) {
	for i := range b.fill {
		clear(b.fill[i])
		clear(b.line[i])
	}
}

func (b *brailleSurface) StrokeCircle(cx, cy, r float64, _ ferrofluid.StrokeStyle) {
	if r <= 0 || b.scale == 0 {
		return
	}
	x0, y0 := b.toDots(cx, cy)
	rd := r * b.scale
	steps := max(16, int(4*math.Pi*rd))
	for i := range steps {
		a := 2 * math.Pi * float64(i) / float64(steps)
		b.set(b.line, int(math.Floor(x0+rd*math.Cos(a))), int(math.Floor(y0+rd*math.Sin(a))))
	}
}

// fillThreshold is the coverage at which a dot counts as inside the shape.
const fillThreshold = 0x80

// FillPath rasterizes the path with the non-zero rule at one pixel per dot
// and sets every dot that is at least half covered.
func (b *brailleSurface) FillPath(p ferrofluid.Path, _ ferrofluid.FillStyle) {
	if len(p.Points) < 3 || b.scale == 0 {
		return
	}
	bounds := b.coverage.Bounds()
	if bounds.Empty() {
		return
	}
	clear(b.coverage.Pix)
	b.r.Reset(bounds.Dx(), bounds.Dy())
	x, y := b.toDots(p.Points[0].X, p.Points[0].Y)
	b.r.MoveTo(float32(x), float32(y))
	for _, q := range p.Points[1:] {
		x, y = b.toDots(q.X, q.Y)
		b.r.LineTo(float32(x), float32(y))
	}
	b.r.ClosePath()
	b.r.Draw(b.coverage, bounds, image.Opaque, image.Point{})

	for dy := range bounds.Dy() {
		row := b.coverage.Pix[dy*b.coverage.Stride : dy*b.coverage.Stride+bounds.Dx()]
		for dx, a := range row {
			if a >= fillThreshold {
				b.set(b.fill, dx, dy)
			}
		}
	}
}

func (b *brailleSurface) toDots(x, y float64) (float64, float64) {
	return x*b.scale + b.offX, y*b.scale + b.offY
}

func (b *brailleSurface) set(layer [][]uint8, dx, dy int) {
	if dx < 0 || dy < 0 {
		return
	}
	col, row := dx/2, dy/4
	if col >= b.cols || row >= b.rows {
		return
	}
	layer[row][col] |= pixelMap[dy%4][dx%2]
}

// dot reports whether any layer has the dot at (dx, dy).
func (b *brailleSurface) dot(dx, dy int) bool {
	if dx < 0 || dy < 0 || dx/2 >= b.cols || dy/4 >= b.rows {
		return false
	}
	m := pixelMap[dy%4][dx%2]
	return (b.fill[dy/4][dx/2]|b.line[dy/4][dx/2])&m != 0
}

// Plain returns the grid without styling.
func (b *brailleSurface) Plain() string {
	var sb strings.Builder
	for r := range b.rows {
		for c := range b.cols {
			sb.WriteRune(0x2800 + rune(b.fill[r][c]|b.line[r][c]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Render styles cells that hold part of the shape apart from outline-only cells.
func (b *brailleSurface) Render(fillStyle, lineStyle lipgloss.Style) string {
	var sb strings.Builder
	var run strings.Builder
	kind := -1

	flush := func() {
		if run.Len() == 0 {
			return
		}
		switch kind {
		case 1:
			sb.WriteString(fillStyle.Render(run.String()))
		case 2:
			sb.WriteString(lineStyle.Render(run.String()))
		default:
			sb.WriteString(run.String())
		}
		run.Reset()
	}

	for r := range b.rows {
		for c := range b.cols {
			k := 0
			switch {
			case b.fill[r][c] != 0:
				k = 1
			case b.line[r][c] != 0:
				k = 2
			}
			if k != kind {
				flush()
				kind = k
			}
			run.WriteRune(0x2800 + rune(b.fill[r][c]|b.line[r][c]))
		}
		flush()
		kind = -1
		if r < b.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
