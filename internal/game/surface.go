package game

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/ferrofluid/internal/ferrofluid"
)

// glowLayers is how many widening strokes approximate the blurred shadow.
const glowLayers = 6

// screenSurface paints ferrofluid paths onto an ebiten image.
type screenSurface struct {
	dst   *ebiten.Image
	white *ebiten.Image

	vs []ebiten.Vertex
	is []uint16
}

func newScreenSurface() *screenSurface {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return &screenSurface{white: img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)}
}

func (s *screenSurface) attach(dst *ebiten.Image) { s.dst = dst }

func (s *screenSurface) Size() (float64, float64) {
	b := s.dst.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *screenSurface) Clear(c color.Color) { s.dst.Fill(c) }

func (s *screenSurface) StrokeCircle(cx, cy, r float64, style ferrofluid.StrokeStyle) {
	vector.StrokeCircle(s.dst, float32(cx), float32(cy), float32(r), float32(style.Width), style.Color, true)
}

func (s *screenSurface) FillPath(p ferrofluid.Path, style ferrofluid.FillStyle) {
	if len(p.Points) < 2 {
		return
	}
	path := toVectorPath(p)

	if style.ShadowColor != nil && style.ShadowBlur > 0 {
		_, _, _, a := style.ShadowColor.RGBA()
		if a > 0 {
			layer := scaleAlpha(style.ShadowColor, 1/float64(glowLayers))
			for i := glowLayers; i > 0; i-- {
				width := style.ShadowBlur * float64(i) / glowLayers
				s.vs, s.is = path.AppendVerticesAndIndicesForStroke(s.vs[:0], s.is[:0], &vector.StrokeOptions{
					Width:    float32(width),
					LineJoin: vector.LineJoinRound,
				})
				s.drawTriangles(layer, ebiten.FillRuleFillAll)
			}
		}
	}

	s.vs, s.is = path.AppendVerticesAndIndicesForFilling(s.vs[:0], s.is[:0])
	s.drawTriangles(style.Color, ebiten.FillRuleNonZero)
}

func (s *screenSurface) drawTriangles(c color.Color, rule ebiten.FillRule) {
	paintVertices(s.vs, c)
	s.dst.DrawTriangles(s.vs, s.is, s.white, trianglesOptions(rule))
}

// paintVertices points every vertex at the white pixel and tints it with c.
// Colours are premultiplied, as color.Color.RGBA returns them.
func paintVertices(vs []ebiten.Vertex, c color.Color) {
	r, g, b, a := c.RGBA()
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
}

func trianglesOptions(rule ebiten.FillRule) *ebiten.DrawTrianglesOptions {
	return &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
		FillRule:       rule,
		AntiAlias:      true,
	}
}

func toVectorPath(p ferrofluid.Path) *vector.Path {
	var path vector.Path
	path.MoveTo(float32(p.Points[0].X), float32(p.Points[0].Y))
	for _, q := range p.Points[1:] {
		path.LineTo(float32(q.X), float32(q.Y))
	}
	if p.Closed {
		path.Close()
	}
	return &path
}

// scaleAlpha returns c with every premultiplied channel multiplied by f.
func scaleAlpha(c color.Color, f float64) color.Color {
	r, g, b, a := c.RGBA()
	return color.RGBA64{
		R: uint16(float64(r) * f),
		G: uint16(float64(g) * f),
		B: uint16(float64(b) * f),
		A: uint16(float64(a) * f),
	}
}
