package export

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/iburimskiy/ferrofluid/internal/ferrofluid"
)

// imageSurface rasterizes onto an RGBA image scale times larger than the
// output and downsamples on Frame.
type imageSurface struct {
	width, height int
	scale         int

	img  *image.RGBA
	mask *image.Alpha
	out  *image.RGBA
	r    vector.Rasterizer
}

func newImageSurface(width, height, scale int) *imageSurface {
	scale = max(scale, 1)
	width, height = max(width, 1), max(height, 1)
	big := image.Rect(0, 0, width*scale, height*scale)
	s := &imageSurface{
		width:  width,
		height: height,
		scale:  scale,
		img:    image.NewRGBA(big),
		mask:   image.NewAlpha(big),
	}
	if scale > 1 {
		s.out = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	return s
}

func (s *imageSurface) Size() (float64, float64) {
	return float64(s.width), float64(s.height)
}

func (s *imageSurface) Clear(c color.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (s *imageSurface) StrokeCircle(cx, cy, r float64, style ferrofluid.StrokeStyle) {
	if r <= 0 || style.Width <= 0 {
		return
	}
	k := float64(s.scale)
	half := style.Width / 2
	s.reset()
	s.circle(cx*k, cy*k, (r+half)*k, false)
	if inner := r - half; inner > 0 {
		s.circle(cx*k, cy*k, inner*k, true)
	}
	s.r.Draw(s.img, s.img.Bounds(), image.NewUniform(style.Color), image.Point{})
}

func (s *imageSurface) FillPath(p ferrofluid.Path, style ferrofluid.FillStyle) {
	if len(p.Points) < 3 {
		return
	}
	if style.ShadowColor != nil && style.ShadowBlur > 0 {
		s.shadow(p, style.ShadowColor, style.ShadowBlur)
	}
	s.reset()
	s.path(p)
	s.r.Draw(s.img, s.img.Bounds(), image.NewUniform(style.Color), image.Point{})
}

// shadow paints the path blurred by blur pixels beneath the fill. The blur
// follows the canvas convention: a gaussian with sigma blur/2.
func (s *imageSurface) shadow(p ferrofluid.Path, c color.Color, blur float64) {
	clear(s.mask.Pix)
	s.reset()
	s.path(p)
	s.r.Draw(s.mask, s.mask.Bounds(), image.Opaque, image.Point{})

	sigma := blur / 2 * float64(s.scale)
	lo, hi := p.Bounds()
	k := float64(s.scale)
	// The gaussian kernel reaches 3 sigma; past that the shadow is zero.
	margin := int(math.Ceil(3*sigma)) + 1
	box := image.Rect(
		int(math.Floor(lo.X*k))-margin, int(math.Floor(lo.Y*k))-margin,
		int(math.Ceil(hi.X*k))+margin+1, int(math.Ceil(hi.Y*k))+margin+1,
	).Intersect(s.mask.Bounds())
	if box.Empty() {
		return
	}
	blurred := imaging.Blur(s.mask.SubImage(box), sigma)
	draw.DrawMask(s.img, box, image.NewUniform(c), image.Point{}, blurred, image.Point{}, draw.Over)
}

func (s *imageSurface) reset() {
	b := s.img.Bounds()
	s.r.Reset(b.Dx(), b.Dy())
}

func (s *imageSurface) path(p ferrofluid.Path) {
	k := float32(s.scale)
	s.r.MoveTo(float32(p.Points[0].X)*k, float32(p.Points[0].Y)*k)
	for _, q := range p.Points[1:] {
		s.r.LineTo(float32(q.X)*k, float32(q.Y)*k)
	}
	s.r.ClosePath()
}

// circle adds a polygonal circle. Reversed circles cut holes under the
// non-zero rule.
func (s *imageSurface) circle(cx, cy, r float64, reverse bool) {
	steps := max(32, int(2*math.Pi*r/2))
	dir := 1.0
	if reverse {
		dir = -1
	}
	s.r.MoveTo(float32(cx+r), float32(cy))
	for i := 1; i < steps; i++ {
		a := dir * 2 * math.Pi * float64(i) / float64(steps)
		s.r.LineTo(float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a)))
	}
	s.r.ClosePath()
}

// Frame returns the finished image at output size. The image is reused by
// the next call.
func (s *imageSurface) Frame() *image.RGBA {
	if s.out == nil {
		return s.img
	}
	xdraw.CatmullRom.Scale(s.out, s.out.Bounds(), s.img, s.img.Bounds(), xdraw.Src, nil)
	return s.out
}
