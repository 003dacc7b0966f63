package ferrofluid

import "image/color"

// SamplesPerSegment is the number of points sampled on each spline segment.
const SamplesPerSegment = 10

// Style holds the colors and offsets used by the Renderer.
type Style struct {
	Background   color.Color
	Outline      StrokeStyle
	OutlineInset float64 // outline radius is width/2 - OutlineInset
	OutlineLift  float64 // outline center sits this far above the surface center
	Fill         FillStyle
	ShapeLift    float64 // every sampled y is moved up by this much
	Samples      int
}

func DefaultStyle() Style {
	return Style{
		Background:   color.White,
		Outline:      StrokeStyle{Color: color.RGBA{0x22, 0x22, 0x22, 0xff}, Width: 1.1},
		OutlineInset: 40,
		OutlineLift:  60,
		Fill: FillStyle{
			Color:       color.RGBA{10, 10, 10, 0xff},
			ShadowColor: color.NRGBA{0, 0, 0, 41},
			ShadowBlur:  64,
		},
		ShapeLift: 60,
		Samples:   SamplesPerSegment,
	}
}

// Options are read per render call.
type Options struct {
	ShowOutline bool
}

// Renderer paints the ring as a closed spline plus an optional reference circle.
type Renderer struct {
	Style Style
}

func NewRenderer() *Renderer {
	return &Renderer{Style: DefaultStyle()}
}

// Render clears s and draws the shape through ring. It never modifies ring.
func (r *Renderer) Render(s Surface, ring []ControlPoint, opts Options) {
	w, h := s.Size()
	s.Clear(r.Style.Background)

	if opts.ShowOutline {
		radius := w/2 - r.Style.OutlineInset
		if radius > 0 {
			s.StrokeCircle(w/2, h/2-r.Style.OutlineLift, radius, r.Style.Outline)
		}
	}

	path := SplinePath(ring, r.Style.Samples, r.Style.ShapeLift)
	if len(path.Points) == 0 {
		return
	}
	s.FillPath(path, r.Style.Fill)
}

// SplinePath samples a closed Catmull-Rom curve through ring. Each segment
// between ring[i] and ring[i+1] uses ring[i-1] and ring[i+2] as tangents, with
// indices wrapping around the ring. samples points are taken per segment at
// t = k/samples; the returned path ends with a copy of its first point.
func SplinePath(ring []ControlPoint, samples int, lift float64) Path {
	n := len(ring)
	if n == 0 {
		return Path{}
	}
	if samples <= 0 {
		samples = SamplesPerSegment
	}

	pts := make([]Point, 0, n*samples+1)
	for i := 0; i < n; i++ {
		p0 := ring[(i-1+n)%n]
		p1 := ring[i]
		p2 := ring[(i+1)%n]
		p3 := ring[(i+2)%n]
		for k := 0; k < samples; k++ {
			t := float64(k) / float64(samples)
			pts = append(pts, Point{
				X: catmullRom(t, p0.X, p1.X, p2.X, p3.X),
				Y: catmullRom(t, p0.Y, p1.Y, p2.Y, p3.Y) - lift,
			})
		}
	}
	pts = append(pts, pts[0])
	return Path{Points: pts, Closed: true}
}

func catmullRom(t, p0, p1, p2, p3 float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*p1 +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}
