package ferrofluid

import "image/color"

// Point is a sampled position on a path.
type Point struct {
	X, Y float64
}

// Path is a polyline: the first point is a move, every later point a line.
// A closed path repeats its first point at the end.
type Path struct {
	Points []Point
	Closed bool
}

// Bounds returns the min and max corners of the path.
func (p Path) Bounds() (Point, Point) {
	if len(p.Points) == 0 {
		return Point{}, Point{}
	}
	lo, hi := p.Points[0], p.Points[0]
	for _, q := range p.Points[1:] {
		lo.X = min(lo.X, q.X)
		lo.Y = min(lo.Y, q.Y)
		hi.X = max(hi.X, q.X)
		hi.Y = max(hi.Y, q.Y)
	}
	return lo, hi
}

type StrokeStyle struct {
	Color color.Color
	Width float64
}

// FillStyle describes a solid fill with an optional soft shadow around it.
// Surfaces that cannot blur approximate the shadow as they see fit.
type FillStyle struct {
	Color       color.Color
	ShadowColor color.Color
	ShadowBlur  float64
}

// Surface is a drawing target the renderer paints onto.
type Surface interface {
	Size() (width, height float64)
	Clear(c color.Color)
	StrokeCircle(cx, cy, r float64, style StrokeStyle)
	FillPath(path Path, style FillStyle)
}
