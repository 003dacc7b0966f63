package ferrofluid

import "image/color"

// Recorder is a Surface that remembers what was drawn on it.
type Recorder struct {
	Width, Height float64

	Clears  int
	Circles []RecordedCircle
	Fills   []RecordedFill
}

type RecordedCircle struct {
	CX, CY, R float64
	Style     StrokeStyle
}

type RecordedFill struct {
	Path  Path
	Style FillStyle
}

func NewRecorder(width, height float64) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Size() (float64, float64) { return r.Width, r.Height }

// Clear drops everything recorded so far, like clearing a canvas.
func (r *Recorder) Clear(color.Color) {
	r.Clears++
	r.Circles = nil
	r.Fills = nil
}

func (r *Recorder) StrokeCircle(cx, cy, radius float64, style StrokeStyle) {
	r.Circles = append(r.Circles, RecordedCircle{CX: cx, CY: cy, R: radius, Style: style})
}

func (r *Recorder) FillPath(path Path, style FillStyle) {
	cp := make([]Point, len(path.Points))
	copy(cp, path.Points)
	r.Fills = append(r.Fills, RecordedFill{Path: Path{Points: cp, Closed: path.Closed}, Style: style})
}
