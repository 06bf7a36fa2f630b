package chart

import "iter"

// Rect is an axis-aligned rectangle, used both for the data range of a chart
// and for the areas it is laid out in.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// Width returns the rectangle's width, defined as X1 − X0. It may be negative.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the rectangle's height, defined as Y1 − Y0. It may be negative.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

func (r Rect) Center() Point {
	return Point{
		X: 0.5 * (r.X0 + r.X1),
		Y: 0.5 * (r.Y0 + r.Y1),
	}
}

// Inset returns a new rectangle with the left, top, right and bottom edges
// moved inward by the given amounts.
func (r Rect) Inset(left, top, right, bottom float64) Rect {
	return Rect{
		X0: r.X0 + left,
		Y0: r.Y0 + top,
		X1: r.X1 - right,
		Y1: r.Y1 - bottom,
	}
}

// IsEmpty reports whether r has no area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Path returns the outline of the rectangle.
func (r Rect) Path() Path {
	var p Path
	for el := range r.PathElements() {
		p.Push(el)
	}
	return p
}

func (r Rect) PathElements() iter.Seq[PathElement] {
	return func(yield func(PathElement) bool) {
		_ = yield(MoveTo(Pt(r.X0, r.Y0))) &&
			yield(LineTo(Pt(r.X1, r.Y0))) &&
			yield(LineTo(Pt(r.X1, r.Y1))) &&
			yield(LineTo(Pt(r.X0, r.Y1))) &&
			yield(ClosePath())
	}
}
