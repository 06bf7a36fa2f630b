package govcurve

import (
	"fmt"
	"iter"
	"sort"
)

// Point is a sampled threshold Y at step X of a discretized decision window.
type Point struct {
	X uint32
	Y Perbill
}

// Pt returns the point (x, y).
func Pt(x uint32, y Perbill) Point {
	return Point{X: x, Y: y}
}

func (pt Point) String() string {
	return fmt.Sprintf("(%d, %s)", pt.X, pt.Y)
}

// Points is a sequence of points in increasing X order.
type Points []Point

// Extrema holds the points with the lowest and the highest threshold of a
// sampled curve. Ties are resolved in favor of the lowest X.
type Extrema struct {
	Min Point
	Max Point
}

// Steps returns an iterator over the n+1 points (i, c.Eval(i/n)) for i in
// [0, n]. n must be positive.
func Steps(c Curve, n uint32) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		if n == 0 {
			return
		}
		for i := uint64(0); i <= uint64(n); i++ {
			if !yield(Point{X: uint32(i), Y: c.Eval(rational(i, uint64(n)))}) {
				return
			}
		}
	}
}

// Sample evaluates c at every step of a window divided into n steps and
// returns the n+1 resulting points together with their extrema.
//
// Sample returns a [*DomainError] if n is zero.
func Sample(c Curve, n uint32) (Points, Extrema, error) {
	if n == 0 {
		return nil, Extrema{}, domainf("domain length", "must be positive")
	}
	pts := make(Points, 0, int(n)+1)
	// Any sample improves on these.
	ext := Extrema{
		Min: Point{X: 0, Y: One},
		Max: Point{X: 0, Y: Zero},
	}
	for pt := range Steps(c, n) {
		if pt.Y > ext.Max.Y {
			ext.Max = pt
		}
		if pt.Y < ext.Min.Y {
			ext.Min = pt
		}
		pts = append(pts, pt)
	}
	return pts, ext, nil
}

// Inverter locates where a curve first reaches a threshold.
type Inverter interface {
	// Locate returns the step, out of n, at which c first reaches t. It
	// returns an error wrapping [ErrUnreachable] if c doesn't reach t
	// within the window.
	Locate(c Curve, t Perbill, n uint32) (uint32, error)
}

// ClosedForm is an [Inverter] that uses [Curve.Delay] and scales the
// resulting fraction to n steps, rounding to the nearest step with ties
// toward the earlier one.
type ClosedForm struct{}

var _ Inverter = ClosedForm{}

func (ClosedForm) Locate(c Curve, t Perbill, n uint32) (uint32, error) {
	d, ok := c.Delay(t)
	if !ok {
		return 0, fmt.Errorf("%s at %s: %w", c.Kind, t, ErrUnreachable)
	}
	return d.MulInt(n, NearestPrefDown), nil
}

// Bisection is an [Inverter] that binary searches the sampled window for
// the first step whose threshold is at most t. It relies on curves being
// monotonically non-increasing and only ever evaluates the curve, which
// makes it usable to cross-check [ClosedForm].
type Bisection struct{}

var _ Inverter = Bisection{}

func (Bisection) Locate(c Curve, t Perbill, n uint32) (uint32, error) {
	if n == 0 {
		return 0, domainf("domain length", "must be positive")
	}
	if c.Eval(One) > t {
		return 0, fmt.Errorf("%s at %s: %w", c.Kind, t, ErrUnreachable)
	}
	i := sort.Search(int(n)+1, func(i int) bool {
		return c.Eval(rational(uint64(i), uint64(n))) <= t
	})
	return uint32(i), nil
}

// DefaultCatalog returns the thresholds that [Analyze] tries to locate:
// every whole percent from 0% to 99%, followed by 99.9%, 0.1% and 0.01%.
func DefaultCatalog() []Perbill {
	out := make([]Perbill, 0, 103)
	for i := range uint32(100) {
		out = append(out, Percent(i))
	}
	return append(out,
		rational(999, 1_000),
		rational(1, 1_000),
		rational(1, 10_000),
	)
}

// LocateThresholds returns, in catalog order, the points at which c first
// reaches each threshold in catalog, using inv to find the step out of n.
//
// Only thresholds strictly between yMin and yMax are considered. Thresholds
// that inv cannot locate, or that it locates beyond n, are omitted. When
// several thresholds map to the same step, only the first one is kept. A
// nil inv defaults to [ClosedForm].
func LocateThresholds(c Curve, n uint32, catalog []Perbill, yMin, yMax Perbill, inv Inverter) Points {
	if inv == nil {
		inv = ClosedForm{}
	}
	var out Points
	seen := make(map[uint32]struct{})
	for _, t := range catalog {
		if t <= yMin || t >= yMax {
			continue
		}
		x, err := inv.Locate(c, t, n)
		if err != nil || x > n {
			continue
		}
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, Point{X: x, Y: t})
	}
	return out
}

// Profile is the complete sampling of one curve over one decision window.
type Profile struct {
	// Coordinates holds the threshold at every step of the window.
	Coordinates Points
	// Min and Max are the extrema of Coordinates.
	Min Point
	Max Point
	// Thresholds holds the located crossings of [DefaultCatalog].
	Thresholds Points
}

// Analyze validates c, samples it over n steps and locates the
// [DefaultCatalog] thresholds using inv (nil meaning [ClosedForm]).
func Analyze(c Curve, n uint32, inv Inverter) (*Profile, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	pts, ext, err := Sample(c, n)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Coordinates: pts,
		Min:         ext.Min,
		Max:         ext.Max,
		Thresholds:  LocateThresholds(c, n, DefaultCatalog(), ext.Min.Y, ext.Max.Y, inv),
	}, nil
}

// Len returns the number of sampled steps, including both end points.
func (p *Profile) Len() int { return len(p.Coordinates) }

// Points returns all points of the profile: the coordinates, followed by
// the minimum, the maximum and the located thresholds.
func (p *Profile) Points() Points {
	out := make(Points, 0, len(p.Coordinates)+2+len(p.Thresholds))
	out = append(out, p.Coordinates...)
	out = append(out, p.Min, p.Max)
	return append(out, p.Thresholds...)
}
