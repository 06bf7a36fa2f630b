package govcurve

import (
	"fmt"
)

type CurveKind int

const (
	// A threshold that decreases linearly from Ceil to Floor over Length
	// and stays at Floor afterwards.
	LinearDecreasingKind CurveKind = iota + 1
	// A threshold that starts at Begin and drops by Step every Period,
	// never going below End.
	SteppedDecreasingKind
	// A threshold of the form Factor / (x + XOffset) + YOffset.
	ReciprocalKind
)

func (k CurveKind) String() string {
	switch k {
	case LinearDecreasingKind:
		return "LinearDecreasing"
	case SteppedDecreasingKind:
		return "SteppedDecreasing"
	case ReciprocalKind:
		return "Reciprocal"
	default:
		return fmt.Sprintf("CurveKind(%d)", int(k))
	}
}

// Curve describes how the required threshold of a vote decays over its
// decision window. This type acts as a tagged union of the three supported
// shapes; which fields are meaningful depends on Kind.
//
// Curves are plain values. Use [LinearDecreasing], [SteppedDecreasing],
// [Reciprocal], [MakeLinear] or [MakeReciprocal] to construct valid curves,
// or [Curve.Validate] to check a curve built by hand.
type Curve struct {
	// We don't use an interface per shape because the set of shapes is
	// closed and every consumer switches on all of them.

	Kind CurveKind

	// LinearDecreasingKind
	Length Perbill
	Floor  Perbill
	Ceil   Perbill

	// SteppedDecreasingKind
	Begin  Perbill
	End    Perbill
	Step   Perbill
	Period Perbill

	// ReciprocalKind
	Factor  FixedI64
	XOffset FixedI64
	YOffset FixedI64
}

// LinearDecreasing returns a curve that starts at ceil, decreases linearly
// and reaches floor at length.
func LinearDecreasing(length, floor, ceil Perbill) (Curve, error) {
	c := Curve{Kind: LinearDecreasingKind, Length: length, Floor: floor, Ceil: ceil}
	return c, c.Validate()
}

// SteppedDecreasing returns a curve that starts at begin and drops by step
// every period, never going below end.
func SteppedDecreasing(begin, end, step, period Perbill) (Curve, error) {
	c := Curve{Kind: SteppedDecreasingKind, Begin: begin, End: end, Step: step, Period: period}
	return c, c.Validate()
}

// Reciprocal returns the curve factor / (x + xOffset) + yOffset, clamped to
// [0, 1].
func Reciprocal(factor, xOffset, yOffset FixedI64) (Curve, error) {
	c := Curve{Kind: ReciprocalKind, Factor: factor, XOffset: xOffset, YOffset: yOffset}
	return c, c.Validate()
}

// Validate reports the first invariant violated by c, as a [*DomainError].
func (c Curve) Validate() error {
	unit := func(name string, p Perbill) error {
		if p > One {
			return domainf(name, "%d parts exceeds one", uint32(p))
		}
		return nil
	}
	switch c.Kind {
	case LinearDecreasingKind:
		for _, f := range []struct {
			name string
			p    Perbill
		}{{"length", c.Length}, {"floor", c.Floor}, {"ceil", c.Ceil}} {
			if err := unit(f.name, f.p); err != nil {
				return err
			}
		}
		if c.Floor > c.Ceil {
			return domainf("floor", "%s exceeds ceil %s", c.Floor, c.Ceil)
		}
	case SteppedDecreasingKind:
		for _, f := range []struct {
			name string
			p    Perbill
		}{{"begin", c.Begin}, {"end", c.End}, {"step", c.Step}, {"period", c.Period}} {
			if err := unit(f.name, f.p); err != nil {
				return err
			}
		}
		if c.End > c.Begin {
			return domainf("end", "%s exceeds begin %s", c.End, c.Begin)
		}
		if c.Period == 0 {
			return domainf("period", "must be positive")
		}
	case ReciprocalKind:
		// A negative factor would make the curve increase.
		if c.Factor < 0 {
			return domainf("factor", "%s is negative", c.Factor)
		}
	default:
		return domainf("kind", "%d is not a curve shape", int(c.Kind))
	}
	return nil
}

// Eval returns the threshold of the curve at x, the elapsed fraction of the
// decision window. The result is always in [0, 1].
//
// Eval is monotonically non-increasing in x for valid curves.
func (c Curve) Eval(x Perbill) Perbill {
	switch c.Kind {
	case LinearDecreasingKind:
		progress := min(x, c.Length).SaturatingDiv(c.Length, Down)
		return min(c.Ceil.SaturatingSub(progress.Mul(c.Ceil.SaturatingSub(c.Floor))), One)
	case SteppedDecreasingKind:
		drop := min(c.Step.IntMul(x.IntDiv(c.Period)), c.Begin)
		return min(max(c.Begin-drop, c.End), One)
	case ReciprocalKind:
		den := FixedFromPerbill(x).SaturatingAdd(c.XOffset)
		if den <= 0 {
			return One
		}
		y, ok := c.Factor.CheckedRoundingDiv(den, NearestPrefLow)
		if !ok {
			return One
		}
		return y.SaturatingAdd(c.YOffset).ClampedPerbill()
	default:
		panic("unreachable")
	}
}

// Delay returns the earliest elapsed fraction at which the curve's threshold
// is at most y. It reports false if the curve stays above y for the whole
// window.
//
// Delay is computed analytically from the curve parameters, not from
// samples; it rounds toward later points in time.
func (c Curve) Delay(y Perbill) (Perbill, bool) {
	switch c.Kind {
	case LinearDecreasingKind:
		if y < c.Floor {
			return One, false
		}
		if y >= c.Ceil {
			return Zero, true
		}
		return c.Ceil.SaturatingSub(y).SaturatingDiv(c.Ceil.SaturatingSub(c.Floor), Up).Mul(c.Length), true
	case SteppedDecreasingKind:
		if y >= c.Begin {
			return Zero, true
		}
		if y < c.End || c.Step == 0 {
			return One, false
		}
		// Whole steps needed to get from Begin down to y, rounded up.
		steps := (uint64(c.Begin-y) + uint64(c.Step) - 1) / uint64(c.Step)
		d := uint64(c.Period) * steps
		if d > Billion {
			return One, false
		}
		return Perbill(d), true
	case ReciprocalKind:
		den := FixedFromPerbill(y).SaturatingSub(c.YOffset)
		if den <= 0 {
			return One, false
		}
		term, ok := c.Factor.CheckedRoundingDiv(den, High)
		if !ok {
			return One, false
		}
		x := term.SaturatingSub(c.XOffset)
		if x < 0 {
			return Zero, true
		}
		return x.TryPerbill()
	default:
		panic("unreachable")
	}
}

func (c Curve) String() string {
	switch c.Kind {
	case LinearDecreasingKind:
		return fmt.Sprintf("LinearDecreasing(length=%s, floor=%s, ceil=%s)", c.Length, c.Floor, c.Ceil)
	case SteppedDecreasingKind:
		return fmt.Sprintf("SteppedDecreasing(begin=%s, end=%s, step=%s, period=%s)", c.Begin, c.End, c.Step, c.Period)
	case ReciprocalKind:
		return fmt.Sprintf("Reciprocal(factor=%s, x_offset=%s, y_offset=%s)", c.Factor, c.XOffset, c.YOffset)
	default:
		return "InvalidCurve"
	}
}
