package govcurve

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"
)

// FixedI64 is a signed fixed-point number with nine decimal places. Its
// inner value is the number multiplied by [Billion], so that a [Perbill]
// converts to a FixedI64 without loss.
//
// Addition and subtraction saturate at the bounds of int64.
type FixedI64 int64

// SignedRounding selects how [FixedI64] operations discard precision.
type SignedRounding int

const (
	// Low rounds toward negative infinity.
	Low SignedRounding = iota
	// High rounds toward positive infinity.
	High
	// NearestPrefLow rounds to the nearest value, ties toward negative
	// infinity.
	NearestPrefLow
	// NearestPrefHigh rounds to the nearest value, ties toward positive
	// infinity.
	NearestPrefHigh
)

func (r SignedRounding) String() string {
	switch r {
	case Low:
		return "Low"
	case High:
		return "High"
	case NearestPrefLow:
		return "NearestPrefLow"
	case NearestPrefHigh:
		return "NearestPrefHigh"
	default:
		return fmt.Sprintf("SignedRounding(%d)", int(r))
	}
}

// awayFromZero reports whether the magnitude of a quotient with remainder
// rem after division by div has to be incremented. neg is the sign of the
// quotient.
func (r SignedRounding) awayFromZero(rem, div uint64, neg bool) bool {
	if rem == 0 {
		return false
	}
	switch r {
	case Low:
		return neg
	case High:
		return !neg
	case NearestPrefLow:
		if rem == div-rem {
			return neg
		}
		return rem > div-rem
	case NearestPrefHigh:
		if rem == div-rem {
			return !neg
		}
		return rem > div-rem
	default:
		panic("unreachable")
	}
}

// FixedFromInner returns the FixedI64 whose inner value is n.
func FixedFromInner(n int64) FixedI64 { return FixedI64(n) }

// FixedFromInt returns the integer n as a FixedI64, saturating at the
// representable bounds.
func FixedFromInt(n int64) FixedI64 {
	switch {
	case n > math.MaxInt64/Billion:
		return math.MaxInt64
	case n < math.MinInt64/Billion:
		return math.MinInt64
	default:
		return FixedI64(n * Billion)
	}
}

// FixedFromPerbill converts p to a FixedI64. The conversion is exact.
func FixedFromPerbill(p Perbill) FixedI64 { return FixedI64(p) }

// FixedPercent returns n/100 as a FixedI64, saturating at the representable
// bounds.
func FixedPercent(n int64) FixedI64 {
	switch {
	case n > math.MaxInt64/(Billion/100):
		return math.MaxInt64
	case n < math.MinInt64/(Billion/100):
		return math.MinInt64
	default:
		return FixedI64(n * (Billion / 100))
	}
}

// Inner returns the inner value of f, that is, f multiplied by 1e9.
func (f FixedI64) Inner() int64 { return int64(f) }

// SaturatingAdd returns f+o, saturating at the bounds of int64.
func (f FixedI64) SaturatingAdd(o FixedI64) FixedI64 {
	s := f + o
	switch {
	case o > 0 && s < f:
		return math.MaxInt64
	case o < 0 && s > f:
		return math.MinInt64
	default:
		return s
	}
}

// SaturatingSub returns f-o, saturating at the bounds of int64.
func (f FixedI64) SaturatingSub(o FixedI64) FixedI64 {
	s := f - o
	switch {
	case o < 0 && s < f:
		return math.MaxInt64
	case o > 0 && s > f:
		return math.MinInt64
	default:
		return s
	}
}

func magnitude(n int64) uint64 {
	if n < 0 {
		return uint64(-(n + 1)) + 1
	}
	return uint64(n)
}

func fromMagnitude(q uint64, neg bool) (FixedI64, bool) {
	if neg {
		if q > 1<<63 {
			return 0, false
		}
		if q == 1<<63 {
			return math.MinInt64, true
		}
		return FixedI64(-int64(q)), true
	}
	if q > math.MaxInt64 {
		return 0, false
	}
	return FixedI64(q), true
}

// CheckedRoundingDiv returns f/o rounded according to r. It reports false if
// o is zero or the quotient is out of range.
func (f FixedI64) CheckedRoundingDiv(o FixedI64, r SignedRounding) (FixedI64, bool) {
	if o == 0 {
		return 0, false
	}
	neg := (f < 0) != (o < 0)
	a, b := magnitude(int64(f)), magnitude(int64(o))
	hi, lo := bits.Mul64(a, Billion)
	if hi >= b {
		return 0, false
	}
	q, rem := bits.Div64(hi, lo, b)
	if r.awayFromZero(rem, b, neg) {
		if q == math.MaxUint64 {
			return 0, false
		}
		q++
	}
	return fromMagnitude(q, neg)
}

// Sqrt returns the square root of f, rounded down. It reports false for
// negative f.
func (f FixedI64) Sqrt() (FixedI64, bool) {
	if f < 0 {
		return 0, false
	}
	// sqrt(f/1e9) * 1e9 == sqrt(f*1e9)
	v := new(big.Int).Mul(big.NewInt(int64(f)), big.NewInt(Billion))
	return FixedI64(v.Sqrt(v).Int64()), true
}

// ClampedPerbill converts f to a Perbill, saturating at Zero and One.
func (f FixedI64) ClampedPerbill() Perbill {
	switch {
	case f <= 0:
		return Zero
	case f >= Billion:
		return One
	default:
		return Perbill(f)
	}
}

// TryPerbill converts f to a Perbill. It reports false if f is outside of
// [0, 1].
func (f FixedI64) TryPerbill() (Perbill, bool) {
	if f < 0 || f > Billion {
		return 0, false
	}
	return Perbill(f), true
}

func (f FixedI64) String() string {
	sign := ""
	m := magnitude(int64(f))
	if f < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%09d", sign, m/Billion, m%Billion)
}
