package govcurve

import (
	"cmp"
	"fmt"
	"math"
	"math/bits"
)

// Billion is the denominator of [Perbill] and the scale of [FixedI64].
const Billion = 1_000_000_000

// Perbill is a fraction in the range [0, 1], stored as parts per billion.
//
// Arithmetic on Perbill never wraps. Operations whose exact result would
// leave [0, 1] saturate at [Zero] or [One], and operations that have to
// discard precision do so according to an explicit [Rounding].
//
// A Perbill can be created by converting an arbitrary uint32, which allows
// values above One. Use [PerbillFromParts] to saturate instead.
type Perbill uint32

const (
	// Zero is the fraction 0.
	Zero Perbill = 0
	// One is the fraction 1.
	One Perbill = Billion
)

// Rounding selects how [Perbill] operations discard precision.
type Rounding int

const (
	// Down rounds toward zero.
	Down Rounding = iota
	// Up rounds away from zero.
	Up
	// NearestPrefDown rounds to the nearest value, ties toward zero.
	NearestPrefDown
	// NearestPrefUp rounds to the nearest value, ties away from zero.
	NearestPrefUp
)

func (r Rounding) String() string {
	switch r {
	case Down:
		return "Down"
	case Up:
		return "Up"
	case NearestPrefDown:
		return "NearestPrefDown"
	case NearestPrefUp:
		return "NearestPrefUp"
	default:
		return fmt.Sprintf("Rounding(%d)", int(r))
	}
}

// roundUp reports whether a quotient with remainder rem after division by
// div has to be incremented.
func (r Rounding) roundUp(rem, div uint64) bool {
	if rem == 0 {
		return false
	}
	switch r {
	case Down:
		return false
	case Up:
		return true
	case NearestPrefDown:
		return rem > div-rem
	case NearestPrefUp:
		return rem >= div-rem
	default:
		panic("unreachable")
	}
}

// mulDiv computes a*b/c with 128-bit intermediate precision. It reports false
// if c is zero or the result doesn't fit into 64 bits.
func mulDiv(a, b, c uint64, r Rounding) (uint64, bool) {
	if c == 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return 0, false
	}
	q, rem := bits.Div64(hi, lo, c)
	if r.roundUp(rem, c) {
		if q == math.MaxUint64 {
			return 0, false
		}
		q++
	}
	return q, true
}

// PerbillFromParts returns the fraction parts/1e9, saturating at One.
func PerbillFromParts(parts uint32) Perbill {
	return min(Perbill(parts), One)
}

// Percent returns the fraction n/100, saturating at One.
func Percent(n uint32) Perbill {
	if n >= 100 {
		return One
	}
	return Perbill(n * (Billion / 100))
}

// FromRational returns num/den, rounded down.
//
// It returns a [*DomainError] if den is zero or num is larger than den, as
// the value wouldn't be representable.
func FromRational(num, den uint64) (Perbill, error) {
	if den == 0 {
		return 0, domainf("denominator", "must not be zero")
	}
	if num > den {
		return 0, domainf("numerator", "%d exceeds denominator %d", num, den)
	}
	return rational(num, den), nil
}

// rational is FromRational for callers that guarantee num <= den and den > 0.
func rational(num, den uint64) Perbill {
	q, _ := mulDiv(num, Billion, den, Down)
	return Perbill(q)
}

// Parts returns the numerator of p over 1e9.
func (p Perbill) Parts() uint32 { return uint32(p) }

// IsZero reports whether p is 0.
func (p Perbill) IsZero() bool { return p == 0 }

// IsOne reports whether p is 1.
func (p Perbill) IsOne() bool { return p == One }

// Compare returns -1, 0 or +1 depending on whether p is less than, equal to
// or greater than o.
func (p Perbill) Compare(o Perbill) int { return cmp.Compare(p, o) }

// SaturatingSub returns max(p-o, 0).
func (p Perbill) SaturatingSub(o Perbill) Perbill {
	if o >= p {
		return 0
	}
	return p - o
}

// SaturatingAdd returns min(p+o, 1).
func (p Perbill) SaturatingAdd(o Perbill) Perbill {
	return Perbill(min(uint64(p)+uint64(o), Billion))
}

// Mul returns p*o, rounded down.
func (p Perbill) Mul(o Perbill) Perbill {
	return Perbill(uint64(p) * uint64(o) / Billion)
}

// CheckedDiv returns p/o rounded according to r. It reports false if o is
// zero or the quotient is larger than One.
func (p Perbill) CheckedDiv(o Perbill, r Rounding) (Perbill, bool) {
	q, ok := mulDiv(uint64(p), Billion, uint64(o), r)
	if !ok || q > Billion {
		return 0, false
	}
	return Perbill(q), true
}

// SaturatingDiv is like [Perbill.CheckedDiv], but returns One in place of
// failure.
func (p Perbill) SaturatingDiv(o Perbill, r Rounding) Perbill {
	if q, ok := p.CheckedDiv(o, r); ok {
		return q
	}
	return One
}

// DivInt returns p/n rounded according to r. It reports false if n is zero.
func (p Perbill) DivInt(n uint64, r Rounding) (Perbill, bool) {
	q, ok := mulDiv(uint64(p), 1, n, r)
	if !ok {
		return 0, false
	}
	return Perbill(q), true
}

// IntDiv returns how many whole times o fits into p. Division by zero
// saturates at math.MaxUint32.
func (p Perbill) IntDiv(o Perbill) uint32 {
	if o == 0 {
		return math.MaxUint32
	}
	return uint32(p / o)
}

// IntMul returns p*n, saturating at One.
func (p Perbill) IntMul(n uint32) Perbill {
	return Perbill(min(uint64(p)*uint64(n), Billion))
}

// MulInt scales the integer n by p, rounding according to r. The result
// never exceeds n for p <= One.
func (p Perbill) MulInt(n uint32, r Rounding) uint32 {
	q, _ := mulDiv(uint64(p), uint64(n), Billion, r)
	return uint32(min(q, math.MaxUint32))
}

// LessEpsilon returns p minus the smallest representable fraction, or zero.
func (p Perbill) LessEpsilon() Perbill {
	return p.SaturatingSub(1)
}

// String formats p as a percentage with seven decimal places, which is
// exact.
func (p Perbill) String() string {
	return fmt.Sprintf("%d.%07d%%", uint32(p)/(Billion/100), uint32(p)%(Billion/100))
}
