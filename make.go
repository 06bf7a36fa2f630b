package govcurve

// MakeLinear returns a [LinearDecreasingKind] curve that falls from ceil to
// floor over length out of period units of time, and stays at floor
// afterwards.
func MakeLinear(length, period uint64, floor, ceil FixedI64) (Curve, error) {
	l, err := FromRational(length, period)
	if err != nil {
		return Curve{}, withParam(err, "length")
	}
	f, ok := floor.TryPerbill()
	if !ok {
		return Curve{}, domainf("floor", "%s is outside of [0, 1]", floor)
	}
	c, ok := ceil.TryPerbill()
	if !ok {
		return Curve{}, domainf("ceil", "%s is outside of [0, 1]", ceil)
	}
	return LinearDecreasing(l, f, c)
}

// maxFactorDoublings bounds the search for an upper bound of the reciprocal
// factor in MakeReciprocal.
const maxFactorDoublings = 48

// MakeReciprocal returns a [ReciprocalKind] curve that starts at ceil, ends
// at floor and passes through level after delay out of period units of time.
//
// The curve's factor is found by bisection; of the two closest candidates,
// the one whose value at delay is nearer to level is used. MakeReciprocal
// returns a [*DomainError] if no reciprocal curve between ceil and floor can
// reach level at delay, which is the case when level lies on or above the
// straight line from ceil to floor.
func MakeReciprocal(delay, period uint64, level, floor, ceil FixedI64) (Curve, error) {
	d, err := FromRational(delay, period)
	if err != nil {
		return Curve{}, withParam(err, "delay")
	}
	if floor >= ceil {
		return Curve{}, domainf("floor", "%s must be below ceil %s", floor, ceil)
	}
	if level <= floor || level >= ceil {
		return Curve{}, domainf("level", "%s must lie strictly between floor %s and ceil %s", level, floor, ceil)
	}

	// levelAt reports the curve for factor and its signed distance to level.
	levelAt := func(factor FixedI64) (Curve, FixedI64, bool) {
		c, ok := reciprocalFromParts(factor, floor, ceil)
		if !ok {
			return Curve{}, 0, false
		}
		return c, FixedFromPerbill(c.Eval(d)).SaturatingSub(level), true
	}

	// The value at delay grows with the factor, from floor toward the
	// straight line between ceil and floor.
	lo, hi := FixedI64(1), FixedFromInt(1)
	for i := 0; ; i++ {
		_, dist, ok := levelAt(hi)
		if !ok || i == maxFactorDoublings {
			return Curve{}, domainf("level", "%s is unreachable at delay %s", level, d)
		}
		if dist > 0 {
			break
		}
		lo, hi = hi, hi.SaturatingAdd(hi)
	}
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		_, dist, ok := levelAt(mid)
		if !ok {
			return Curve{}, domainf("level", "%s is unreachable at delay %s", level, d)
		}
		if dist > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	cLo, dLo, okLo := levelAt(lo)
	cHi, dHi, okHi := levelAt(hi)
	switch {
	case okLo && (!okHi || magnitude(int64(dLo)) < magnitude(int64(dHi))):
		return cLo, nil
	case okHi:
		return cHi, nil
	default:
		return Curve{}, domainf("level", "%s is unreachable at delay %s", level, d)
	}
}

// reciprocalFromParts returns the reciprocal curve with the given factor
// that evaluates to ceil at 0 and floor at 1.
//
// With y(x) = factor/(x+xo) + yo, the two end points give
// xo² + xo = factor/(ceil-floor), so xo = sqrt(factor/(ceil-floor) + 1/4) - 1/2.
func reciprocalFromParts(factor, floor, ceil FixedI64) (Curve, bool) {
	const (
		half    = FixedI64(Billion / 2)
		quarter = FixedI64(Billion / 4)
	)
	ratio, ok := factor.CheckedRoundingDiv(ceil.SaturatingSub(floor), NearestPrefLow)
	if !ok {
		return Curve{}, false
	}
	root, ok := ratio.SaturatingAdd(quarter).Sqrt()
	if !ok {
		return Curve{}, false
	}
	xOffset := root - half
	term, ok := factor.CheckedRoundingDiv(FixedFromInt(1).SaturatingAdd(xOffset), NearestPrefLow)
	if !ok {
		return Curve{}, false
	}
	return Curve{
		Kind:    ReciprocalKind,
		Factor:  factor,
		XOffset: xOffset,
		YOffset: floor.SaturatingSub(term),
	}, true
}
