// Package govcurve evaluates and samples decision curves: monotone functions
// that map the elapsed fraction of a vote's decision window to the fraction
// of approval or support the vote needs at that moment.
//
// # Fixed-point arithmetic
//
// All values are exact fixed-point numbers. [Perbill] represents fractions in
// [0, 1] as parts per billion, and [FixedI64] represents signed numbers with
// nine decimal places over the same base, so that converting between the two
// is lossless. Neither type converts implicitly from or to floating point;
// every operation that loses precision takes an explicit [Rounding] or
// [SignedRounding], and operations that would leave the representable range
// saturate instead of wrapping. As a result, evaluating a curve produces
// the same bits on every platform.
//
// # Curves
//
// [Curve] is a tagged union of three shapes, selected by [Curve.Kind]:
//
//   - [LinearDecreasingKind] falls linearly from Ceil to Floor over Length.
//   - [SteppedDecreasingKind] starts at Begin and drops by Step every Period,
//     down to End.
//   - [ReciprocalKind] follows Factor / (x + XOffset) + YOffset, clamped to
//     [0, 1]. Where the denominator is not positive, or the division
//     overflows, the curve evaluates to one.
//
// [Curve.Eval] computes the threshold at an elapsed fraction, and
// [Curve.Delay] computes the inverse, the earliest fraction at which the
// threshold drops to a given value. [MakeLinear] and [MakeReciprocal] build
// curves from the parameters governance tracks are usually described with.
//
// # Sampling
//
// [Sample] evaluates a curve at every step of a window divided into n steps,
// producing n+1 [Points] and their [Extrema]. [LocateThresholds] finds the
// steps at which the curve crosses a catalog of round thresholds, using an
// [Inverter]. Two inverters are provided: [ClosedForm], based on
// [Curve.Delay], and [Bisection], based on searching the sampled values.
// [Analyze] combines both steps into a [Profile], the unit that gets
// exported and plotted.
//
// Sampling is a pure function of its inputs. Different curves can be sampled
// concurrently without any synchronization.
package govcurve
