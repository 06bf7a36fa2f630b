// Package chart renders sampled decision curves as SVG line charts.
//
// Charts are laid out with the same affine machinery used for 2D graphics:
// data coordinates, with y pointing up, are mapped onto the plot area of the
// output, with y pointing down, by a single [Affine] built with [MapRect].
// Series are drawn as [Path] polylines and serialized with [WriteSVG].
//
// [ProfileChart] and [ComparisonChart] build charts for one track's curve and
// for the same kind of curve across several tracks, respectively.
package chart
