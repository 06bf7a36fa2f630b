package chart

import (
	"errors"
	"fmt"

	"honnef.co/go/govcurve"
	"honnef.co/go/govcurve/internal/tracks"
)

// PercentCoordinate returns y as a whole percentage between 0 and 100,
// rounded down.
func PercentCoordinate(y govcurve.Perbill) int {
	return int(y.Parts() / (govcurve.Billion / 100))
}

// percent returns y as a percentage between 0 and 100.
func percent(y govcurve.Perbill) float64 {
	return float64(y.Parts()) / (govcurve.Billion / 100)
}

// ProfilePoints returns the coordinates of p in data space, with thresholds
// in percent.
func ProfilePoints(p *govcurve.Profile) []Point {
	out := make([]Point, len(p.Coordinates))
	for i, pt := range p.Coordinates {
		out[i] = Pt(float64(pt.X), percent(pt.Y))
	}
	return out
}

// XAxisLabel describes the x axis of a decision window of length l.
func XAxisLabel(l tracks.TimeLength) string {
	return fmt.Sprintf("%ss into %d-Day Decision Period", l.Unit, l.Days())
}

// ProfileChart plots the curve of type ty of track tr, sampled over a window
// of length l into p.
//
// The y axis extends 10 percentage points beyond the extrema of p, within
// [0, 100]. The x axis leaves room to the right of the window.
func ProfileChart(tr tracks.Track, ty tracks.CurveType, l tracks.TimeLength, p *govcurve.Profile) Chart {
	yMin, yMax := PercentCoordinate(p.Min.Y), PercentCoordinate(p.Max.Y)
	lo, hi := 0, 100
	if yMin > 10 {
		lo = yMin - 10
	}
	if yMax < 90 {
		hi = yMax + 10
	}
	return Chart{
		Title:  fmt.Sprintf("%s %s, TrackID #%d", tr.Name, ty, tr.ID),
		XLabel: XAxisLabel(l),
		YLabel: ty.YLabel(),
		X:      Range{Min: 0, Max: float64(l.Length + 20)},
		Y:      Range{Min: float64(lo), Max: float64(hi)},
		Series: []Series{{Color: "red", Points: ProfilePoints(p)}},
	}
}

// Entry is one track's profile in a comparison.
type Entry struct {
	Track   tracks.Track
	Length  tracks.TimeLength
	Profile *govcurve.Profile
}

var (
	// ErrNoEntries is returned when comparing no profiles.
	ErrNoEntries = errors.New("chart: nothing to compare")
	// ErrWindowMismatch is returned when comparing profiles sampled over
	// windows of different lengths or units.
	ErrWindowMismatch = errors.New("chart: decision windows differ")
)

// ComparisonChart plots the curves of type ty of several tracks, which must
// have been sampled over the same window, on a common 0 to 100 percent scale.
func ComparisonChart(ty tracks.CurveType, entries []Entry) (Chart, error) {
	if len(entries) == 0 {
		return Chart{}, ErrNoEntries
	}
	l := entries[0].Length
	series := make([]Series, len(entries))
	for i, e := range entries {
		if e.Length != l || e.Profile.Len() != entries[0].Profile.Len() {
			return Chart{}, fmt.Errorf("%w: %s has %d %ss, %s has %d %ss", ErrWindowMismatch,
				entries[0].Track.Name, l.Length, l.Unit, e.Track.Name, e.Length.Length, e.Length.Unit)
		}
		series[i] = Series{
			Label:  fmt.Sprintf("%s, ID # %d", e.Track.Name, e.Track.ID),
			Points: ProfilePoints(e.Profile),
		}
	}
	return Chart{
		Title:     ty.String() + " Requirements",
		XLabel:    XAxisLabel(l),
		YLabel:    ty.YLabel(),
		Width:     1024,
		Height:    768,
		TitleSize: 45,
		LabelSize: 30,
		LabelArea: 60,
		X:         Range{Min: 0, Max: float64(l.Length)},
		Y:         Range{Min: 0, Max: 100},
		Series:    series,
		Legend:    true,
	}, nil
}
