// Package export writes sampled curve profiles to disk and to the wire.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"honnef.co/go/govcurve"
	"honnef.co/go/govcurve/internal/tracks"
)

// Directories below the data directory.
const (
	PointsDir = "points"
	PlotsDir  = "plots"
)

// Kinds of points in a profile.
const (
	KindCoordinate = "coordinate"
	KindMin        = "min"
	KindMax        = "max"
	KindThreshold  = "threshold"
)

// PercentDecimal returns y as an exact percentage.
func PercentDecimal(y govcurve.Perbill) decimal.Decimal {
	return decimal.New(int64(y.Parts()), -7)
}

// Row is one exported point of a profile.
type Row struct {
	X    uint32
	Kind string
	Y    govcurve.Perbill
}

// Rows returns the rows of p, in the order of [govcurve.Profile.Points].
func Rows(p *govcurve.Profile) []Row {
	pts := p.Points()
	out := make([]Row, len(pts))
	for i, pt := range pts {
		var kind string
		switch n := len(p.Coordinates); {
		case i < n:
			kind = KindCoordinate
		case i == n:
			kind = KindMin
		case i == n+1:
			kind = KindMax
		default:
			kind = KindThreshold
		}
		out[i] = Row{X: pt.X, Kind: kind, Y: pt.Y}
	}
	return out
}

var csvHeader = []string{"x", "kind", "percent", "parts"}

// WriteCSV writes every point of p as CSV, with a header. The threshold of
// each point is written twice, as an exact percentage and as parts per
// billion.
func WriteCSV(w io.Writer, p *govcurve.Profile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	rec := make([]string, len(csvHeader))
	for _, r := range Rows(p) {
		rec[0] = strconv.FormatUint(uint64(r.X), 10)
		rec[1] = r.Kind
		rec[2] = PercentDecimal(r.Y).String()
		rec[3] = strconv.FormatUint(uint64(r.Y.Parts()), 10)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName returns the base name of the file holding a track's curve of
// type ty, such as "root Approval.csv".
func FileName(name string, ty tracks.CurveType, ext string) string {
	return fmt.Sprintf("%s %s%s", name, ty, ext)
}

// CSVPath returns the path of a track's exported points below dir.
func CSVPath(dir, name string, ty tracks.CurveType) string {
	return filepath.Join(dir, PointsDir, FileName(name, ty, ".csv"))
}

// PlotPath returns the path of a track's plot below dir.
func PlotPath(dir, name string, ty tracks.CurveType) string {
	return filepath.Join(dir, PlotsDir, FileName(name, ty, ".svg"))
}

// ComparisonPlotPath returns the path of the plot comparing the curves of
// type ty of all tracks, such as "Approvals.svg".
func ComparisonPlotPath(dir string, ty tracks.CurveType) string {
	return filepath.Join(dir, PlotsDir, ty.String()+"s.svg")
}
