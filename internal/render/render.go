// Package render turns tracks into CSV point files and SVG plots below a
// data directory.
package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"honnef.co/go/govcurve"
	"honnef.co/go/govcurve/internal/chart"
	"honnef.co/go/govcurve/internal/export"
	"honnef.co/go/govcurve/internal/logging"
	"honnef.co/go/govcurve/internal/metrics"
	"honnef.co/go/govcurve/internal/tracks"
)

// CurveTypes lists the curves of a track in the order they are rendered.
var CurveTypes = []tracks.CurveType{tracks.Approval, tracks.Support}

type Options struct {
	DataDir string
	Unit    tracks.TimeUnit
	// Inverter locates thresholds. Nil means [govcurve.ClosedForm].
	Inverter govcurve.Inverter

	// Overwrite removes DataDir before rendering.
	Overwrite      bool
	WriteCSV       bool
	Plot           bool
	PlotComparison bool
}

// Curve is one analyzed curve of a track.
type Curve struct {
	Track   tracks.Track
	Type    tracks.CurveType
	Length  tracks.TimeLength
	Profile *govcurve.Profile
}

// Summary describes a completed run.
type Summary struct {
	// Curves holds the analyzed curves, in track order.
	Curves []Curve
	// Skipped is the number of curves that could not be analyzed.
	Skipped int
	// Files holds the paths of all written files, sorted.
	Files []string
}

// Analyze samples the curve of type ty of tr over its decision period,
// measured in unit.
func Analyze(tr tracks.Track, ty tracks.CurveType, unit tracks.TimeUnit, inv govcurve.Inverter, m *metrics.RenderMetrics) (Curve, error) {
	l := tracks.DecisionPeriod(unit, tr.DecisionPeriod)
	start := time.Now()
	p, err := govcurve.Analyze(tr.Curve(ty), l.Length, inv)
	m.ObserveProfile(ty.String(), time.Since(start).Seconds(), err)
	if err != nil {
		return Curve{}, fmt.Errorf("track %d (%s): %s: %w", tr.ID, tr.Name, ty, err)
	}
	return Curve{Track: tr, Type: ty, Length: l, Profile: p}, nil
}

// Prepare creates the points and plots directories below dir, removing dir
// first if overwrite is set.
func Prepare(dir string, overwrite bool) error {
	if overwrite {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	for _, sub := range []string{export.PointsDir, export.PlotsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Run analyzes both curves of every track in parallel and writes the files
// selected by opts. Curves that fail to analyze are logged and skipped;
// failing to write a file aborts the run.
func Run(ctx context.Context, opts Options, trs []tracks.Track, m *metrics.RenderMetrics) (*Summary, error) {
	if err := Prepare(opts.DataDir, opts.Overwrite); err != nil {
		return nil, fmt.Errorf("preparing %s: %w", opts.DataDir, err)
	}

	type result struct {
		curves  []Curve
		skipped int
		files   []string
	}
	results := make([]result, len(trs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, tr := range trs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log := logging.WithTrack(tr.ID, tr.Name)
			res := &results[i]
			for _, ty := range CurveTypes {
				c, err := Analyze(tr, ty, opts.Unit, opts.Inverter, m)
				if err != nil {
					log.Warn("skipping curve", "curve", ty.String(), "error", err)
					res.skipped++
					continue
				}
				files, err := writeCurve(opts, c, m)
				res.files = append(res.files, files...)
				if err != nil {
					return err
				}
				res.curves = append(res.curves, c)
			}
			log.Debug("rendered track", "curves", len(res.curves))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := &Summary{}
	for _, res := range results {
		sum.Curves = append(sum.Curves, res.curves...)
		sum.Skipped += res.skipped
		sum.Files = append(sum.Files, res.files...)
	}

	if opts.PlotComparison {
		for _, ty := range CurveTypes {
			path, err := writeComparison(opts.DataDir, ty, sum.Curves, m)
			if err != nil {
				return nil, err
			}
			if path != "" {
				sum.Files = append(sum.Files, path)
			}
		}
	}

	slices.Sort(sum.Files)
	logging.Logger.Info("render complete",
		"dir", opts.DataDir, "curves", len(sum.Curves), "skipped", sum.Skipped, "files", len(sum.Files))
	return sum, nil
}

func writeCurve(opts Options, c Curve, m *metrics.RenderMetrics) ([]string, error) {
	var files []string
	if opts.WriteCSV {
		path := export.CSVPath(opts.DataDir, c.Track.Name, c.Type)
		if err := writeFile(path, func(w io.Writer) error {
			return export.WriteCSV(w, c.Profile)
		}); err != nil {
			return files, err
		}
		m.FileWritten("csv")
		files = append(files, path)
	}
	if opts.Plot {
		path := export.PlotPath(opts.DataDir, c.Track.Name, c.Type)
		ch := chart.ProfileChart(c.Track, c.Type, c.Length, c.Profile)
		if err := writeFile(path, ch.WriteSVG); err != nil {
			return files, err
		}
		m.FileWritten("svg")
		files = append(files, path)
	}
	return files, nil
}

// writeComparison plots all curves of type ty. It returns an empty path if
// the curves cannot be compared.
func writeComparison(dir string, ty tracks.CurveType, curves []Curve, m *metrics.RenderMetrics) (string, error) {
	var entries []chart.Entry
	for _, c := range curves {
		if c.Type == ty {
			entries = append(entries, chart.Entry{Track: c.Track, Length: c.Length, Profile: c.Profile})
		}
	}
	ch, err := chart.ComparisonChart(ty, entries)
	if err != nil {
		logging.WithError(err).Warn("skipping comparison plot", "curve", ty.String())
		return "", nil
	}
	path := export.ComparisonPlotPath(dir, ty)
	if err := writeFile(path, ch.WriteSVG); err != nil {
		return "", err
	}
	m.FileWritten("svg")
	return path, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
