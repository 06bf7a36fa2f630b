package chart

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Range is a closed interval of data coordinates.
type Range struct {
	Min, Max float64
}

// Span returns the length of the interval.
func (r Range) Span() float64 { return r.Max - r.Min }

// Series is one line of a chart.
type Series struct {
	Label string
	// Color is any SVG color. Empty picks a color from [Palette].
	Color  string
	Points []Point
}

// Palette holds the colors assigned to series without an explicit color.
var Palette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4", "#42d4f4",
	"#f032e6", "#bfef45", "#469990", "#9a6324", "#800000", "#000075",
}

// PaletteColor returns the i-th color of [Palette], cycling.
func PaletteColor(i int) string {
	return Palette[i%len(Palette)]
}

// Default sizes, in pixels.
const (
	DefaultWidth     = 600
	DefaultHeight    = 400
	DefaultTitleSize = 30
	DefaultLabelSize = 15
	DefaultLabelArea = 40

	margin    = 5
	tickSize  = 5
	tickFont  = 12
	maxTicks  = 10
	lineWidth = 2
)

// Chart is a line chart of one or more series over a linear x and y axis.
// Zero sizes use their defaults.
type Chart struct {
	Title  string
	XLabel string
	YLabel string

	Width, Height float64
	TitleSize     float64
	LabelSize     float64
	// LabelArea is the space reserved left of and below the plot area for
	// tick and axis labels.
	LabelArea float64

	X, Y   Range
	Series []Series
	// Legend draws the series labels in the upper right corner.
	Legend bool
}

// ErrEmptyRange is returned when rendering a chart whose x or y range has
// no extent.
var ErrEmptyRange = errors.New("chart: empty range")

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

// Layout returns the area the data is drawn in and the transform from data
// coordinates to that area, in y-down pixel space.
func (c *Chart) Layout() (Rect, Affine, error) {
	if c.X.Span() <= 0 || c.Y.Span() <= 0 {
		return Rect{}, Affine{}, fmt.Errorf("%w: x %v, y %v", ErrEmptyRange, c.X, c.Y)
	}
	w, h := orDefault(c.Width, DefaultWidth), orDefault(c.Height, DefaultHeight)
	area := orDefault(c.LabelArea, DefaultLabelArea)
	titleSize := orDefault(c.TitleSize, DefaultTitleSize)
	plot := Rect{X1: w, Y1: h}.Inset(margin+area, margin+1.5*titleSize, margin, margin+area)
	if plot.IsEmpty() {
		return Rect{}, Affine{}, fmt.Errorf("chart: %gx%g is too small", w, h)
	}
	data := Rect{X0: c.X.Min, Y0: c.Y.Min, X1: c.X.Max, Y1: c.Y.Max}
	return plot, MapRect(data, plot), nil
}

// Ticks returns round values in r, about n of them at most, and the number
// of decimals needed to label them.
func Ticks(r Range, n int) (ticks []float64, decimals int) {
	if r.Span() <= 0 || n <= 0 {
		return nil, 0
	}
	raw := r.Span() / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)+1e-9))
	step := 10 * mag
	for _, m := range []float64{1, 2, 5} {
		if m*mag >= raw {
			step = m * mag
			break
		}
	}
	decimals = max(0, -int(math.Floor(math.Log10(step)+1e-9)))
	start := math.Ceil(r.Min/step) * step
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v > r.Max+step*1e-9 {
			break
		}
		ticks = append(ticks, v)
	}
	return ticks, decimals
}

var svgOpts = SVGOptions{MaxPrecision: 2}

// WriteSVG renders the chart as a standalone SVG document.
func (c *Chart) WriteSVG(w io.Writer) error {
	plot, toPixel, err := c.Layout()
	if err != nil {
		return err
	}
	width, height := orDefault(c.Width, DefaultWidth), orDefault(c.Height, DefaultHeight)
	titleSize := orDefault(c.TitleSize, DefaultTitleSize)
	labelSize := orDefault(c.LabelSize, DefaultLabelSize)
	num := svgOpts.format

	var werr error
	printf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(w, format, args...)
	}
	path := func(p Path, attrs string) {
		printf(`<path d="%s" %s/>`+"\n", p.SVG(svgOpts), attrs)
	}
	text := func(pt Point, size float64, attrs, s string) {
		var sb strings.Builder
		xml.EscapeText(&sb, []byte(s))
		printf(`<text x="%s" y="%s" font-family="sans-serif" font-size="%s" %s>%s</text>`+"\n",
			num(pt.X), num(pt.Y), num(size), attrs, sb.String())
	}

	printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %[1]s %[2]s">`+"\n",
		num(width), num(height))
	printf(`<rect width="100%%" height="100%%" fill="white"/>` + "\n")
	if c.Title != "" {
		text(Pt(width/2, margin+titleSize), titleSize, `text-anchor="middle"`, c.Title)
	}

	// Grid lines and ticks.
	xs, xDec := Ticks(c.X, maxTicks)
	ys, yDec := Ticks(c.Y, maxTicks)
	var grid, ticks Path
	for _, x := range xs {
		p0, p1 := Pt(x, c.Y.Min).Transform(toPixel), Pt(x, c.Y.Max).Transform(toPixel)
		grid.MoveTo(p0)
		grid.LineTo(p1)
		ticks.MoveTo(p0)
		ticks.LineTo(p0.Translate(Vec(0, tickSize)))
	}
	for _, y := range ys {
		p0, p1 := Pt(c.X.Min, y).Transform(toPixel), Pt(c.X.Max, y).Transform(toPixel)
		grid.MoveTo(p0)
		grid.LineTo(p1)
		ticks.MoveTo(p0)
		ticks.LineTo(p0.Translate(Vec(-tickSize, 0)))
	}
	path(grid, `fill="none" stroke="#e0e0e0" stroke-width="1"`)
	path(ticks, `fill="none" stroke="black" stroke-width="1"`)
	path(plot.Path(), `fill="none" stroke="black" stroke-width="1"`)
	for _, x := range xs {
		pt := Pt(x, c.Y.Min).Transform(toPixel).Translate(Vec(0, tickSize+tickFont))
		text(pt, tickFont, `text-anchor="middle"`, strconv.FormatFloat(x, 'f', xDec, 64))
	}
	for _, y := range ys {
		pt := Pt(c.X.Min, y).Transform(toPixel).Translate(Vec(-tickSize-2, tickFont/3))
		text(pt, tickFont, `text-anchor="end"`, strconv.FormatFloat(y, 'f', yDec, 64))
	}

	// Axis descriptions.
	if c.XLabel != "" {
		text(Pt(plot.Center().X, height-margin), labelSize, `text-anchor="middle"`, c.XLabel)
	}
	if c.YLabel != "" {
		at := Pt(margin+labelSize, plot.Center().Y)
		text(at, labelSize,
			fmt.Sprintf(`text-anchor="middle" transform="rotate(-90 %s %s)"`, num(at.X), num(at.Y)),
			c.YLabel)
	}

	// Series, clipped to the plot area.
	printf(`<clipPath id="plot-area"><path d="%s"/></clipPath>`+"\n", plot.Path().SVG(svgOpts))
	printf(`<g clip-path="url(#plot-area)">` + "\n")
	for i, s := range c.Series {
		if len(s.Points) == 0 {
			continue
		}
		path(Polyline(s.Points).Transform(toPixel),
			fmt.Sprintf(`fill="none" stroke="%s" stroke-width="%d" stroke-linejoin="round"`, seriesColor(s, i), lineWidth))
	}
	printf("</g>\n")

	if c.Legend {
		c.writeLegend(plot, path, text)
	}
	printf("</svg>\n")
	return werr
}

func seriesColor(s Series, i int) string {
	if s.Color != "" {
		return s.Color
	}
	return PaletteColor(i)
}

func (c *Chart) writeLegend(plot Rect, path func(Path, string), text func(Point, float64, string, string)) {
	const (
		font    = 14
		pad     = 8
		swatch  = 10
		rowSize = font + 6
	)
	labels := 0
	longest := 0
	for _, s := range c.Series {
		if s.Label == "" {
			continue
		}
		labels++
		longest = max(longest, len([]rune(s.Label)))
	}
	if labels == 0 {
		return
	}
	w := pad*3 + swatch + 0.6*font*float64(longest)
	h := pad*2 + rowSize*float64(labels)
	box := Rect{X0: plot.X1 - 10 - w, Y0: plot.Y0 + 10, X1: plot.X1 - 10, Y1: plot.Y0 + 10 + h}
	path(box.Path(), `fill="white" stroke="black" stroke-width="1"`)
	row := 0
	for i, s := range c.Series {
		if s.Label == "" {
			continue
		}
		y := box.Y0 + pad + rowSize*float64(row) + rowSize/2
		sw := Rect{X0: box.X0 + pad, Y0: y - swatch/2, X1: box.X0 + pad + swatch, Y1: y + swatch/2}
		path(sw.Path(), fmt.Sprintf(`fill="%s" stroke="none"`, seriesColor(s, i)))
		text(Pt(sw.X1+pad, y+font/3), font, "", s.Label)
		row++
	}
}
