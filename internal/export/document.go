package export

import (
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"

	"honnef.co/go/govcurve"
	"honnef.co/go/govcurve/internal/tracks"
)

// Point is the JSON form of a sampled point.
type Point struct {
	X       uint32          `json:"x"`
	Percent decimal.Decimal `json:"percent"`
	Parts   uint32          `json:"parts"`
}

func newPoint(pt govcurve.Point) Point {
	return Point{X: pt.X, Percent: PercentDecimal(pt.Y), Parts: pt.Y.Parts()}
}

func newPoints(pts govcurve.Points) []Point {
	out := make([]Point, len(pts))
	for i, pt := range pts {
		out[i] = newPoint(pt)
	}
	return out
}

// Document is the JSON form of one track's curve sampled over its decision
// window.
type Document struct {
	TrackID     uint16  `json:"track_id"`
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	Curve       string  `json:"curve"`
	Unit        string  `json:"unit"`
	Length      uint32  `json:"length"`
	Coordinates []Point `json:"coordinates"`
	Min         Point   `json:"min"`
	Max         Point   `json:"max"`
	Thresholds  []Point `json:"thresholds"`
}

// NewDocument describes p, the profile of tr's curve of type ty sampled over
// a window of length l.
func NewDocument(tr tracks.Track, ty tracks.CurveType, l tracks.TimeLength, p *govcurve.Profile) Document {
	return Document{
		TrackID:     tr.ID,
		Name:        tr.Name,
		Kind:        ty.String(),
		Curve:       tr.Curve(ty).String(),
		Unit:        l.Unit.String(),
		Length:      l.Length,
		Coordinates: newPoints(p.Coordinates),
		Min:         newPoint(p.Min),
		Max:         newPoint(p.Max),
		Thresholds:  newPoints(p.Thresholds),
	}
}

// WriteJSON writes d as indented JSON.
func WriteJSON(w io.Writer, d Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
