package tracks

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"honnef.co/go/govcurve"
)

// Percent is a percentage such as 80 or 12.5, written as "80%" or "80" in
// track files.
type Percent struct {
	decimal.Decimal
}

// Pct returns n percent.
func Pct(n int64) Percent {
	return Percent{decimal.NewFromInt(n)}
}

var fixedPerPercent = decimal.New(1, 7)

func (p *Percent) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: percentage must be a scalar", n.Line)
	}
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(n.Value), "%"))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid percentage %q: %w", n.Line, n.Value, err)
	}
	p.Decimal = d
	return nil
}

func (p Percent) MarshalYAML() (any, error) {
	return p.String() + "%", nil
}

// Fixed returns p as a fraction. It fails if p has more precision than the
// fixed-point representation can hold.
func (p Percent) Fixed() (govcurve.FixedI64, error) {
	inner := p.Mul(fixedPerPercent)
	if !inner.IsInteger() {
		return 0, fmt.Errorf("percentage %s has more than 7 decimal places", p)
	}
	if !inner.BigInt().IsInt64() {
		return 0, fmt.Errorf("percentage %s is out of range", p)
	}
	return govcurve.FixedFromInner(inner.IntPart()), nil
}

// Perbill returns p as a fraction in [0, 1].
func (p Percent) Perbill() (govcurve.Perbill, error) {
	f, err := p.Fixed()
	if err != nil {
		return 0, err
	}
	v, ok := f.TryPerbill()
	if !ok {
		return 0, fmt.Errorf("percentage %s is outside of [0%%, 100%%]", p)
	}
	return v, nil
}

// Curve types understood by [CurveSpec].
const (
	LinearCurve     = "linear"
	ReciprocalCurve = "reciprocal"
	SteppedCurve    = "stepped"
)

// CurveSpec describes a curve the way governance tracks are configured.
//
// A linear curve falls from Ceil to Floor over Length out of Period units
// of time. A reciprocal curve falls from Ceil to Floor over the whole
// window and passes through Level after Delay out of Period units. A stepped
// curve starts at Begin and drops by Step every StepPeriod of the window,
// down to End.
type CurveSpec struct {
	Type string `yaml:"type"`

	Length uint64  `yaml:"length,omitempty"`
	Delay  uint64  `yaml:"delay,omitempty"`
	Period uint64  `yaml:"period,omitempty"`
	Level  Percent `yaml:"level,omitempty"`
	Floor  Percent `yaml:"floor,omitempty"`
	Ceil   Percent `yaml:"ceil,omitempty"`

	Begin      Percent `yaml:"begin,omitempty"`
	End        Percent `yaml:"end,omitempty"`
	Step       Percent `yaml:"step,omitempty"`
	StepPeriod Percent `yaml:"step_period,omitempty"`
}

// Linear describes a linear curve.
func Linear(length, period uint64, floor, ceil Percent) CurveSpec {
	return CurveSpec{Type: LinearCurve, Length: length, Period: period, Floor: floor, Ceil: ceil}
}

// Reciprocal describes a reciprocal curve.
func Reciprocal(delay, period uint64, level, floor, ceil Percent) CurveSpec {
	return CurveSpec{Type: ReciprocalCurve, Delay: delay, Period: period, Level: level, Floor: floor, Ceil: ceil}
}

// Build constructs the curve.
func (s CurveSpec) Build() (govcurve.Curve, error) {
	switch s.Type {
	case LinearCurve:
		floor, ceil, err := fixedPair(s.Floor, s.Ceil)
		if err != nil {
			return govcurve.Curve{}, err
		}
		return govcurve.MakeLinear(s.Length, s.Period, floor, ceil)
	case ReciprocalCurve:
		floor, ceil, err := fixedPair(s.Floor, s.Ceil)
		if err != nil {
			return govcurve.Curve{}, err
		}
		level, err := s.Level.Fixed()
		if err != nil {
			return govcurve.Curve{}, fmt.Errorf("level: %w", err)
		}
		return govcurve.MakeReciprocal(s.Delay, s.Period, level, floor, ceil)
	case SteppedCurve:
		var v [4]govcurve.Perbill
		for i, p := range []struct {
			name string
			pct  Percent
		}{{"begin", s.Begin}, {"end", s.End}, {"step", s.Step}, {"step_period", s.StepPeriod}} {
			var err error
			if v[i], err = p.pct.Perbill(); err != nil {
				return govcurve.Curve{}, fmt.Errorf("%s: %w", p.name, err)
			}
		}
		return govcurve.SteppedDecreasing(v[0], v[1], v[2], v[3])
	case "":
		return govcurve.Curve{}, errors.New("missing curve type")
	default:
		return govcurve.Curve{}, fmt.Errorf("unknown curve type %q", s.Type)
	}
}

func fixedPair(floor, ceil Percent) (govcurve.FixedI64, govcurve.FixedI64, error) {
	f, err := floor.Fixed()
	if err != nil {
		return 0, 0, fmt.Errorf("floor: %w", err)
	}
	c, err := ceil.Fixed()
	if err != nil {
		return 0, 0, fmt.Errorf("ceil: %w", err)
	}
	return f, c, nil
}

// TrackSpec describes a track. Periods are durations and get converted to
// blocks of [BlockTime].
type TrackSpec struct {
	ID                 uint16        `yaml:"id"`
	Name               string        `yaml:"name"`
	MaxDeciding        uint32        `yaml:"max_deciding"`
	DecisionDeposit    uint64        `yaml:"decision_deposit"`
	PreparePeriod      time.Duration `yaml:"prepare_period"`
	DecisionPeriod     time.Duration `yaml:"decision_period"`
	ConfirmPeriod      time.Duration `yaml:"confirm_period"`
	MinEnactmentPeriod time.Duration `yaml:"min_enactment_period"`
	MinApproval        CurveSpec     `yaml:"min_approval"`
	MinSupport         CurveSpec     `yaml:"min_support"`
}

// Build constructs the track.
func (s TrackSpec) Build() (Track, error) {
	if s.Name == "" {
		return Track{}, fmt.Errorf("track %d: missing name", s.ID)
	}
	if s.DecisionPeriod < BlockTime {
		return Track{}, fmt.Errorf("track %d (%s): decision period %s is shorter than a block", s.ID, s.Name, s.DecisionPeriod)
	}
	approval, err := s.MinApproval.Build()
	if err != nil {
		return Track{}, fmt.Errorf("track %d (%s): min_approval: %w", s.ID, s.Name, err)
	}
	support, err := s.MinSupport.Build()
	if err != nil {
		return Track{}, fmt.Errorf("track %d (%s): min_support: %w", s.ID, s.Name, err)
	}
	return Track{
		ID:                 s.ID,
		Name:               s.Name,
		MaxDeciding:        s.MaxDeciding,
		DecisionDeposit:    s.DecisionDeposit,
		PreparePeriod:      Blocks(s.PreparePeriod),
		DecisionPeriod:     Blocks(s.DecisionPeriod),
		ConfirmPeriod:      Blocks(s.ConfirmPeriod),
		MinEnactmentPeriod: Blocks(s.MinEnactmentPeriod),
		MinApproval:        approval,
		MinSupport:         support,
	}, nil
}

// File is the contents of a track file.
type File struct {
	Tracks []TrackSpec `yaml:"tracks"`
}

// Build constructs all tracks of f. Tracks that fail to build or reuse the
// ID or name of an earlier track are left out and reported in the returned
// error, which joins one error per track.
func (f File) Build() ([]Track, error) {
	var (
		out  []Track
		errs []error
		seen = make(map[uint16]string, len(f.Tracks))
		// Names become file names, so they must be unique too.
		names = make(map[string]uint16, len(f.Tracks))
	)
	for _, s := range f.Tracks {
		if name, ok := seen[s.ID]; ok {
			errs = append(errs, fmt.Errorf("track %d (%s): ID already used by %s", s.ID, s.Name, name))
			continue
		}
		if id, ok := names[s.Name]; ok && s.Name != "" {
			errs = append(errs, fmt.Errorf("track %d (%s): name already used by track %d", s.ID, s.Name, id))
			continue
		}
		seen[s.ID] = s.Name
		names[s.Name] = s.ID
		t, err := s.Build()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, t)
	}
	return out, errors.Join(errs...)
}

// Parse decodes a track file. Unknown fields are rejected.
func Parse(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("parse tracks: %w", err)
	}
	return f, nil
}

// LoadFile reads and builds the tracks in the YAML file at path. Like
// [File.Build], it returns the tracks that could be built alongside any
// error.
func LoadFile(path string) ([]Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.Build()
}
