package tracks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"honnef.co/go/govcurve"
)

func TestBlockConstants(t *testing.T) {
	assert.Equal(t, uint32(5), Minutes)
	assert.Equal(t, uint32(300), Hours)
	assert.Equal(t, uint32(7200), Days)
	assert.Equal(t, uint32(50400), Weeks)
	assert.Equal(t, uint32(4), Blocks(48*time.Second))
	assert.Equal(t, uint32(4), Blocks(59*time.Second))
}

func TestDecisionPeriod(t *testing.T) {
	tests := []struct {
		unit   TimeUnit
		blocks uint32
		want   uint32
	}{
		{Day, 14 * Days, 14},
		{Hour, 14 * Days, 336},
		{Minute, 14 * Days, 20160},
		{Second, 14 * Days, 1209600},
		{Hour, 14*Days + 23*Hours, 336},
		{Hour, 12 * Hours, 0},
	}
	for _, tt := range tests {
		l := DecisionPeriod(tt.unit, tt.blocks)
		assert.Equal(t, tt.unit, l.Unit)
		assert.Equal(t, tt.want, l.Length, "%s, %d blocks", tt.unit, tt.blocks)
	}
	assert.Equal(t, uint32(14), DecisionPeriod(Minute, 14*Days).Days())
}

func TestParseTimeUnit(t *testing.T) {
	for _, u := range []TimeUnit{Day, Hour, Minute, Second} {
		got, err := ParseTimeUnit(u.String())
		require.NoError(t, err)
		assert.Equal(t, u, got)
	}
	got, err := ParseTimeUnit("HOUR")
	require.NoError(t, err)
	assert.Equal(t, Hour, got)

	_, err = ParseTimeUnit("week")
	assert.Error(t, err)
}

func TestParseCurveType(t *testing.T) {
	got, err := ParseCurveType("approval")
	require.NoError(t, err)
	assert.Equal(t, Approval, got)

	got, err = ParseCurveType("Support")
	require.NoError(t, err)
	assert.Equal(t, Support, got)

	_, err = ParseCurveType("turnout")
	assert.Error(t, err)

	assert.Contains(t, Approval.YLabel(), "All Votes")
	assert.Contains(t, Support.YLabel(), "Total Possible Turnout")
}

func TestMoonbase(t *testing.T) {
	trs, err := Moonbase()
	require.NoError(t, err)
	require.Len(t, trs, 8)

	var ids []uint16
	for _, tr := range trs {
		ids = append(ids, tr.ID)
		assert.Equal(t, 14*Days, tr.DecisionPeriod, tr.Name)
		for _, ty := range []CurveType{Approval, Support} {
			c := tr.Curve(ty)
			require.NoError(t, c.Validate(), "%s %s", tr.Name, ty)
			assert.GreaterOrEqual(t, c.Eval(govcurve.Zero), c.Eval(govcurve.One), "%s %s", tr.Name, ty)
		}
	}
	assert.Equal(t, []uint16{0, 1, 10, 11, 12, 13, 14, 15}, ids)

	root, ok := Find(trs, 0)
	require.True(t, ok)
	assert.Equal(t, "root", root.Name)
	assert.Equal(t, uint32(1), root.MaxDeciding)
	assert.Equal(t, uint64(100), root.DecisionDeposit)
	assert.Equal(t, 3*Hours, root.PreparePeriod)
	assert.Equal(t, 3*Hours, root.ConfirmPeriod)
	assert.Equal(t, govcurve.LinearDecreasingKind, root.MinSupport.Kind)
	assert.Equal(t, govcurve.ReciprocalKind, root.MinApproval.Kind)
	assert.InDelta(t, govcurve.Billion, root.MinApproval.Eval(govcurve.Zero).Parts(), 1_000)
	assert.Equal(t, govcurve.Percent(50), root.MinSupport.Eval(govcurve.Zero))

	canceller, ok := Find(trs, 11)
	require.True(t, ok)
	assert.Equal(t, uint32(4), canceller.PreparePeriod)
	assert.Equal(t, 10*Minutes, canceller.MinEnactmentPeriod)

	_, ok = Find(trs, 2)
	assert.False(t, ok)
}

func TestMoonbaseFileIsCopy(t *testing.T) {
	f := MoonbaseFile()
	f.Tracks[0].Name = "changed"
	trs, err := Moonbase()
	require.NoError(t, err)
	assert.Equal(t, "root", trs[0].Name)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		in      string
		want    govcurve.FixedI64
		wantErr bool
	}{
		{"80%", govcurve.FixedPercent(80), false},
		{"80", govcurve.FixedPercent(80), false},
		{" 12.5 % ", 125_000_000, false},
		{"0.0000001%", 1, false},
		{"0.00000001%", 0, true},
		{"-3%", govcurve.FixedPercent(-3), false},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		var p Percent
		err := yaml.Unmarshal([]byte(tt.in), &p)
		if err == nil {
			var f govcurve.FixedI64
			f, err = p.Fixed()
			if err == nil {
				assert.Equal(t, tt.want, f, tt.in)
			}
		}
		if tt.wantErr {
			assert.Error(t, err, tt.in)
		} else {
			assert.NoError(t, err, tt.in)
		}
	}

	_, err := Pct(101).Perbill()
	assert.Error(t, err)
	v, err := Pct(42).Perbill()
	require.NoError(t, err)
	assert.Equal(t, govcurve.Percent(42), v)

	out, err := yaml.Marshal(Pct(80))
	require.NoError(t, err)
	assert.Equal(t, "80%\n", string(out))
}

func TestCurveSpecBuild(t *testing.T) {
	c, err := Linear(14, 14, Pct(0), Pct(50)).Build()
	require.NoError(t, err)
	assert.Equal(t, govcurve.LinearDecreasingKind, c.Kind)
	assert.Equal(t, govcurve.One, c.Length)

	c, err = CurveSpec{
		Type:       SteppedCurve,
		Begin:      Pct(80),
		End:        Pct(30),
		Step:       Pct(10),
		StepPeriod: Pct(25),
	}.Build()
	require.NoError(t, err)
	assert.Equal(t, govcurve.SteppedDecreasingKind, c.Kind)
	assert.Equal(t, govcurve.Percent(70), c.Eval(govcurve.Percent(25)))

	_, err = Reciprocal(4, 14, Pct(90), Pct(50), Pct(100)).Build()
	assert.ErrorIs(t, err, govcurve.ErrDomain)

	_, err = CurveSpec{Type: SteppedCurve, Begin: Pct(50), End: Pct(80), Step: Pct(10), StepPeriod: Pct(10)}.Build()
	assert.ErrorIs(t, err, govcurve.ErrDomain)

	_, err = CurveSpec{Type: SteppedCurve, Begin: Pct(150)}.Build()
	assert.ErrorContains(t, err, "begin")

	_, err = CurveSpec{}.Build()
	assert.ErrorContains(t, err, "missing curve type")

	_, err = CurveSpec{Type: "cubic"}.Build()
	assert.ErrorContains(t, err, "unknown curve type")
}

const sampleFile = `
tracks:
  - id: 3
    name: fast_track
    max_deciding: 2
    decision_deposit: 50
    prepare_period: 1h
    decision_period: 168h
    confirm_period: 30m
    min_enactment_period: 48s
    min_approval:
      type: reciprocal
      delay: 2
      period: 7
      level: 75%
      floor: 50%
      ceil: 100%
    min_support:
      type: linear
      length: 7
      period: 7
      floor: 0.5%
      ceil: 25%
  - id: 4
    name: broken
    decision_period: 168h
    min_approval:
      type: linear
      length: 8
      period: 7
      floor: 50%
      ceil: 100%
    min_support:
      type: linear
      length: 7
      period: 7
      floor: 0%
      ceil: 25%
  - id: 3
    name: duplicate
    decision_period: 168h
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0o644))

	trs, err := LoadFile(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "track 4 (broken): min_approval")
	assert.ErrorContains(t, err, "ID already used by fast_track")
	assert.ErrorIs(t, err, govcurve.ErrDomain)

	require.Len(t, trs, 1)
	tr := trs[0]
	assert.Equal(t, uint16(3), tr.ID)
	assert.Equal(t, "fast_track", tr.Name)
	assert.Equal(t, uint32(2), tr.MaxDeciding)
	assert.Equal(t, uint64(50), tr.DecisionDeposit)
	assert.Equal(t, Hours, tr.PreparePeriod)
	assert.Equal(t, 7*Days, tr.DecisionPeriod)
	assert.Equal(t, 30*Minutes, tr.ConfirmPeriod)
	assert.Equal(t, uint32(4), tr.MinEnactmentPeriod)
	assert.Equal(t, govcurve.ReciprocalKind, tr.MinApproval.Kind)
	assert.Equal(t, govcurve.Percent(25), tr.MinSupport.Ceil)
	assert.Equal(t, govcurve.PerbillFromParts(5_000_000), tr.MinSupport.Floor)
}

func TestFileBuildDuplicateNames(t *testing.T) {
	track := func(id uint16, name string) TrackSpec {
		return TrackSpec{
			ID:             id,
			Name:           name,
			DecisionPeriod: 7 * 24 * time.Hour,
			MinApproval:    Linear(7, 7, Pct(50), Pct(100)),
			MinSupport:     Linear(7, 7, Pct(0), Pct(50)),
		}
	}
	f := File{Tracks: []TrackSpec{track(1, "general"), track(2, "general"), track(3, "other")}}

	trs, err := f.Build()
	assert.ErrorContains(t, err, "track 2 (general): name already used by track 1")
	require.Len(t, trs, 2)
	assert.Equal(t, uint16(1), trs[0].ID)
	assert.Equal(t, uint16(3), trs[1].ID)
}

func TestParse(t *testing.T) {
	_, err := Parse([]byte("tracks:\n  - id: 1\n    colour: red\n"))
	assert.ErrorContains(t, err, "colour")

	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Tracks)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMoonbaseFileRoundTrip(t *testing.T) {
	out, err := yaml.Marshal(MoonbaseFile())
	require.NoError(t, err)
	f, err := Parse(out)
	require.NoError(t, err)
	got, err := f.Build()
	require.NoError(t, err)
	want, err := Moonbase()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
