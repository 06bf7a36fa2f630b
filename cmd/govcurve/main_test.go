package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honnef.co/go/govcurve/internal/config"
	"honnef.co/go/govcurve/internal/export"
	"honnef.co/go/govcurve/internal/tracks"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:   filepath.Join(t.TempDir(), "data"),
		TimeUnit:  "hour",
		Inverter:  config.ClosedFormInverter,
		Overwrite: true,
		WriteCSV:  true,
		CacheTTL:  time.Minute,
	}
}

func TestRunSampleCmd_CSV(t *testing.T) {
	var out bytes.Buffer
	err := runSampleCmd(testConfig(t), []string{"-track", "10", "-kind", "approval", "-unit", "day"}, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, "x,kind,percent,parts", lines[0])
	assert.Equal(t, "0,coordinate,100,1000000000", lines[1])
	assert.Equal(t, "14,coordinate,50,500000000", lines[15])
}

func TestRunSampleCmd_JSON(t *testing.T) {
	var out bytes.Buffer
	err := runSampleCmd(testConfig(t), []string{"-track", "0", "-kind", "support", "-format", "json"}, &out)
	require.NoError(t, err)

	var doc struct {
		Name   string `json:"name"`
		Kind   string `json:"kind"`
		Unit   string `json:"unit"`
		Length uint32 `json:"length"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "root", doc.Name)
	assert.Equal(t, "Support", doc.Kind)
	assert.Equal(t, "Hour", doc.Unit)
	assert.Equal(t, uint32(336), doc.Length)
}

func TestRunSampleCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown track", []string{"-track", "99"}, "no track with ID 99"},
		{"track out of range", []string{"-track", "70000"}, "out of range"},
		{"unknown kind", []string{"-kind", "turnout"}, "turnout"},
		{"unknown format", []string{"-format", "xml"}, "unknown format"},
		{"unknown unit", []string{"-unit", "week"}, "GOVCURVE_TIME_UNIT"},
		{"extra arguments", []string{"root"}, "unexpected arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runSampleCmd(testConfig(t), tt.args, new(bytes.Buffer))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunRenderCmd(t *testing.T) {
	cfg := testConfig(t)
	err := runRenderCmd(cfg, []string{"-unit", "day", "-plot=false", "-compare=false"})
	require.NoError(t, err)

	assert.FileExists(t, export.CSVPath(cfg.DataDir, "root", tracks.Approval))
	assert.NoFileExists(t, export.PlotPath(cfg.DataDir, "root", tracks.Approval))
	assert.NoFileExists(t, export.ComparisonPlotPath(cfg.DataDir, tracks.Support))
}

func TestRunTracksCmd_RoundTrip(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runTracksCmd(testConfig(t), nil, &out))

	path := filepath.Join(t.TempDir(), "tracks.yaml")
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0o644))

	cfg := testConfig(t)
	cfg.TracksFile = path
	got, err := loadTracks(cfg)
	require.NoError(t, err)
	want, err := tracks.Moonbase()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadTracks_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tracks:
  - id: 1
    name: good
    decision_period: 48h
    min_approval: {type: linear, length: 2, period: 2, floor: 50%, ceil: 100%}
    min_support: {type: linear, length: 2, period: 2, floor: 0%, ceil: 50%}
  - id: 2
    name: bad
    decision_period: 48h
    min_approval: {type: cubic}
    min_support: {type: linear, length: 2, period: 2, floor: 0%, ceil: 50%}
`), 0o644))

	cfg := testConfig(t)
	cfg.TracksFile = path
	trs, err := loadTracks(cfg)
	require.NoError(t, err)
	require.Len(t, trs, 1)
	assert.Equal(t, "good", trs[0].Name)

	cfg.TracksFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = loadTracks(cfg)
	assert.Error(t, err)
}
