package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honnef.co/go/govcurve/internal/config"
	"honnef.co/go/govcurve/internal/render"
	"honnef.co/go/govcurve/internal/tracks"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:    filepath.Join(t.TempDir(), "data"),
		ListenAddr: "127.0.0.1:0",
		TimeUnit:   "day",
		Inverter:   config.ClosedFormInverter,
		CacheTTL:   time.Minute,
	}
}

func newTestServer(t *testing.T, cfg *config.Config, trs []tracks.Track) *Server {
	t.Helper()
	if trs == nil {
		var err error
		trs, err = tracks.Moonbase()
		require.NoError(t, err)
	}
	srv, err := NewServer(cfg, trs, prometheus.NewRegistry(), nil)
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestNewServer_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Inverter = "newton"
	_, err := NewServer(cfg, nil, prometheus.NewRegistry(), nil)
	assert.Error(t, err)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, testConfig(t), nil)

	rec := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "uptime")
}

func TestHandleListTracks(t *testing.T) {
	srv := newTestServer(t, testConfig(t), nil)

	rec := get(t, srv, "/api/tracks")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []trackSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 8)
	assert.Equal(t, "root", body[0].Name)
	assert.Equal(t, uint32(14), body[0].DecisionDays)
	require.Len(t, body[0].Curves, 2)
	assert.Equal(t, "Approval", body[0].Curves[0].Kind)
	assert.Equal(t, "Support", body[0].Curves[1].Kind)
	assert.NotEmpty(t, body[0].Curves[0].Curve)
}

func TestHandleProfile_JSON(t *testing.T) {
	srv := newTestServer(t, testConfig(t), nil)

	rec := get(t, srv, "/api/tracks/10/approval")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		TrackID     uint16 `json:"track_id"`
		Name        string `json:"name"`
		Kind        string `json:"kind"`
		Unit        string `json:"unit"`
		Length      uint32 `json:"length"`
		Coordinates []struct {
			X     uint32 `json:"x"`
			Parts uint32 `json:"parts"`
		} `json:"coordinates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, uint16(10), doc.TrackID)
	assert.Equal(t, "treasurer", doc.Name)
	assert.Equal(t, "Approval", doc.Kind)
	assert.Equal(t, "Day", doc.Unit)
	assert.Equal(t, uint32(14), doc.Length)
	require.Len(t, doc.Coordinates, 15)
	assert.Equal(t, uint32(1_000_000_000), doc.Coordinates[0].Parts)
	assert.Equal(t, uint32(500_000_000), doc.Coordinates[14].Parts)

	rec = get(t, srv, "/api/tracks/10/approval?unit=hour")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Hour", doc.Unit)
	assert.Len(t, doc.Coordinates, 337)
}

func TestHandleProfile_CSV(t *testing.T) {
	srv := newTestServer(t, testConfig(t), nil)

	rec := get(t, srv, "/api/tracks/10/Support?format=csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "x,kind,percent,parts\n"))
}

func TestHandleProfile_Errors(t *testing.T) {
	short, err := tracks.Moonbase()
	require.NoError(t, err)
	short[0].DecisionPeriod = 3 * tracks.Hours
	srv := newTestServer(t, testConfig(t), short)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"non-numeric id", "/api/tracks/abc/approval", http.StatusBadRequest},
		{"negative id", "/api/tracks/-1/approval", http.StatusBadRequest},
		{"id out of range", "/api/tracks/70000/approval", http.StatusBadRequest},
		{"unknown kind", "/api/tracks/0/turnout", http.StatusBadRequest},
		{"unknown unit", "/api/tracks/0/approval?unit=week", http.StatusBadRequest},
		{"unknown format", "/api/tracks/10/approval?format=xml", http.StatusBadRequest},
		{"unknown track", "/api/tracks/99/approval", http.StatusNotFound},
		{"empty window", "/api/tracks/0/approval", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.target)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestProfileCache(t *testing.T) {
	srv := newTestServer(t, testConfig(t), nil)

	for range 3 {
		rec := get(t, srv, "/api/tracks/0/support")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.cacheMetrics.Misses))
	assert.Equal(t, 2.0, testutil.ToFloat64(srv.cacheMetrics.Hits))

	// Units are cached separately.
	rec := get(t, srv, "/api/tracks/0/support?unit=minute")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, testutil.ToFloat64(srv.cacheMetrics.Misses))
}

func TestProfileConcurrent(t *testing.T) {
	srv := newTestServer(t, testConfig(t), nil)
	tr := srv.tracks[0]

	const n = 20
	var wg sync.WaitGroup
	results := make([]render.Curve, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = srv.profile(tr, tracks.Approval, tracks.Minute)
		}()
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].Profile.Coordinates, results[i].Profile.Coordinates)
	}
	hits := testutil.ToFloat64(srv.cacheMetrics.Hits)
	misses := testutil.ToFloat64(srv.cacheMetrics.Misses)
	assert.Equal(t, float64(n), hits+misses)
	assert.LessOrEqual(t, testutil.ToFloat64(srv.cacheMetrics.Shared), misses)
}

func TestStaticFiles(t *testing.T) {
	cfg := testConfig(t)
	trs, err := tracks.Moonbase()
	require.NoError(t, err)
	_, err = render.Run(context.Background(), render.Options{
		DataDir:        cfg.DataDir,
		Unit:           tracks.Day,
		Overwrite:      true,
		WriteCSV:       true,
		Plot:           true,
		PlotComparison: true,
	}, trs, nil)
	require.NoError(t, err)
	srv := newTestServer(t, cfg, trs)

	rec := get(t, srv, "/plots/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Approvals.svg")

	rec = get(t, srv, "/plots/Supports.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = get(t, srv, "/points/treasurer%20Approval.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "x,kind,percent,parts\n"))

	rec = get(t, srv, "/points/missing.csv")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, testConfig(t), nil)

	require.Equal(t, http.StatusOK, get(t, srv, "/api/tracks").Code)
	require.Equal(t, http.StatusNotFound, get(t, srv, "/api/tracks/99/approval").Code)

	rec := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `govcurve_http_requests_total{method="GET",route="/api/tracks",status_code="200"} 1`)
	assert.Contains(t, body, `govcurve_http_requests_total{method="GET",route="/api/tracks/:id/:kind",status_code="404"} 1`)
	assert.NotContains(t, body, `route="/healthz"`)
}
