package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"honnef.co/go/govcurve"
	"honnef.co/go/govcurve/internal/config"
	"honnef.co/go/govcurve/internal/logging"
	"honnef.co/go/govcurve/internal/metrics"
	"honnef.co/go/govcurve/internal/tracks"
)

type Server struct {
	echo     *echo.Echo
	addr     string
	dataDir  string
	registry *prometheus.Registry

	tracks   []tracks.Track
	unit     tracks.TimeUnit
	inverter govcurve.Inverter

	// profiles caches analyzed curves by track, curve type and unit.
	profiles     *cache.Cache
	profileGroup singleflight.Group

	cacheMetrics  *metrics.CacheMetrics
	renderMetrics *metrics.RenderMetrics

	startTime time.Time
}

// NewServer returns a server for trs, registering its metrics on reg.
// rm may be nil.
func NewServer(cfg *config.Config, trs []tracks.Track, reg *prometheus.Registry, rm *metrics.RenderMetrics) (*Server, error) {
	unit, err := cfg.Unit()
	if err != nil {
		return nil, err
	}
	inv, err := cfg.NewInverter()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	httpMetrics := metrics.NewHTTPMetrics(reg)
	e.Use(middleware.Recover())
	e.Use(httpMetrics.Middleware())

	srv := &Server{
		echo:          e,
		addr:          cfg.ListenAddr,
		dataDir:       cfg.DataDir,
		registry:      reg,
		tracks:        trs,
		unit:          unit,
		inverter:      inv,
		profiles:      cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		cacheMetrics:  metrics.NewCacheMetrics(reg),
		renderMetrics: rm,
		startTime:     time.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	logging.Logger.Info("starting server", "addr", s.addr, "data_dir", s.dataDir, "tracks", len(s.tracks))
	return s.echo.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
