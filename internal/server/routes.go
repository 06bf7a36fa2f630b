package server

import (
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"honnef.co/go/govcurve/internal/export"
	"honnef.co/go/govcurve/internal/metrics"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/healthz", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.registry)))

	// Rendered files
	for _, dir := range []string{export.PlotsDir, export.PointsDir} {
		s.echo.Group("/"+dir, middleware.StaticWithConfig(middleware.StaticConfig{
			Root:   filepath.Join(s.dataDir, dir),
			Browse: true,
		}))
	}

	// API
	api := s.echo.Group("/api")
	api.GET("/tracks", s.handleListTracks)
	api.GET("/tracks/:id/:kind", s.handleProfile)
}
