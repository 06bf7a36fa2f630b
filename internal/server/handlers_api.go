package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/cast"

	"honnef.co/go/govcurve"
	"honnef.co/go/govcurve/internal/export"
	"honnef.co/go/govcurve/internal/render"
	"honnef.co/go/govcurve/internal/tracks"
)

type curveSummary struct {
	Kind  string `json:"kind"`
	Curve string `json:"curve"`
}

type trackSummary struct {
	ID             uint16         `json:"id"`
	Name           string         `json:"name"`
	MaxDeciding    uint32         `json:"max_deciding"`
	DecisionPeriod uint32         `json:"decision_period_blocks"`
	DecisionDays   uint32         `json:"decision_period_days"`
	Curves         []curveSummary `json:"curves"`
}

func (s *Server) handleListTracks(c echo.Context) error {
	out := make([]trackSummary, len(s.tracks))
	for i, tr := range s.tracks {
		sum := trackSummary{
			ID:             tr.ID,
			Name:           tr.Name,
			MaxDeciding:    tr.MaxDeciding,
			DecisionPeriod: tr.DecisionPeriod,
			DecisionDays:   tr.DecisionPeriod / tracks.Days,
		}
		for _, ty := range render.CurveTypes {
			sum.Curves = append(sum.Curves, curveSummary{Kind: ty.String(), Curve: tr.Curve(ty).String()})
		}
		out[i] = sum
	}
	return c.JSON(http.StatusOK, out)
}

// handleProfile serves the profile of one curve of a track. The optional
// query parameters unit (day, hour, minute or second) and format (json or
// csv) default to the configured unit and JSON.
func (s *Server) handleProfile(c echo.Context) error {
	id, err := cast.ToUint32E(c.Param("id"))
	if err != nil || id > math.MaxUint16 {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid track ID %q", c.Param("id")))
	}
	ty, err := tracks.ParseCurveType(c.Param("kind"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	unit := s.unit
	if q := c.QueryParam("unit"); q != "" {
		if unit, err = tracks.ParseTimeUnit(q); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	tr, ok := tracks.Find(s.tracks, uint16(id))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no track with ID %d", id))
	}

	curve, err := s.profile(tr, ty, unit)
	if err != nil {
		if errors.Is(err, govcurve.ErrDomain) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return err
	}

	switch format := c.QueryParam("format"); format {
	case "", "json":
		return c.JSON(http.StatusOK, export.NewDocument(curve.Track, curve.Type, curve.Length, curve.Profile))
	case "csv":
		c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		c.Response().WriteHeader(http.StatusOK)
		return export.WriteCSV(c.Response(), curve.Profile)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
	}
}

// profile returns the analyzed curve, computing it at most once per cache
// lifetime. Concurrent misses for the same curve share one computation.
func (s *Server) profile(tr tracks.Track, ty tracks.CurveType, unit tracks.TimeUnit) (render.Curve, error) {
	key := fmt.Sprintf("%d/%s/%s", tr.ID, ty, unit)
	if v, ok := s.profiles.Get(key); ok {
		s.cacheMetrics.Hits.Inc()
		return v.(render.Curve), nil
	}
	s.cacheMetrics.Misses.Inc()

	v, err, shared := s.profileGroup.Do(key, func() (any, error) {
		curve, err := render.Analyze(tr, ty, unit, s.inverter, s.renderMetrics)
		if err != nil {
			return nil, err
		}
		s.profiles.Set(key, curve, cache.DefaultExpiration)
		return curve, nil
	})
	if shared {
		s.cacheMetrics.Shared.Inc()
	}
	if err != nil {
		return render.Curve{}, err
	}
	return v.(render.Curve), nil
}
