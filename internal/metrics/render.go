package metrics

import "github.com/prometheus/client_golang/prometheus"

// RenderMetrics holds Prometheus metrics for analyzing and rendering tracks.
type RenderMetrics struct {
	ProfilesTotal   *prometheus.CounterVec
	ProfileDuration *prometheus.HistogramVec
	FilesWritten    *prometheus.CounterVec
}

// NewRenderMetrics creates and registers render metrics on the given registry.
func NewRenderMetrics(reg prometheus.Registerer) *RenderMetrics {
	m := &RenderMetrics{
		ProfilesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "profiles_total",
			Help:      "Total number of analyzed curve profiles, by curve type and result.",
		}, []string{"curve", "result"}),
		ProfileDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "profile_duration_seconds",
			Help:      "Duration of sampling one curve and locating its thresholds.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"curve"}),
		FilesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "files_written_total",
			Help:      "Total number of files written, by format.",
		}, []string{"format"}),
	}

	reg.MustRegister(m.ProfilesTotal, m.ProfileDuration, m.FilesWritten)
	return m
}

// ObserveProfile records the analysis of one curve.
func (m *RenderMetrics) ObserveProfile(curve string, seconds float64, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ProfilesTotal.WithLabelValues(curve, result).Inc()
	m.ProfileDuration.WithLabelValues(curve).Observe(seconds)
}

// FileWritten records a written file of the given format.
func (m *RenderMetrics) FileWritten(format string) {
	if m == nil {
		return
	}
	m.FilesWritten.WithLabelValues(format).Inc()
}
