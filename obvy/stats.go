package fracwatch

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsInternal is the attached prometheus registry for one running
// analysis session and its data-serving surface.
type StatsInternal struct {
	Registry *prometheus.Registry
	ticks    prometheus.Counter
	alerts   prometheus.Counter
	severity prometheus.Gauge
	deriv    prometheus.Gauge
	www      *prometheus.CounterVec
}

// NewStatsInternal creates and registers all internal collectors.
func NewStatsInternal() *StatsInternal {
	reg := prometheus.NewRegistry()

	s := &StatsInternal{
		Registry: reg,
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fracwatch_replay_ticks_total",
			Help: "Replay advances processed.",
		}),
		alerts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fracwatch_sustained_alerts_total",
			Help: "Sustained fracture alerts fired.",
		}),
		severity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fracwatch_current_severity",
			Help: "Current severity level (-2 undefined, 0 green .. 3 red).",
		}),
		deriv: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fracwatch_rop_derivative",
			Help: "Current ROP derivative, ft/hr per second.",
		}),
		www: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fracwatch_http_requests_total",
			Help: "Data-serving requests by status and method.",
		}, []string{"status", "method"}),
	}

	reg.MustRegister(s.ticks, s.alerts, s.severity, s.deriv, s.www)
	return s
}

// Handler serves the registry on /metrics.
func (s *StatsInternal) Handler() http.Handler {
	return promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})
}

// RecTick records one replay advance with its current readings.
func (s *StatsInternal) RecTick(level int, deriv float64) {
	s.ticks.Inc()
	s.severity.Set(float64(level))
	s.deriv.Set(deriv)
}

// RecAlert records a sustained fracture alert.
func (s *StatsInternal) RecAlert() {
	s.alerts.Inc()
}

// RecWWW records one served HTTP request.
func (s *StatsInternal) RecWWW(status, method string) {
	s.www.WithLabelValues(status, method).Inc()
}
