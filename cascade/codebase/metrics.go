package codebase

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks parsing activity of a Codebase.
//
// Metrics:
//   - cascade_parse_total: parses by outcome ("clean" or "diagnostics")
//   - cascade_parse_duration_seconds: time spent in one parse
//   - cascade_parse_diagnostics: diagnostics produced per parse
//   - cascade_files_tracked: files currently held in memory
//
// A nil *Metrics records nothing.
type Metrics struct {
	parseTotal       *prometheus.CounterVec
	parseDuration    prometheus.Histogram
	parseDiagnostics prometheus.Histogram
	filesTracked     prometheus.Gauge
}

// NewMetrics creates the parse metrics and registers them with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		parseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cascade",
				Name:      "parse_total",
				Help:      "Total number of parsed files by outcome",
			},
			[]string{"outcome"},
		),
		parseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "cascade",
				Name:      "parse_duration_seconds",
				Help:      "Duration of a single parse in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to 2.6s
			},
		),
		parseDiagnostics: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "cascade",
				Name:      "parse_diagnostics",
				Help:      "Number of diagnostics produced by a single parse",
				Buckets:   []float64{0, 1, 2, 5, 10, 25, 100},
			},
		),
		filesTracked: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "cascade",
				Name:      "files_tracked",
				Help:      "Number of files held by the codebase",
			},
		),
	}

	registry.MustRegister(
		m.parseTotal,
		m.parseDuration,
		m.parseDiagnostics,
		m.filesTracked,
	)
	return m
}

func (m *Metrics) observeParse(d time.Duration, diagnostics int) {
	if m == nil {
		return
	}
	outcome := "clean"
	if diagnostics > 0 {
		outcome = "diagnostics"
	}
	m.parseTotal.WithLabelValues(outcome).Inc()
	m.parseDuration.Observe(d.Seconds())
	m.parseDiagnostics.Observe(float64(diagnostics))
}

func (m *Metrics) setFiles(n int) {
	if m == nil {
		return
	}
	m.filesTracked.Set(float64(n))
}

// MetricsHandler serves everything registered with gatherer in the
// Prometheus exposition format.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
