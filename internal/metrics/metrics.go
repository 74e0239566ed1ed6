// Package metrics holds the prometheus collectors for dashboard computation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered for one process.
type Metrics struct {
	registry *prometheus.Registry

	DashboardsTotal *prometheus.CounterVec
	DroppedRecords  *prometheus.CounterVec
	FetchErrors     *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry so tests can build as many as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		DashboardsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insights_dashboards_computed_total",
			Help: "Dashboards computed, by channel and window.",
		}, []string{"channel", "window"}),
		DroppedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insights_malformed_records_total",
			Help: "Records excluded from aggregation because required fields were missing.",
		}, []string{"channel"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insights_source_fetch_errors_total",
			Help: "Record source fetch failures.",
		}, []string{"channel"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "insights_source_fetch_duration_seconds",
			Help:    "Record source fetch latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"channel"}),
	}
	reg.MustRegister(m.DashboardsTotal, m.DroppedRecords, m.FetchErrors, m.FetchDuration)
	return m
}

// ObserveFetch records one source round-trip.
func (m *Metrics) ObserveFetch(channel string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(channel).Observe(time.Since(started).Seconds())
	if err != nil {
		m.FetchErrors.WithLabelValues(channel).Inc()
	}
}

// ObserveDashboard records a computed dashboard and the records it had to drop.
func (m *Metrics) ObserveDashboard(channel, window string, dropped int) {
	if m == nil {
		return
	}
	m.DashboardsTotal.WithLabelValues(channel, window).Inc()
	if dropped > 0 {
		m.DroppedRecords.WithLabelValues(channel).Add(float64(dropped))
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
