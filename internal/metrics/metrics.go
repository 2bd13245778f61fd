// Package metrics provides Prometheus metrics for the certification service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bluetrail"

// Metrics holds all Prometheus collectors of the service.
type Metrics struct {
	// Certification metrics
	CertificationsTotal   *prometheus.CounterVec
	CertificationDuration *prometheus.HistogramVec
	TraversalsTotal       *prometheus.CounterVec
	RejectedStampsTotal   *prometheus.CounterVec

	// Reference snapshot metrics
	RefreshesTotal   *prometheus.CounterVec
	RefreshDuration  prometheus.Histogram
	SnapshotLoadedAt prometheus.Gauge
	SnapshotRecords  *prometheus.GaugeVec
	AuditFindings    prometheus.Gauge

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates all collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{}

	m.CertificationsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certifications_total",
			Help:      "Certification requests by trail and outcome",
		},
		[]string{"trail", "outcome"},
	)

	m.CertificationDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "certification_duration_seconds",
			Help:      "Time spent computing one certification",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"trail"},
	)

	m.TraversalsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validated_traversals_total",
			Help:      "Validated segment traversals by trail and kind",
		},
		[]string{"trail", "kind"},
	)

	m.RejectedStampsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_stamps_total",
			Help:      "Submitted stamps excluded at ingestion",
		},
		[]string{"trail"},
	)

	m.RefreshesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_refreshes_total",
			Help:      "Reference snapshot reloads by trigger and status",
		},
		[]string{"trigger", "status"},
	)

	m.RefreshDuration = f.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_refresh_duration_seconds",
			Help:      "Time spent loading reference data and building a snapshot",
			Buckets:   prometheus.DefBuckets,
		},
	)

	m.SnapshotLoadedAt = f.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_loaded_timestamp_seconds",
			Help:      "Unix time the current reference snapshot was loaded",
		},
	)

	m.SnapshotRecords = f.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_records",
			Help:      "Rows in the current reference snapshot by table",
		},
		[]string{"table"},
	)

	m.AuditFindings = f.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_audit_findings",
			Help:      "Data-quality findings in the current reference snapshot",
		},
	)

	m.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	return m
}

// ObserveCertification records one finished certification.
func (m *Metrics) ObserveCertification(trail, outcome string, seconds float64) {
	m.CertificationsTotal.WithLabelValues(trail, outcome).Inc()
	m.CertificationDuration.WithLabelValues(trail).Observe(seconds)
}

// ObserveTraversals adds n validated traversals of one kind.
func (m *Metrics) ObserveTraversals(trail, kind string, n int) {
	m.TraversalsTotal.WithLabelValues(trail, kind).Add(float64(n))
}

// ObserveRejectedStamps adds n rejected stamps.
func (m *Metrics) ObserveRejectedStamps(trail string, n int) {
	m.RejectedStampsTotal.WithLabelValues(trail).Add(float64(n))
}

// ObserveRefresh records one reload attempt.
func (m *Metrics) ObserveRefresh(trigger string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RefreshesTotal.WithLabelValues(trigger, status).Inc()
	m.RefreshDuration.Observe(d.Seconds())
}

// ObserveSnapshot describes the snapshot that was just installed.
func (m *Metrics) ObserveSnapshot(loadedAt time.Time, records map[string]int, findings int) {
	m.SnapshotLoadedAt.Set(float64(loadedAt.Unix()))
	for table, n := range records {
		m.SnapshotRecords.WithLabelValues(table).Set(float64(n))
	}
	m.AuditFindings.Set(float64(findings))
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, statusText(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func statusText(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	}
	return "2xx"
}
