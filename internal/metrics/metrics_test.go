package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/bluetrail/internal/metrics"
)

func TestMetrics_Certification(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveCertification("OKT", "ok", 0.01)
	m.ObserveCertification("OKT", "ok", 0.02)
	m.ObserveTraversals("OKT", "digital", 4)
	m.ObserveRejectedStamps("OKT", 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CertificationsTotal.WithLabelValues("OKT", "ok")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.TraversalsTotal.WithLabelValues("OKT", "digital")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RejectedStampsTotal.WithLabelValues("OKT")))
}

func TestMetrics_Refresh(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	loaded := time.Unix(1700000000, 0)

	m.ObserveRefresh("notify", nil, time.Second)
	m.ObserveRefresh("interval", errors.New("db down"), time.Second)
	m.ObserveSnapshot(loaded, map[string]int{"bhpont": 5}, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RefreshesTotal.WithLabelValues("notify", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RefreshesTotal.WithLabelValues("interval", "error")))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.SnapshotLoadedAt))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.SnapshotRecords.WithLabelValues("bhpont")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditFindings))
}

func TestMetrics_HTTPStatusClasses(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveHTTP("POST", "/challenges", 200, time.Millisecond)
	m.ObserveHTTP("POST", "/challenges", 422, time.Millisecond)
	m.ObserveHTTP("POST", "/challenges", 503, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/challenges", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/challenges", "5xx")))
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	require.Panics(t, func() { metrics.New(reg) }, "duplicate registration must be caught")
}
