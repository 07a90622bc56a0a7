package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.FeePaymentRecorded(150050)
	m.FeePaymentRecorded(100)
	m.SalaryPaymentRecorded()
	m.CapacityRejected()
	m.ImportRows(3, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.feePayments))
	assert.InDelta(t, 1501.5, testutil.ToFloat64(m.feeAmount), 0.001)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.salaryPayments))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.capacityRejects))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.importedRows.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.importedRows.WithLabelValues("error")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.FeePaymentRecorded(1)
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
		m.LoginFailed()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/rooms", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `hostel_http_requests_total{method="GET",route="/api/rooms",status="200"} 1`)
}
