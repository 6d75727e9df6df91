package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTransition_Cuenta(t *testing.T) {
	m := New("gastos_test")
	m.ObserveTransition("approved", "paid")
	m.ObserveTransition("approved", "paid")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("approved", "paid")))
}

func TestObserveAudit_SeparaResultado(t *testing.T) {
	m := New("gastos_test")
	m.ObserveAudit("report_submitted", true)
	m.ObserveAudit("report_submitted", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.auditEvents.WithLabelValues("report_submitted", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.auditEvents.WithLabelValues("report_submitted", "error")))
}

func TestHandler_ExponeMetricas(t *testing.T) {
	m := New("gastos_test")
	m.ObserveRequest("GET", "/api/payouts", 200, 15*time.Millisecond)
	m.ObserveAnomalies(map[string]int{"High Value": 3})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `gastos_test_http_requests_total{method="GET",route="/api/payouts",status="200"} 1`)
	assert.Contains(t, string(body), `gastos_test_anomaly_flags_total{reason="High Value"} 3`)
}
