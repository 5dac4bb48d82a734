package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountOperations(t *testing.T) {
	m := NewMetrics()

	m.ObserveOperation("accept_task", OutcomeOK)
	m.ObserveOperation("accept_task", OutcomeOK)
	m.ObserveOperation("accept_task", OutcomeConflict)
	m.AddCredited(100)
	m.AddCredited(-5)
	m.SetAuditFindings(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("accept_task", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("accept_task", OutcomeConflict)))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.credited))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.auditFindings))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveOperation("accept_task", OutcomeOK)
	m.AddCredited(1)
	m.SetAuditFindings(1)
}

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	m := NewMetrics()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/wallets/{influencerId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/wallets/7", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDuration))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `klix_http_request_duration_seconds_count{method="GET",route="/api/wallets/{influencerId}",status="418"} 1`)
}
