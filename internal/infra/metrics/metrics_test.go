package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTP_Observe(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	m := NewHTTP(registry)

	m.Observe(http.MethodPost, "/games/{gameId}/settle", http.StatusOK, 0.01)
	m.Observe(http.MethodPost, "/games/{gameId}/settle", http.StatusOK, 0.02)

	got := testutil.ToFloat64(m.RequestCount.WithLabelValues(http.MethodPost, "/games/{gameId}/settle", "OK"))
	assert.InDelta(t, 2, got, 0)

	var nilMetrics *HTTP
	assert.NotPanics(t, func() { nilMetrics.Observe(http.MethodGet, "/", http.StatusOK, 0) })
}

func TestHandler_ExposesRegistry(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	NewHTTP(registry).Observe(http.MethodGet, "/healthz", http.StatusOK, 0.001)

	rec := httptest.NewRecorder()
	Handler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",route="/healthz",status="OK"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
