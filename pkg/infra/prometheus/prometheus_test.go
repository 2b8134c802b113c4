package prometheus_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NeuralTrust/SafetyHub/pkg/infra/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	prometheus.Initialize(prometheus.DefaultMetricsConfig())
	prometheus.Initialize(prometheus.MetricsConfig{EnableLatency: false})
	assert.False(t, prometheus.Config.EnableLatency)

	prometheus.CheckOutcomeTotal.WithLabelValues("jailbreak", "Passed").Inc()

	rec := httptest.NewRecorder()
	prometheus.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `safetyhub_check_outcomes_total{check="jailbreak",status="Passed"}`)
	assert.Contains(t, string(body), "go_goroutines")
}
