package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isometry/wp-trigger-app/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.ObserveOutcome("default", "ignored", "Event not matched")
	m.ObserveOutcome("default", "ignored", "Event not matched")
	m.ObserveOutcome("default", "accepted", "")
	m.ObserveForwardError("default", "s3")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, _ := io.ReadAll(rr.Body)
	assert.Contains(t, string(body), `wp_trigger_outcomes_total{reason="Event not matched",status="ignored",trigger="default"} 2`)
	assert.Contains(t, string(body), `wp_trigger_outcomes_total{reason="",status="accepted",trigger="default"} 1`)
	assert.Contains(t, string(body), `wp_trigger_forward_errors_total{forwarder="s3",trigger="default"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveOutcome("default", "accepted", "")
		m.ObserveForwardError("default", "s3")
	})
}
