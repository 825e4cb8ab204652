package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.IncFetchAttempt("success")
	m.IncFetchAttempt("failure")
	m.IncStrategyHit("chapter_content", "known_container")
	m.IncExtraction("list_chapters", "success")
	m.IncRetries()
	m.ObserveFetchDuration(120 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `extractor_fetch_attempts_total{outcome="success"} 1`)
	assert.Contains(t, body, `extractor_fetch_attempts_total{outcome="failure"} 1`)
	assert.Contains(t, body, `extractor_strategy_hits_total{operation="chapter_content",strategy="known_container"} 1`)
	assert.Contains(t, body, "extractor_retries_total 1")
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncFetchAttempt("success")
		m.ObserveFetchDuration(time.Second)
		m.IncExtraction("list_chapters", "failure")
		m.IncStrategyHit("chapter_content", "landmark")
		m.IncRetries()
	})
}
