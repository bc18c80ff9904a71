package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/accuracy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_PipelineCollectors(t *testing.T) {
	t.Parallel()

	r := New()
	r.ObserveStep("run", "success", 2*time.Second)
	r.ObserveStep("run", "failed", time.Second)
	r.MatchFailed("predict")
	r.MatchFailed("predict")
	r.SetOverallAccuracy(accuracy.StrategyMeanOfMeans, accuracy.Percentages{ScoreAccuracy: 55})

	body := scrape(t, r)
	assert.Contains(t, body, `match_predictor_pipeline_runs_total{status="success",step="run"} 1`)
	assert.Contains(t, body, `match_predictor_pipeline_match_failures_total{step="predict"} 2`)
	assert.Contains(t, body, `match_predictor_accuracy_overall_percent{metric="score_accuracy",strategy="mean_of_means"} 55`)
}

func TestRegistry_HandlerExposesNamespace(t *testing.T) {
	t.Parallel()

	r := New(WithNamespace("predictor_test"))
	r.ObserveHTTP("GET /healthz", http.MethodGet, http.StatusOK, 10*time.Millisecond)

	assert.Contains(t, scrape(t, r), `predictor_test_http_requests_total{method="GET",route="GET /healthz",status_code="200"} 1`)
}

func scrape(t *testing.T, r *Registry) string {
	t.Helper()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
