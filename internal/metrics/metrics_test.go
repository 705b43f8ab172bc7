package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceFetchesCounter(t *testing.T) {
	before := testutil.ToFloat64(SourceFetches.WithLabelValues("gitcoin", "ok"))
	SourceFetches.WithLabelValues("gitcoin", "ok").Inc()
	after := testutil.ToFloat64(SourceFetches.WithLabelValues("gitcoin", "ok"))

	assert.Equal(t, before+1, after)
}

func TestHandlerServesRegistry(t *testing.T) {
	UpdateRuns.WithLabelValues("success").Inc()
	LedgerCalls.WithLabelValues("update", "ok").Inc()
	UpdateDuration.Observe(0.25)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "reputesol_orchestrator_update_runs_total")
	assert.Contains(t, body, "reputesol_ledger_calls_total")
	assert.Contains(t, body, "reputesol_orchestrator_update_duration_seconds")
}
