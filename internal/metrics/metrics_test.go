package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"scrape-validator/internal/scoring"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveLookupBatch(20, 20, nil)
	m.ObserveLookupBatch(20, 5, nil)
	m.ObserveLookupBatch(20, 0, errors.New("timeout"))
	m.ObserveGate(scoring.GateFake)
	m.ObserveGate(scoring.GateFake)
	m.ObserveRound(3, 2*time.Second)

	require.InDelta(t, 60, testutil.ToFloat64(m.urlsRequested), 0)
	require.InDelta(t, 25, testutil.ToFloat64(m.urlsResolved), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.lookupBatches.WithLabelValues(OutcomeOK)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.lookupBatches.WithLabelValues(OutcomePartial)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.lookupBatches.WithLabelValues(OutcomeError)), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.gates.WithLabelValues(scoring.GateFake)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.roundsScored), 0)
	require.InDelta(t, 3, testutil.ToFloat64(m.minersScored), 0)
}

func TestDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	require.Error(t, err)
}

func TestBatchOutcome(t *testing.T) {
	require.Equal(t, OutcomeEmpty, batchOutcome(3, 0, nil))
	require.Equal(t, OutcomeError, batchOutcome(3, 3, errors.New("x")))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	m.ObserveRound(1, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	require.Contains(t, string(body), "validator_rounds_scored_total 1")
}
