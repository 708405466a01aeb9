package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveMutation(t *testing.T) {
	m := New()

	m.ObserveMutation("create", ResultOK)
	m.ObserveMutation("create", ResultOK)
	m.ObserveMutation("update", ResultNotFound)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("create", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("update", ResultNotFound)))
}

func TestObserveSnapshot(t *testing.T) {
	m := New()

	m.ObserveSnapshot(3*time.Millisecond, 2, 143000)
	m.ObserveSnapshot(time.Millisecond, 1, 110000)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.snapshots))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unpaidRecords))
	assert.Equal(t, 110000.0, testutil.ToFloat64(m.unpaidAmount))
	assert.Equal(t, 1, testutil.CollectAndCount(m.recompute))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveMutation("delete", ResultError)
		m.ObserveSnapshot(time.Second, 0, 0)
	})
}

func TestHandlerExposesLedgerMetrics(t *testing.T) {
	m := New()
	m.ObserveMutation("delete", ResultOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `freightledger_record_mutations_total{op="delete",result="ok"} 1`))
	assert.Contains(t, body, "freightledger_unpaid_amount")
}
