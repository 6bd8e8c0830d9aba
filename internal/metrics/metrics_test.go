package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := Registry.Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if matches(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matches(m *dto.Metric, labels map[string]string) bool {
	for _, lp := range m.GetLabel() {
		if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestRecordDispatch(t *testing.T) {
	before := counterValue(t, "banking_outbox_dispatched_total", map[string]string{"result": ResultRetry})
	RecordDispatch(ResultRetry)
	RecordDispatch(ResultRetry)
	after := counterValue(t, "banking_outbox_dispatched_total", map[string]string{"result": ResultRetry})

	assert.Equal(t, before+2, after)
}

func TestRecordLedgerOperation(t *testing.T) {
	okLabels := map[string]string{"type": "TRANSFER", "result": "ok"}
	errLabels := map[string]string{"type": "TRANSFER", "result": "error"}
	okBefore := counterValue(t, "banking_ledger_operations_total", okLabels)
	errBefore := counterValue(t, "banking_ledger_operations_total", errLabels)

	RecordLedgerOperation("TRANSFER", nil)
	RecordLedgerOperation("TRANSFER", errors.New("insufficient funds"))

	assert.Equal(t, okBefore+1, counterValue(t, "banking_ledger_operations_total", okLabels))
	assert.Equal(t, errBefore+1, counterValue(t, "banking_ledger_operations_total", errLabels))
}

func TestRecordSweeperCounters_IgnoreZero(t *testing.T) {
	before := counterValue(t, "banking_outbox_rolled_back_total", nil)
	RecordRolledBack(0)
	RecordRolledBack(3)
	assert.Equal(t, before+3, counterValue(t, "banking_outbox_rolled_back_total", nil))

	before = counterValue(t, "banking_outbox_archived_total", nil)
	RecordArchived(-1)
	RecordArchived(2)
	assert.Equal(t, before+2, counterValue(t, "banking_outbox_archived_total", nil))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	RecordClaimConflict()
	RecordInterestCredited()
	RecordPublish(15 * time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "banking_outbox_claim_conflicts_total")
	assert.Contains(t, string(body), "banking_interest_credited_total")
	assert.Contains(t, string(body), "banking_outbox_publish_duration_seconds_bucket")
}
