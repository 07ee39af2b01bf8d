package metrics

import (
	"testing"
	"time"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleValue returns the counter value or histogram sample count of the
// series name{label=value}.
func sampleValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() != label || lp.GetValue() != value {
					continue
				}
				if h := m.GetHistogram(); h != nil {
					return float64(h.GetSampleCount())
				}
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestPrometheus_RecordsPayoutOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg)

	m.PayoutFinished(domain.PayoutCompleted)
	m.PayoutFinished(domain.PayoutCompleted)
	m.PayoutFinished(domain.PayoutFailed)
	m.RecoveryApplied(domain.MustMoney("300.50", "KES"))
	m.DispatchObserved(120*time.Millisecond, nil)
	m.DispatchObserved(time.Second, apperrors.NewRetryableGatewayError("timeout", nil))
	m.DispatchObserved(time.Second, apperrors.NewTerminalGatewayError("rejected", nil))
	m.Reconciled(domain.ReconciliationReport{Examined: 3, Completed: 2, Pending: 1})

	assert.Equal(t, 2.0, sampleValue(t, reg, "farm_payouts_payouts_total", "status", "COMPLETED"))
	assert.Equal(t, 1.0, sampleValue(t, reg, "farm_payouts_payouts_total", "status", "FAILED"))
	assert.Equal(t, 300.5, sampleValue(t, reg, "farm_payouts_loan_recovered_amount_total", "currency", "KES"))
	assert.Equal(t, 1.0, sampleValue(t, reg, "farm_payouts_gateway_dispatch_seconds", "result", "ok"))
	assert.Equal(t, 1.0, sampleValue(t, reg, "farm_payouts_gateway_dispatch_seconds", "result", "retryable"))
	assert.Equal(t, 1.0, sampleValue(t, reg, "farm_payouts_gateway_dispatch_seconds", "result", "terminal"))
	assert.Equal(t, 2.0, sampleValue(t, reg, "farm_payouts_reconciled_payouts_total", "outcome", "completed"))
	assert.Equal(t, 1.0, sampleValue(t, reg, "farm_payouts_reconciled_payouts_total", "outcome", "pending"))
}

func TestNewPrometheus_PanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg)
	assert.Panics(t, func() { NewPrometheus(reg) })
}
