package gateways

import (
	"time"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
)

// PayoutMetrics records payout outcomes for monitoring.
type PayoutMetrics interface {
	PayoutFinished(status domain.PayoutStatus)
	DispatchObserved(elapsed time.Duration, err error)
	RecoveryApplied(amount domain.Money)
	Reconciled(report domain.ReconciliationReport)
}
