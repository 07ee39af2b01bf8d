package services

import (
	"context"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
)

// PayoutReaderSvc defines read operations for payout data
type PayoutReaderSvc interface {
	// GetPayoutByID retrieves a payout attempt by its ID.
	GetPayoutByID(ctx context.Context, payoutID string) (*domain.PayoutTransaction, error)

	// GetPayoutByCollectionID retrieves the latest payout attempt for a collection.
	GetPayoutByCollectionID(ctx context.Context, collectionID string) (*domain.PayoutTransaction, error)

	// ListPayoutsByFarmer retrieves a paginated list of a farmer's payouts.
	ListPayoutsByFarmer(ctx context.Context, farmerID string, limit int, offset int) ([]domain.PayoutTransaction, error)
}

// PayoutProcessorSvc settles collections.
type PayoutProcessorSvc interface {
	// ProcessPayout settles a verified collection exactly once. Repeating the call
	// for a completed collection returns the stored payout without side effects.
	ProcessPayout(ctx context.Context, collectionID string, processedBy string) (*domain.PayoutResult, error)
}

// PayoutCalculatorSvc exposes the recovery split without side effects.
type PayoutCalculatorSvc interface {
	// PreviewPayout computes what ProcessPayout would split for the collection right now.
	PreviewPayout(ctx context.Context, collectionID string) (*domain.PayoutCalculation, error)
}

// PayoutReconcilerSvc resolves payouts stuck waiting on the gateway.
type PayoutReconcilerSvc interface {
	// ReconcileStalePayouts checks every stale AWAITING_GATEWAY payout against the gateway.
	ReconcileStalePayouts(ctx context.Context) (*domain.ReconciliationReport, error)
}

// PayoutSvcFacade combines all payout-related service interfaces
type PayoutSvcFacade interface {
	PayoutReaderSvc
	PayoutProcessorSvc
	PayoutCalculatorSvc
	PayoutReconcilerSvc
}
