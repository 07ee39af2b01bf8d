package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
)

// PayoutReader defines read operations for payout transactions
type PayoutReader interface {
	// FindPayoutByID retrieves a payout by its identifier.
	FindPayoutByID(ctx context.Context, payoutID string) (*domain.PayoutTransaction, error)

	// FindLatestPayoutByCollectionID returns the most recent attempt for a collection,
	// or (nil, nil) when the collection was never submitted.
	FindLatestPayoutByCollectionID(ctx context.Context, collectionID string) (*domain.PayoutTransaction, error)

	// ListPayoutsByFarmer lists a farmer's payouts, newest first.
	ListPayoutsByFarmer(ctx context.Context, farmerID string, limit int, offset int) ([]domain.PayoutTransaction, error)

	// ListStalePayouts returns AWAITING_GATEWAY payouts last updated before the cutoff.
	ListStalePayouts(ctx context.Context, updatedBefore time.Time, limit int) ([]domain.PayoutTransaction, error)
}

// PayoutWriter defines write operations for payout transactions
type PayoutWriter interface {
	// CreatePayout inserts a new attempt. It returns apperrors.ErrDuplicate when
	// another non-failed attempt exists for the same collection.
	CreatePayout(ctx context.Context, payout domain.PayoutTransaction) error

	// UpdatePayout saves payout if the stored version still equals payout.Version
	// and bumps the version on success. A stale version yields apperrors.ErrConflict.
	UpdatePayout(ctx context.Context, payout *domain.PayoutTransaction) error
}

// PayoutRepositoryFacade combines all payout-related repository interfaces
type PayoutRepositoryFacade interface {
	PayoutReader
	PayoutWriter
}
