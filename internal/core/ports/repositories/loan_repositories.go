package repositories

import (
	"context"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
)

// LoanReader defines read operations for loan data
type LoanReader interface {
	// FindLoanByFarmerID returns (nil, nil) when the farmer has no loan.
	FindLoanByFarmerID(ctx context.Context, farmerID string) (*domain.Loan, error)
}

// LoanWriter defines write operations for loan data
type LoanWriter interface {
	// ApplyRecovery atomically decrements the farmer's outstanding balance by
	// at most amount, never going below zero. It returns the amount actually
	// applied and the resulting balance.
	ApplyRecovery(ctx context.Context, farmerID string, amount domain.Money) (applied domain.Money, newBalance domain.Money, err error)
}

// LoanRepositoryFacade combines all loan-related repository interfaces
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}
