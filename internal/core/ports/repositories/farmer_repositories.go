package repositories

import (
	"context"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
)

// FarmerReader defines read operations for farmer data
type FarmerReader interface {
	// FindFarmerByID returns apperrors.ErrNotFound when the farmer does not exist.
	FindFarmerByID(ctx context.Context, farmerID string) (*domain.Farmer, error)
}

// FarmerRepositoryFacade combines all farmer-related repository interfaces
type FarmerRepositoryFacade interface {
	FarmerReader
}
