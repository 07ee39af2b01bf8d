package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
)

// CollectionReader defines read operations for collection data
type CollectionReader interface {
	// FindCollectionByID returns apperrors.ErrNotFound when the collection does not exist.
	FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error)
}

// CollectionWriter defines write operations for collection data
type CollectionWriter interface {
	// MarkCollectionPaid moves a VERIFIED collection to PAID.
	MarkCollectionPaid(ctx context.Context, collectionID string, updatedBy string, updatedAt time.Time) error
}

// CollectionRepositoryFacade combines all collection-related repository interfaces
type CollectionRepositoryFacade interface {
	CollectionReader
	CollectionWriter
}
