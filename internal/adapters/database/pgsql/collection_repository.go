package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/SscSPs/farm_payouts/internal/core/domain"
	portsrepo "github.com/SscSPs/farm_payouts/internal/core/ports/repositories"
	"github.com/SscSPs/farm_payouts/internal/models"
	"github.com/SscSPs/farm_payouts/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCollectionRepository struct {
	BaseRepository
}

func newPgxCollectionRepository(pool *pgxpool.Pool) portsrepo.CollectionRepositoryFacade {
	return &PgxCollectionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCollectionRepository implements portsrepo.CollectionRepositoryFacade
var _ portsrepo.CollectionRepositoryFacade = (*PgxCollectionRepository)(nil)

func (r *PgxCollectionRepository) FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error) {
	query := `
		SELECT collection_id, farmer_id, weight_kg, applied_rate, calculated_payout_amount, currency_code,
		       status, collected_at, created_at, created_by, last_updated_at, last_updated_by
		FROM collections
		WHERE collection_id = $1;
	`
	var m models.Collection
	err := r.conn(ctx).QueryRow(ctx, query, collectionID).Scan(
		&m.CollectionID,
		&m.FarmerID,
		&m.WeightKg,
		&m.AppliedRate,
		&m.CalculatedPayoutAmount,
		&m.CurrencyCode,
		&m.Status,
		&m.CollectedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("collection %s: %w", collectionID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find collection by ID %s: %w", collectionID, err)
	}

	collection, err := mapping.ToDomainCollection(m)
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// MarkCollectionPaid moves a VERIFIED collection to PAID.
func (r *PgxCollectionRepository) MarkCollectionPaid(ctx context.Context, collectionID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE collections
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE collection_id = $1 AND status = $5;
	`
	cmdTag, err := r.conn(ctx).Exec(ctx, query, collectionID, string(domain.CollectionPaid), updatedAt, updatedBy, string(domain.CollectionVerified))
	if err != nil {
		return fmt.Errorf("failed to mark collection %s paid: %w", collectionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, err := r.FindCollectionByID(ctx, collectionID); err != nil {
			return err
		}
		return fmt.Errorf("%w: collection %s is not %s", apperrors.ErrInvalidState, collectionID, domain.CollectionVerified)
	}
	return nil
}
