package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/SscSPs/farm_payouts/internal/core/domain"
	portsrepo "github.com/SscSPs/farm_payouts/internal/core/ports/repositories"
	"github.com/SscSPs/farm_payouts/internal/models"
	"github.com/SscSPs/farm_payouts/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxFarmerRepository struct {
	BaseRepository
}

func newPgxFarmerRepository(pool *pgxpool.Pool) portsrepo.FarmerRepositoryFacade {
	return &PgxFarmerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxFarmerRepository implements portsrepo.FarmerRepositoryFacade
var _ portsrepo.FarmerRepositoryFacade = (*PgxFarmerRepository)(nil)

func (r *PgxFarmerRepository) FindFarmerByID(ctx context.Context, farmerID string) (*domain.Farmer, error) {
	query := `
		SELECT farmer_id, user_id, name, payout_method, phone_number, bank_code, bank_account_number,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM farmers
		WHERE farmer_id = $1;
	`
	var m models.Farmer
	err := r.conn(ctx).QueryRow(ctx, query, farmerID).Scan(
		&m.FarmerID,
		&m.UserID,
		&m.Name,
		&m.PayoutMethod,
		&m.PhoneNumber,
		&m.BankCode,
		&m.BankAccountNumber,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("farmer %s: %w", farmerID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find farmer by ID %s: %w", farmerID, err)
	}

	farmer := mapping.ToDomainFarmer(m)
	return &farmer, nil
}
