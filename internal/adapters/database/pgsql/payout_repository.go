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

const payoutColumns = `
	payout_id, collection_id, farmer_id, attempt, currency_code,
	gross_amount, loan_recovery_amount, net_amount, recovery_rate, living_wage_protected,
	status, destination_method, destination_phone, destination_bank_code, destination_account,
	gateway_reference, failure_reason, failure_retryable, processed_by, dispatched_at,
	version, created_at, updated_at`

type PgxPayoutRepository struct {
	BaseRepository
}

func newPgxPayoutRepository(pool *pgxpool.Pool) portsrepo.PayoutRepositoryFacade {
	return &PgxPayoutRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPayoutRepository implements portsrepo.PayoutRepositoryFacade
var _ portsrepo.PayoutRepositoryFacade = (*PgxPayoutRepository)(nil)

func scanPayout(row pgx.Row) (domain.PayoutTransaction, error) {
	var m models.Payout
	err := row.Scan(
		&m.PayoutID,
		&m.CollectionID,
		&m.FarmerID,
		&m.Attempt,
		&m.CurrencyCode,
		&m.GrossAmount,
		&m.LoanRecoveryAmount,
		&m.NetAmount,
		&m.RecoveryRate,
		&m.LivingWageProtected,
		&m.Status,
		&m.DestinationMethod,
		&m.DestinationPhone,
		&m.DestinationBankCode,
		&m.DestinationAccount,
		&m.GatewayReference,
		&m.FailureReason,
		&m.FailureRetryable,
		&m.ProcessedBy,
		&m.DispatchedAt,
		&m.Version,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return domain.PayoutTransaction{}, err
	}
	return mapping.ToDomainPayout(m)
}

func (r *PgxPayoutRepository) queryPayouts(ctx context.Context, query string, args ...any) ([]domain.PayoutTransaction, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payouts: %w", err)
	}
	defer rows.Close()

	payouts := []domain.PayoutTransaction{}
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payout row: %w", err)
		}
		payouts = append(payouts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payout rows: %w", err)
	}
	return payouts, nil
}

// CreatePayout inserts a payout. The partial unique index on collection_id
// for non-FAILED rows turns a second active attempt into ErrDuplicate.
func (r *PgxPayoutRepository) CreatePayout(ctx context.Context, payout domain.PayoutTransaction) error {
	m := mapping.ToModelPayout(payout)
	query := `INSERT INTO payouts (` + payoutColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);`
	_, err := r.conn(ctx).Exec(ctx, query,
		m.PayoutID,
		m.CollectionID,
		m.FarmerID,
		m.Attempt,
		m.CurrencyCode,
		m.GrossAmount,
		m.LoanRecoveryAmount,
		m.NetAmount,
		m.RecoveryRate,
		m.LivingWageProtected,
		m.Status,
		m.DestinationMethod,
		m.DestinationPhone,
		m.DestinationBankCode,
		m.DestinationAccount,
		m.GatewayReference,
		m.FailureReason,
		m.FailureRetryable,
		m.ProcessedBy,
		m.DispatchedAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("payout for collection %s: %w", payout.CollectionID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert payout %s: %w", payout.PayoutID, err)
	}
	return nil
}

// UpdatePayout writes the mutable payout fields if the stored version still
// matches, then bumps payout.Version.
func (r *PgxPayoutRepository) UpdatePayout(ctx context.Context, payout *domain.PayoutTransaction) error {
	m := mapping.ToModelPayout(*payout)
	query := `
		UPDATE payouts
		SET status = $3, gateway_reference = $4, failure_reason = $5, failure_retryable = $6,
		    dispatched_at = $7, updated_at = $8, version = version + 1
		WHERE payout_id = $1 AND version = $2;
	`
	cmdTag, err := r.conn(ctx).Exec(ctx, query,
		m.PayoutID,
		m.Version,
		m.Status,
		m.GatewayReference,
		m.FailureReason,
		m.FailureRetryable,
		m.DispatchedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payout %s: %w", payout.PayoutID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, err := r.FindPayoutByID(ctx, payout.PayoutID); err != nil {
			return err
		}
		return fmt.Errorf("%w: payout %s was modified concurrently", apperrors.ErrConflict, payout.PayoutID)
	}
	payout.Version++
	return nil
}

func (r *PgxPayoutRepository) FindPayoutByID(ctx context.Context, payoutID string) (*domain.PayoutTransaction, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE payout_id = $1;`
	p, err := scanPayout(r.conn(ctx).QueryRow(ctx, query, payoutID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payout %s: %w", payoutID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find payout by ID %s: %w", payoutID, err)
	}
	return &p, nil
}

// FindLatestPayoutByCollectionID returns nil without error when the collection has no payout.
func (r *PgxPayoutRepository) FindLatestPayoutByCollectionID(ctx context.Context, collectionID string) (*domain.PayoutTransaction, error) {
	query := `SELECT ` + payoutColumns + `
		FROM payouts
		WHERE collection_id = $1
		ORDER BY attempt DESC, created_at DESC
		LIMIT 1;`
	p, err := scanPayout(r.conn(ctx).QueryRow(ctx, query, collectionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find payout for collection %s: %w", collectionID, err)
	}
	return &p, nil
}

func (r *PgxPayoutRepository) ListPayoutsByFarmer(ctx context.Context, farmerID string, limit int, offset int) ([]domain.PayoutTransaction, error) {
	query := `SELECT ` + payoutColumns + `
		FROM payouts
		WHERE farmer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;`
	return r.queryPayouts(ctx, query, farmerID, limit, offset)
}

// ListStalePayouts returns AWAITING_GATEWAY payouts not touched since updatedBefore, oldest first.
func (r *PgxPayoutRepository) ListStalePayouts(ctx context.Context, updatedBefore time.Time, limit int) ([]domain.PayoutTransaction, error) {
	query := `SELECT ` + payoutColumns + `
		FROM payouts
		WHERE status = $1 AND updated_at < $2
		ORDER BY updated_at ASC
		LIMIT $3;`
	return r.queryPayouts(ctx, query, string(domain.PayoutAwaitingGateway), updatedBefore, limit)
}
