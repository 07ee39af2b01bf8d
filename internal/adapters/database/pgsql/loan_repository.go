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
	"github.com/shopspring/decimal"
)

type PgxLoanRepository struct {
	BaseRepository
}

func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLoanRepository implements portsrepo.LoanRepositoryFacade
var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

// FindLoanByFarmerID returns nil without error when the farmer has no loan.
func (r *PgxLoanRepository) FindLoanByFarmerID(ctx context.Context, farmerID string) (*domain.Loan, error) {
	query := `
		SELECT loan_id, farmer_id, outstanding_balance, currency_code, updated_at
		FROM loans
		WHERE farmer_id = $1;
	`
	var m models.Loan
	err := r.conn(ctx).QueryRow(ctx, query, farmerID).Scan(
		&m.LoanID,
		&m.FarmerID,
		&m.OutstandingBalance,
		&m.CurrencyCode,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find loan for farmer %s: %w", farmerID, err)
	}

	loan, err := mapping.ToDomainLoan(m)
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ApplyRecovery decrements the balance by amount, clamped at zero, in a single
// statement. It returns the amount actually applied and the new balance.
func (r *PgxLoanRepository) ApplyRecovery(ctx context.Context, farmerID string, amount domain.Money) (domain.Money, domain.Money, error) {
	if amount.IsNegative() {
		return domain.Money{}, domain.Money{}, fmt.Errorf("%w: recovery amount %s is negative", apperrors.ErrValidation, amount)
	}
	query := `
		WITH current AS (
			SELECT loan_id, outstanding_balance
			FROM loans
			WHERE farmer_id = $1 AND currency_code = $3
			FOR UPDATE
		)
		UPDATE loans l
		SET outstanding_balance = GREATEST(c.outstanding_balance - $2::numeric, 0),
		    updated_at = NOW()
		FROM current c
		WHERE l.loan_id = c.loan_id
		RETURNING LEAST($2::numeric, c.outstanding_balance), l.outstanding_balance;
	`
	var applied, balance decimal.Decimal
	err := r.conn(ctx).QueryRow(ctx, query, farmerID, amount.Amount(), amount.Currency()).Scan(&applied, &balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Money{}, domain.Money{}, fmt.Errorf("loan for farmer %s in %s: %w", farmerID, amount.Currency(), apperrors.ErrNotFound)
		}
		return domain.Money{}, domain.Money{}, fmt.Errorf("failed to apply loan recovery for farmer %s: %w", farmerID, err)
	}

	appliedMoney, err := domain.NewMoney(applied, amount.Currency())
	if err != nil {
		return domain.Money{}, domain.Money{}, err
	}
	balanceMoney, err := domain.NewMoney(balance, amount.Currency())
	if err != nil {
		return domain.Money{}, domain.Money{}, err
	}
	return appliedMoney, balanceMoney, nil
}
