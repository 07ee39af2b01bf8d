package domain_test

import (
	"testing"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePayout_Scenarios(t *testing.T) {
	tests := []struct {
		name          string
		gross         string
		outstanding   string
		wantRecovery  string
		wantNet       string
		wantRate      string
		wantProtected bool
	}{
		{"capped by percentage", "1000.00", "5000.00", "300.00", "700.00", "0.3", true},
		{"capped by balance", "1000.00", "200.00", "200.00", "800.00", "0.2", true},
		{"zero gross", "0.00", "5000.00", "0.00", "0.00", "0", true},
		{"no loan", "1000.00", "0", "0.00", "1000.00", "0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc, err := domain.CalculatePayout(
				domain.MustMoney(tt.gross, "KES"),
				domain.MustMoney(tt.outstanding, "KES"),
				domain.DefaultRecoveryPolicy(),
			)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRecovery+" KES", calc.LoanRecovery.String())
			assert.Equal(t, tt.wantNet+" KES", calc.NetAmount.String())
			assert.True(t, calc.RecoveryRate.Equal(decimal.RequireFromString(tt.wantRate)), "rate %s", calc.RecoveryRate)
			assert.Equal(t, tt.wantProtected, calc.LivingWageProtected)

			sum, err := calc.LoanRecovery.Add(calc.NetAmount)
			require.NoError(t, err)
			eq, err := sum.Equals(calc.GrossAmount)
			require.NoError(t, err)
			assert.True(t, eq, "recovery + net must equal gross")
		})
	}
}

func TestCalculatePayout_RecoveryNeverExceedsCapOrBalance(t *testing.T) {
	policy := domain.RecoveryPolicy{
		RecoveryCapPercent:     decimal.RequireFromString("0.25"),
		LivingWageFloorPercent: decimal.RequireFromString("0.75"),
	}
	grosses := []string{"0.01", "3.33", "99.99", "1000", "12345.67"}
	balances := []string{"0", "0.01", "1", "250", "1000000"}
	for _, g := range grosses {
		for _, b := range balances {
			gross := domain.MustMoney(g, "KES")
			balance := domain.MustMoney(b, "KES")
			calc, err := domain.CalculatePayout(gross, balance, policy)
			require.NoError(t, err)

			exactCap := gross.Amount().Mul(policy.RecoveryCapPercent)
			assert.True(t, calc.LoanRecovery.Amount().LessThanOrEqual(exactCap), "gross=%s balance=%s", g, b)
			over, err := calc.LoanRecovery.IsGreaterThan(balance)
			require.NoError(t, err)
			assert.False(t, over, "gross=%s balance=%s", g, b)
			assert.True(t, calc.LoanRecovery.Amount().Add(calc.NetAmount.Amount()).Equal(gross.Amount()))
		}
	}
}

func TestCalculatePayout_CapRoundsDownOnSubCentAmounts(t *testing.T) {
	calc, err := domain.CalculatePayout(domain.MustMoney("0.05", "KES"), domain.MustMoney("100", "KES"), domain.DefaultRecoveryPolicy())
	require.NoError(t, err)

	assert.Equal(t, "0.01 KES", calc.LoanRecovery.String())
	assert.Equal(t, "0.04 KES", calc.NetAmount.String())
	assert.True(t, calc.LivingWageProtected)
}

func TestCalculatePayout_LivingWageFloorIndependentOfCap(t *testing.T) {
	policy := domain.RecoveryPolicy{
		RecoveryCapPercent:     decimal.RequireFromString("0.30"),
		LivingWageFloorPercent: decimal.RequireFromString("0.80"),
	}
	calc, err := domain.CalculatePayout(domain.MustMoney("1000", "KES"), domain.MustMoney("5000", "KES"), policy)
	require.NoError(t, err)
	assert.False(t, calc.LivingWageProtected)
}

func TestCalculatePayout_Errors(t *testing.T) {
	policy := domain.DefaultRecoveryPolicy()

	_, err := domain.CalculatePayout(domain.MustMoney("-1", "KES"), domain.MustMoney("0", "KES"), policy)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.CalculatePayout(domain.MustMoney("100", "KES"), domain.MustMoney("50", "UGX"), policy)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	_, err = domain.CalculatePayout(domain.MustMoney("100", "KES"), domain.MustMoney("-5", "KES"), policy)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	bad := domain.RecoveryPolicy{RecoveryCapPercent: decimal.RequireFromString("1.5"), LivingWageFloorPercent: decimal.Zero}
	_, err = domain.CalculatePayout(domain.MustMoney("100", "KES"), domain.MustMoney("0", "KES"), bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
