package domain_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney_Validation(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		wantErr  bool
	}{
		{"valid", "1000.50", "KES", false},
		{"negative allowed at construction", "-1", "KES", false},
		{"not a number", "abc", "KES", true},
		{"empty amount", "", "KES", true},
		{"lower-case currency", "10", "kes", true},
		{"short currency", "10", "KE", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewMoneyFromString(tt.amount, tt.currency)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewMoneyFromFloat_RejectsNonFinite(t *testing.T) {
	_, err := domain.NewMoneyFromFloat(math.NaN(), "KES")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	m, err := domain.NewMoneyFromFloat(12.5, "KES")
	require.NoError(t, err)
	assert.Equal(t, "12.50 KES", m.String())
}

func TestMoney_AddSubtractRoundTrip(t *testing.T) {
	a := domain.MustMoney("1234.56", "KES")
	b := domain.MustMoney("78.9", "KES")

	sum, err := a.Add(b)
	require.NoError(t, err)
	back, err := sum.Subtract(b)
	require.NoError(t, err)

	eq, err := back.Equals(a)
	require.NoError(t, err)
	assert.True(t, eq)
	assert.Equal(t, "1234.56 KES", a.String(), "operands must not be mutated")
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	kes := domain.MustMoney("10", "KES")
	ugx := domain.MustMoney("10", "UGX")

	_, err := kes.Add(ugx)
	assert.True(t, errors.Is(err, domain.ErrCurrencyMismatch))
	_, err = kes.Subtract(ugx)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
	_, err = kes.IsGreaterThan(ugx)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
	_, err = kes.IsLessThan(ugx)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
	_, err = domain.MinMoney(kes, ugx)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMoney_PercentageRoundsHalfUp(t *testing.T) {
	m := domain.MustMoney("0.05", "KES")
	assert.Equal(t, "0.03 KES", m.Percentage(decimal.NewFromInt(50)).String())

	gross := domain.MustMoney("1000", "KES")
	assert.Equal(t, "300.00 KES", gross.Percentage(decimal.NewFromInt(30)).String())
}

func TestMoney_Divide(t *testing.T) {
	m := domain.MustMoney("10", "KES")

	third, err := m.Divide(decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, "3.33 KES", third.String())

	_, err = m.Divide(decimal.Zero)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMoney_MultiplyKeepsCurrency(t *testing.T) {
	rate := domain.MustMoney("42.5", "KES")
	gross := rate.Multiply(decimal.RequireFromString("12.4"))
	assert.Equal(t, "KES", gross.Currency())
	assert.True(t, gross.Amount().Equal(decimal.RequireFromString("527")))
}

func TestMoney_Comparisons(t *testing.T) {
	small := domain.MustMoney("1", "KES")
	big := domain.MustMoney("2", "KES")

	gt, err := big.IsGreaterThan(small)
	require.NoError(t, err)
	assert.True(t, gt)

	lt, err := big.IsLessThan(small)
	require.NoError(t, err)
	assert.False(t, lt)

	zero, err := domain.ZeroMoney("KES")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
	assert.False(t, small.IsNegative())
}

func TestMoney_JSON(t *testing.T) {
	m := domain.MustMoney("700", "KES")
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"700.00","currency":"KES"}`, string(data))

	var fromString domain.Money
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"12.30","currency":"KES"}`), &fromString))
	assert.Equal(t, "12.30 KES", fromString.String())

	var fromNumber domain.Money
	require.NoError(t, json.Unmarshal([]byte(`{"amount":12.3,"currency":"KES"}`), &fromNumber))
	assert.Equal(t, "12.30 KES", fromNumber.String())

	var bad domain.Money
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"amount":"x","currency":"KES"}`), &bad), apperrors.ErrValidation)
}
