package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/SscSPs/farm_payouts/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayoutMapping_RoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	ref := "SIM-0000ABCD"
	p := domain.PayoutTransaction{
		PayoutID:            "payout-1",
		CollectionID:        "col-1",
		FarmerID:            "farmer-1",
		Attempt:             2,
		GrossAmount:         domain.MustMoney("1000", "KES"),
		LoanRecoveryAmount:  domain.MustMoney("300", "KES"),
		NetAmount:           domain.MustMoney("700", "KES"),
		RecoveryRate:        decimal.RequireFromString("0.3"),
		LivingWageProtected: true,
		Status:              domain.PayoutCompleted,
		Destination:         domain.PayoutDestination{Method: domain.PayoutMobileMoney, PhoneNumber: "+254700000001"},
		GatewayReference:    &ref,
		ProcessedBy:         "agent-1",
		DispatchedAt:        &now,
		Version:             3,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	m := ToModelPayout(p)
	assert.Equal(t, "KES", m.CurrencyCode)
	require.NotNil(t, m.DestinationPhone)
	assert.Nil(t, m.DestinationBankCode)
	assert.Nil(t, m.DestinationAccount)

	back, err := ToDomainPayout(m)
	require.NoError(t, err)
	assert.Equal(t, "300.00 KES", back.LoanRecoveryAmount.String())
	assert.Equal(t, "700.00 KES", back.NetAmount.String())
	assert.True(t, back.RecoveryRate.Equal(p.RecoveryRate))
	assert.Equal(t, p.Destination, back.Destination)
	assert.Equal(t, ref, *back.GatewayReference)
	assert.Equal(t, 3, back.Version)
}

func TestToDomainPayout_FailedBeforeCalculation(t *testing.T) {
	reason := "collection total is negative"
	back, err := ToDomainPayout(models.Payout{
		PayoutID:      "payout-1",
		Status:        string(domain.PayoutFailed),
		FailureReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Money{}, back.GrossAmount)
	assert.Equal(t, domain.PayoutFailed, back.Status)
	assert.Equal(t, reason, *back.FailureReason)
}

func TestToDomainPayout_InvalidCurrency(t *testing.T) {
	_, err := ToDomainPayout(models.Payout{PayoutID: "payout-1", CurrencyCode: "kes"})
	assert.ErrorContains(t, err, "payout payout-1 gross amount")
}
