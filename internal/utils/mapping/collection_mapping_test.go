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

func TestToDomainCollection(t *testing.T) {
	collected := time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)
	c, err := ToDomainCollection(models.Collection{
		CollectionID:           "col-1",
		FarmerID:               "farmer-1",
		WeightKg:               decimal.RequireFromString("120.5"),
		AppliedRate:            decimal.RequireFromString("40"),
		CalculatedPayoutAmount: decimal.RequireFromString("4820"),
		CurrencyCode:           "KES",
		Status:                 "VERIFIED",
		CollectedAt:            collected,
		AuditFields:            models.AuditFields{CreatedBy: "agent-1", LastUpdatedBy: "agent-2"},
	})
	require.NoError(t, err)

	assert.True(t, c.IsPayoutEligible())
	assert.Equal(t, "4820.00 KES", c.CalculatedPayoutAmount.String())
	assert.Equal(t, "40.00 KES", c.AppliedRate.String())
	assert.Equal(t, "agent-2", c.LastUpdatedBy)
	assert.Equal(t, collected, c.CollectedAt)
}

func TestToDomainCollection_BadCurrency(t *testing.T) {
	_, err := ToDomainCollection(models.Collection{CollectionID: "col-1", CurrencyCode: ""})
	assert.ErrorContains(t, err, "collection col-1 rate")

	var c domain.Collection
	assert.False(t, c.IsPayoutEligible())
}
