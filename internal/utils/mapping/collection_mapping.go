package mapping

import (
	"fmt"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/SscSPs/farm_payouts/internal/models"
)

// ToDomainCollection converts a model Collection to a domain Collection
func ToDomainCollection(m models.Collection) (domain.Collection, error) {
	rate, err := domain.NewMoney(m.AppliedRate, m.CurrencyCode)
	if err != nil {
		return domain.Collection{}, fmt.Errorf("collection %s rate: %w", m.CollectionID, err)
	}
	gross, err := domain.NewMoney(m.CalculatedPayoutAmount, m.CurrencyCode)
	if err != nil {
		return domain.Collection{}, fmt.Errorf("collection %s payout amount: %w", m.CollectionID, err)
	}
	return domain.Collection{
		CollectionID:           m.CollectionID,
		FarmerID:               m.FarmerID,
		WeightKg:               m.WeightKg,
		AppliedRate:            rate,
		CalculatedPayoutAmount: gross,
		Status:                 domain.CollectionStatus(m.Status),
		CollectedAt:            m.CollectedAt,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}, nil
}
