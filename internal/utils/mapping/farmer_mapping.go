package mapping

import (
	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/SscSPs/farm_payouts/internal/models"
)

// ToDomainFarmer converts a model Farmer to a domain Farmer
func ToDomainFarmer(m models.Farmer) domain.Farmer {
	return domain.Farmer{
		FarmerID:          m.FarmerID,
		UserID:            m.UserID.String,
		Name:              m.Name,
		PayoutMethod:      domain.PayoutMethod(m.PayoutMethod),
		PhoneNumber:       m.PhoneNumber.String,
		BankCode:          m.BankCode.String,
		BankAccountNumber: m.BankAccountNumber.String,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
