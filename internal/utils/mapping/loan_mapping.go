package mapping

import (
	"fmt"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/SscSPs/farm_payouts/internal/models"
)

// ToDomainLoan converts a model Loan to a domain Loan
func ToDomainLoan(m models.Loan) (domain.Loan, error) {
	balance, err := domain.NewMoney(m.OutstandingBalance, m.CurrencyCode)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("loan %s balance: %w", m.LoanID, err)
	}
	return domain.Loan{
		LoanID:             m.LoanID,
		FarmerID:           m.FarmerID,
		OutstandingBalance: balance,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}
