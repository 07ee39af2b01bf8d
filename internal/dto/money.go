package dto

import "github.com/SscSPs/farm_payouts/internal/core/domain"

// MoneyResponse is a fixed two-decimal amount with its currency.
type MoneyResponse struct {
	Amount   string `json:"amount" example:"700.00"`
	Currency string `json:"currency" example:"KES"`
}

// ToMoneyResponse converts a domain Money to MoneyResponse
func ToMoneyResponse(m domain.Money) MoneyResponse {
	return MoneyResponse{
		Amount:   m.Amount().StringFixed(domain.MinorUnitPrecision),
		Currency: m.Currency(),
	}
}
