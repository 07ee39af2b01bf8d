package mapping

import (
	"fmt"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/SscSPs/farm_payouts/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelPayout converts a domain PayoutTransaction to a model Payout.
// All money columns share the gross amount's currency.
func ToModelPayout(d domain.PayoutTransaction) models.Payout {
	return models.Payout{
		PayoutID:            d.PayoutID,
		CollectionID:        d.CollectionID,
		FarmerID:            d.FarmerID,
		Attempt:             d.Attempt,
		CurrencyCode:        d.GrossAmount.Currency(),
		GrossAmount:         d.GrossAmount.Amount(),
		LoanRecoveryAmount:  d.LoanRecoveryAmount.Amount(),
		NetAmount:           d.NetAmount.Amount(),
		RecoveryRate:        d.RecoveryRate,
		LivingWageProtected: d.LivingWageProtected,
		Status:              string(d.Status),
		DestinationMethod:   string(d.Destination.Method),
		DestinationPhone:    nullable(d.Destination.PhoneNumber),
		DestinationBankCode: nullable(d.Destination.BankCode),
		DestinationAccount:  nullable(d.Destination.AccountNumber),
		GatewayReference:    d.GatewayReference,
		FailureReason:       d.FailureReason,
		FailureRetryable:    d.FailureRetryable,
		ProcessedBy:         d.ProcessedBy,
		DispatchedAt:        d.DispatchedAt,
		Version:             d.Version,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

// ToDomainPayout converts a model Payout to a domain PayoutTransaction
func ToDomainPayout(m models.Payout) (domain.PayoutTransaction, error) {
	gross, err := payoutMoney(m.GrossAmount, m.CurrencyCode)
	if err != nil {
		return domain.PayoutTransaction{}, fmt.Errorf("payout %s gross amount: %w", m.PayoutID, err)
	}
	recovery, err := payoutMoney(m.LoanRecoveryAmount, m.CurrencyCode)
	if err != nil {
		return domain.PayoutTransaction{}, fmt.Errorf("payout %s recovery amount: %w", m.PayoutID, err)
	}
	net, err := payoutMoney(m.NetAmount, m.CurrencyCode)
	if err != nil {
		return domain.PayoutTransaction{}, fmt.Errorf("payout %s net amount: %w", m.PayoutID, err)
	}
	return domain.PayoutTransaction{
		PayoutID:            m.PayoutID,
		CollectionID:        m.CollectionID,
		FarmerID:            m.FarmerID,
		Attempt:             m.Attempt,
		GrossAmount:         gross,
		LoanRecoveryAmount:  recovery,
		NetAmount:           net,
		RecoveryRate:        m.RecoveryRate,
		LivingWageProtected: m.LivingWageProtected,
		Status:              domain.PayoutStatus(m.Status),
		Destination: domain.PayoutDestination{
			Method:        domain.PayoutMethod(m.DestinationMethod),
			PhoneNumber:   deref(m.DestinationPhone),
			BankCode:      deref(m.DestinationBankCode),
			AccountNumber: deref(m.DestinationAccount),
		},
		GatewayReference: m.GatewayReference,
		FailureReason:    m.FailureReason,
		FailureRetryable: m.FailureRetryable,
		ProcessedBy:      m.ProcessedBy,
		DispatchedAt:     m.DispatchedAt,
		Version:          m.Version,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}

// payoutMoney tolerates the empty currency of attempts that failed before calculation.
func payoutMoney(amount decimal.Decimal, currency string) (domain.Money, error) {
	if currency == "" {
		return domain.Money{}, nil
	}
	return domain.NewMoney(amount, currency)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
