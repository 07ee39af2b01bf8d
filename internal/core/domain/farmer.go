package domain

import (
	"fmt"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
)

// PayoutMethod selects the rail a farmer is paid through.
type PayoutMethod string

const (
	PayoutMobileMoney PayoutMethod = "MOBILE_MONEY"
	PayoutBank        PayoutMethod = "BANK"
)

// Farmer is the payee of collections.
type Farmer struct {
	FarmerID          string       `json:"farmerID"`
	UserID            string       `json:"userID"` // account used for real-time notifications
	Name              string       `json:"name"`
	PayoutMethod      PayoutMethod `json:"payoutMethod"`
	PhoneNumber       string       `json:"phoneNumber"`
	BankCode          string       `json:"bankCode"`
	BankAccountNumber string       `json:"bankAccountNumber"`
	AuditFields
}

// PayoutDestination is where a dispatched payout lands.
type PayoutDestination struct {
	Method        PayoutMethod `json:"method"`
	PhoneNumber   string       `json:"phoneNumber,omitempty"`
	BankCode      string       `json:"bankCode,omitempty"`
	AccountNumber string       `json:"accountNumber,omitempty"`
}

// PayoutDestination resolves the farmer's configured payout destination.
func (f Farmer) PayoutDestination() (PayoutDestination, error) {
	switch f.PayoutMethod {
	case PayoutMobileMoney:
		if f.PhoneNumber == "" {
			return PayoutDestination{}, fmt.Errorf("%w: farmer %s has no mobile money number", apperrors.ErrValidation, f.FarmerID)
		}
		return PayoutDestination{Method: PayoutMobileMoney, PhoneNumber: f.PhoneNumber}, nil
	case PayoutBank:
		if f.BankCode == "" || f.BankAccountNumber == "" {
			return PayoutDestination{}, fmt.Errorf("%w: farmer %s has incomplete bank details", apperrors.ErrValidation, f.FarmerID)
		}
		return PayoutDestination{Method: PayoutBank, BankCode: f.BankCode, AccountNumber: f.BankAccountNumber}, nil
	default:
		return PayoutDestination{}, fmt.Errorf("%w: farmer %s has unknown payout method %q", apperrors.ErrValidation, f.FarmerID, f.PayoutMethod)
	}
}

// String masks the destination for logs.
func (d PayoutDestination) String() string {
	switch d.Method {
	case PayoutMobileMoney:
		return "mobile:" + mask(d.PhoneNumber)
	case PayoutBank:
		return "bank:" + d.BankCode + "/" + mask(d.AccountNumber)
	}
	return string(d.Method)
}

func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
