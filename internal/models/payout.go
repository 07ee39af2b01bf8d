package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout is a row of the payouts table.
type Payout struct {
	PayoutID            string          `db:"payout_id"`
	CollectionID        string          `db:"collection_id"`
	FarmerID            string          `db:"farmer_id"`
	Attempt             int             `db:"attempt"`
	CurrencyCode        string          `db:"currency_code"`
	GrossAmount         decimal.Decimal `db:"gross_amount"`
	LoanRecoveryAmount  decimal.Decimal `db:"loan_recovery_amount"`
	NetAmount           decimal.Decimal `db:"net_amount"`
	RecoveryRate        decimal.Decimal `db:"recovery_rate"`
	LivingWageProtected bool            `db:"living_wage_protected"`
	Status              string          `db:"status"`
	DestinationMethod   string          `db:"destination_method"`
	DestinationPhone    *string         `db:"destination_phone"`
	DestinationBankCode *string         `db:"destination_bank_code"`
	DestinationAccount  *string         `db:"destination_account"`
	GatewayReference    *string         `db:"gateway_reference"`
	FailureReason       *string         `db:"failure_reason"`
	FailureRetryable    bool            `db:"failure_retryable"`
	ProcessedBy         string          `db:"processed_by"`
	DispatchedAt        *time.Time      `db:"dispatched_at"`
	Version             int             `db:"version"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}
