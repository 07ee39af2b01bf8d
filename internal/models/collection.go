package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection is a row of the collections table. Money columns are stored as
// NUMERIC amounts sharing the row's currency_code.
type Collection struct {
	CollectionID           string          `db:"collection_id"`
	FarmerID               string          `db:"farmer_id"`
	WeightKg               decimal.Decimal `db:"weight_kg"`
	AppliedRate            decimal.Decimal `db:"applied_rate"`
	CalculatedPayoutAmount decimal.Decimal `db:"calculated_payout_amount"`
	CurrencyCode           string          `db:"currency_code"`
	Status                 string          `db:"status"`
	CollectedAt            time.Time       `db:"collected_at"`
	AuditFields
}
