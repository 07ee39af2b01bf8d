package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is a row of the loans table.
type Loan struct {
	LoanID             string          `db:"loan_id"`
	FarmerID           string          `db:"farmer_id"`
	OutstandingBalance decimal.Decimal `db:"outstanding_balance"`
	CurrencyCode       string          `db:"currency_code"`
	UpdatedAt          time.Time       `db:"updated_at"`
}
