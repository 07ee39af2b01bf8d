package models

import "database/sql"

// Farmer is a row of the farmers table.
type Farmer struct {
	FarmerID          string         `db:"farmer_id"`
	UserID            sql.NullString `db:"user_id"`
	Name              string         `db:"name"`
	PayoutMethod      string         `db:"payout_method"`
	PhoneNumber       sql.NullString `db:"phone_number"`
	BankCode          sql.NullString `db:"bank_code"`
	BankAccountNumber sql.NullString `db:"bank_account_number"`
	AuditFields
}
