package domain

import "time"

// Loan is a farmer's outstanding input or cash advance, recovered from payouts.
type Loan struct {
	LoanID             string    `json:"loanID"`
	FarmerID           string    `json:"farmerID"`
	OutstandingBalance Money     `json:"outstandingBalance"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
