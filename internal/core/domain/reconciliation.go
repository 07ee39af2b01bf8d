package domain

// ReconciliationReport summarises one sweep over stale AWAITING_GATEWAY payouts.
type ReconciliationReport struct {
	Examined  int      `json:"examined"`
	Completed int      `json:"completed"`
	Failed    int      `json:"failed"`
	Pending   int      `json:"pending"` // gateway still unreachable or in flight
	Errors    []string `json:"errors,omitempty"`
}
