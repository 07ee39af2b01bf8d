package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollectionStatus tracks a produce collection from weighing to settlement.
type CollectionStatus string

const (
	CollectionPending  CollectionStatus = "PENDING"
	CollectionVerified CollectionStatus = "VERIFIED"
	CollectionRejected CollectionStatus = "REJECTED"
	CollectionPaid     CollectionStatus = "PAID"
)

// Collection is a weighed delivery of produce by a farmer.
type Collection struct {
	CollectionID           string           `json:"collectionID"`
	FarmerID               string           `json:"farmerID"`
	WeightKg               decimal.Decimal  `json:"weightKg"`
	AppliedRate            Money            `json:"appliedRate"`            // per kg
	CalculatedPayoutAmount Money            `json:"calculatedPayoutAmount"` // gross
	Status                 CollectionStatus `json:"status"`
	CollectedAt            time.Time        `json:"collectedAt"`
	AuditFields
}

// IsPayoutEligible reports whether the collection may be paid out.
func (c Collection) IsPayoutEligible() bool {
	return c.Status == CollectionVerified
}
