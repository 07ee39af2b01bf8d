package domain

import "time"

// EventType names a domain event emitted by a payout state transition.
type EventType string

const (
	EventPayoutCalculating       EventType = "payout.calculating"
	EventPayoutAwaitingGateway   EventType = "payout.awaiting_gateway"
	EventPayoutDispatchUncertain EventType = "payout.dispatch_uncertain"
	EventPayoutCompleted         EventType = "payout.completed"
	EventPayoutFailed            EventType = "payout.failed"
	EventLoanRecoveryApplied     EventType = "loan.recovery_applied"
	EventLoanRecoveryExcess      EventType = "loan.recovery_excess"
)

// DomainEvent records something that happened to a payout. Events are returned
// from the operation that produced them instead of being buffered on the entity.
type DomainEvent struct {
	Type         EventType      `json:"type"`
	PayoutID     string         `json:"payoutID"`
	CollectionID string         `json:"collectionID"`
	FarmerID     string         `json:"farmerID"`
	OccurredAt   time.Time      `json:"occurredAt"`
	Payload      map[string]any `json:"payload,omitempty"`
}

// PayoutResult is the outcome of processing a payout together with the events it emitted.
type PayoutResult struct {
	Payout   *PayoutTransaction `json:"payout"`
	Events   []DomainEvent      `json:"events"`
	Replayed bool               `json:"replayed"` // true when an already-completed payout was returned
}
