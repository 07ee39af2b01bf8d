package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutStatus is the lifecycle state of a payout attempt.
type PayoutStatus string

const (
	PayoutPending         PayoutStatus = "PENDING"
	PayoutCalculating     PayoutStatus = "CALCULATING"
	PayoutAwaitingGateway PayoutStatus = "AWAITING_GATEWAY"
	PayoutCompleted       PayoutStatus = "COMPLETED"
	PayoutFailed          PayoutStatus = "FAILED"
)

// NoDispatchReference marks a completed payout whose net amount was zero.
const NoDispatchReference = "NO_DISPATCH"

var payoutTransitions = map[PayoutStatus][]PayoutStatus{
	PayoutPending:         {PayoutCalculating},
	PayoutCalculating:     {PayoutAwaitingGateway, PayoutFailed},
	PayoutAwaitingGateway: {PayoutCompleted, PayoutFailed},
}

// IsTerminal reports whether no further transition is allowed.
func (s PayoutStatus) IsTerminal() bool {
	return s == PayoutCompleted || s == PayoutFailed
}

// CanTransitionTo reports whether s -> next is a valid lifecycle step.
func (s PayoutStatus) CanTransitionTo(next PayoutStatus) bool {
	for _, allowed := range payoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PayoutTransaction is one attempt to settle a collection. Failed attempts are
// kept as audit records; at most one non-failed attempt exists per collection.
type PayoutTransaction struct {
	PayoutID            string            `json:"payoutID"`
	CollectionID        string            `json:"collectionID"`
	FarmerID            string            `json:"farmerID"`
	Attempt             int               `json:"attempt"`
	GrossAmount         Money             `json:"grossAmount"`
	LoanRecoveryAmount  Money             `json:"loanRecoveryAmount"`
	NetAmount           Money             `json:"netAmount"`
	RecoveryRate        decimal.Decimal   `json:"recoveryRate"`
	LivingWageProtected bool              `json:"livingWageProtected"`
	Status              PayoutStatus      `json:"status"`
	Destination         PayoutDestination `json:"destination"`
	GatewayReference    *string           `json:"gatewayReference,omitempty"`
	FailureReason       *string           `json:"failureReason,omitempty"`
	FailureRetryable    bool              `json:"failureRetryable"`
	ProcessedBy         string            `json:"processedBy"`
	DispatchedAt        *time.Time        `json:"dispatchedAt,omitempty"`
	Version             int               `json:"version"` // bumped by every successful update
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// NewPayoutTransaction creates a PENDING payout attempt for a collection.
func NewPayoutTransaction(collectionID, farmerID, processedBy string, attempt int, now time.Time) *PayoutTransaction {
	return &PayoutTransaction{
		PayoutID:     uuid.NewString(),
		CollectionID: collectionID,
		FarmerID:     farmerID,
		Attempt:      attempt,
		Status:       PayoutPending,
		ProcessedBy:  processedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (p *PayoutTransaction) transition(next PayoutStatus, now time.Time) error {
	if p.Status.IsTerminal() {
		return fmt.Errorf("%w: payout %s is already %s", apperrors.ErrInvalidState, p.PayoutID, p.Status)
	}
	if !p.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: payout %s cannot move from %s to %s", apperrors.ErrInvalidState, p.PayoutID, p.Status, next)
	}
	p.Status = next
	p.UpdatedAt = now
	return nil
}

func (p *PayoutTransaction) event(t EventType, now time.Time, payload map[string]any) DomainEvent {
	return DomainEvent{
		Type:         t,
		PayoutID:     p.PayoutID,
		CollectionID: p.CollectionID,
		FarmerID:     p.FarmerID,
		OccurredAt:   now,
		Payload:      payload,
	}
}

// StartCalculation moves PENDING -> CALCULATING.
func (p *PayoutTransaction) StartCalculation(now time.Time) ([]DomainEvent, error) {
	if err := p.transition(PayoutCalculating, now); err != nil {
		return nil, err
	}
	return []DomainEvent{p.event(EventPayoutCalculating, now, nil)}, nil
}

// ApplyCalculation records the split and moves CALCULATING -> AWAITING_GATEWAY.
func (p *PayoutTransaction) ApplyCalculation(calc PayoutCalculation, destination PayoutDestination, now time.Time) ([]DomainEvent, error) {
	if p.Status != PayoutCalculating {
		return nil, fmt.Errorf("%w: payout %s must be %s to apply a calculation, is %s", apperrors.ErrInvalidState, p.PayoutID, PayoutCalculating, p.Status)
	}
	sum, err := calc.LoanRecovery.Add(calc.NetAmount)
	if err != nil {
		return nil, err
	}
	balanced, err := sum.Equals(calc.GrossAmount)
	if err != nil {
		return nil, err
	}
	if !balanced {
		return nil, fmt.Errorf("%w: recovery %s + net %s does not equal gross %s", apperrors.ErrValidation, calc.LoanRecovery, calc.NetAmount, calc.GrossAmount)
	}
	if err := p.transition(PayoutAwaitingGateway, now); err != nil {
		return nil, err
	}
	p.GrossAmount = calc.GrossAmount
	p.LoanRecoveryAmount = calc.LoanRecovery
	p.NetAmount = calc.NetAmount
	p.RecoveryRate = calc.RecoveryRate
	p.LivingWageProtected = calc.LivingWageProtected
	p.Destination = destination
	return []DomainEvent{p.event(EventPayoutAwaitingGateway, now, map[string]any{
		"grossAmount":        calc.GrossAmount,
		"loanRecoveryAmount": calc.LoanRecovery,
		"netAmount":          calc.NetAmount,
	})}, nil
}

// MarkDispatched stamps the moment funds were handed to the gateway.
func (p *PayoutTransaction) MarkDispatched(now time.Time) {
	p.DispatchedAt = &now
	p.UpdatedAt = now
}

// MarkDispatchUncertain records a retryable gateway failure. The payout stays
// AWAITING_GATEWAY because the funds may or may not have moved.
func (p *PayoutTransaction) MarkDispatchUncertain(reason string, now time.Time) ([]DomainEvent, error) {
	if p.Status != PayoutAwaitingGateway {
		return nil, fmt.Errorf("%w: payout %s is %s, not %s", apperrors.ErrInvalidState, p.PayoutID, p.Status, PayoutAwaitingGateway)
	}
	p.FailureReason = &reason
	p.FailureRetryable = true
	p.UpdatedAt = now
	return []DomainEvent{p.event(EventPayoutDispatchUncertain, now, map[string]any{"reason": reason})}, nil
}

// Complete moves AWAITING_GATEWAY -> COMPLETED with the gateway's reference.
func (p *PayoutTransaction) Complete(gatewayReference string, now time.Time) ([]DomainEvent, error) {
	if err := p.transition(PayoutCompleted, now); err != nil {
		return nil, err
	}
	p.GatewayReference = &gatewayReference
	p.FailureReason = nil
	p.FailureRetryable = false
	return []DomainEvent{p.event(EventPayoutCompleted, now, map[string]any{
		"gatewayReference":   gatewayReference,
		"netAmount":          p.NetAmount,
		"loanRecoveryAmount": p.LoanRecoveryAmount,
	})}, nil
}

// Fail moves CALCULATING or AWAITING_GATEWAY -> FAILED.
func (p *PayoutTransaction) Fail(reason string, retryable bool, now time.Time) ([]DomainEvent, error) {
	if err := p.transition(PayoutFailed, now); err != nil {
		return nil, err
	}
	p.FailureReason = &reason
	p.FailureRetryable = retryable
	return []DomainEvent{p.event(EventPayoutFailed, now, map[string]any{"reason": reason, "retryable": retryable})}, nil
}

// IsReconcilable reports whether an AWAITING_GATEWAY payout should be checked
// against the gateway instead of being treated as in flight.
func (p *PayoutTransaction) IsReconcilable(now time.Time, timeout time.Duration) bool {
	if p.Status != PayoutAwaitingGateway {
		return false
	}
	return p.FailureRetryable || now.Sub(p.UpdatedAt) >= timeout
}

// DispatchWindowElapsed reports whether the gateway has had timeout to record
// the dispatch, counted from DispatchedAt or from UpdatedAt when the attempt
// was never stamped. Until then a gateway that has no record of the key may
// still be processing it.
func (p *PayoutTransaction) DispatchWindowElapsed(now time.Time, timeout time.Duration) bool {
	since := p.UpdatedAt
	if p.DispatchedAt != nil {
		since = *p.DispatchedAt
	}
	return now.Sub(since) >= timeout
}
