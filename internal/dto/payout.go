package dto

import (
	"time"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
)

// ListPayoutsParams defines query parameters for listing a farmer's payouts.
type ListPayoutsParams struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// PayoutResponse defines the data returned for a payout attempt.
type PayoutResponse struct {
	PayoutID            string        `json:"payoutID"`
	CollectionID        string        `json:"collectionID"`
	FarmerID            string        `json:"farmerID"`
	Attempt             int           `json:"attempt"`
	Status              string        `json:"status" example:"COMPLETED"`
	GrossAmount         MoneyResponse `json:"grossAmount"`
	LoanRecoveryAmount  MoneyResponse `json:"loanRecoveryAmount"`
	NetAmount           MoneyResponse `json:"netAmount"`
	RecoveryRate        string        `json:"recoveryRate" example:"0.3"`
	LivingWageProtected bool          `json:"livingWageProtected"`
	Destination         string        `json:"destination" example:"mobile:****5678"`
	GatewayReference    *string       `json:"gatewayReference,omitempty"`
	FailureReason       *string       `json:"failureReason,omitempty"`
	FailureRetryable    bool          `json:"failureRetryable"`
	ProcessedBy         string        `json:"processedBy"`
	DispatchedAt        *time.Time    `json:"dispatchedAt,omitempty"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

// EventResponse is a domain event as exposed over HTTP.
type EventResponse struct {
	Type       string         `json:"type" example:"payout.completed"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// ProcessPayoutResponse is returned by the process endpoint.
type ProcessPayoutResponse struct {
	Payout   PayoutResponse  `json:"payout"`
	Events   []EventResponse `json:"events"`
	Replayed bool            `json:"replayed"`
}

// PayoutPreviewResponse is the recovery split a payout would use right now.
type PayoutPreviewResponse struct {
	GrossAmount         MoneyResponse `json:"grossAmount"`
	LoanRecoveryAmount  MoneyResponse `json:"loanRecoveryAmount"`
	NetAmount           MoneyResponse `json:"netAmount"`
	RecoveryRate        string        `json:"recoveryRate"`
	LivingWageProtected bool          `json:"livingWageProtected"`
}

// ListPayoutsResponse wraps a page of payouts.
type ListPayoutsResponse struct {
	Payouts []PayoutResponse `json:"payouts"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// ReconciliationResponse summarises a reconciliation sweep.
type ReconciliationResponse struct {
	Examined  int      `json:"examined"`
	Completed int      `json:"completed"`
	Failed    int      `json:"failed"`
	Pending   int      `json:"pending"`
	Errors    []string `json:"errors,omitempty"`
}

// ToPayoutResponse converts a domain PayoutTransaction to PayoutResponse
func ToPayoutResponse(p *domain.PayoutTransaction) PayoutResponse {
	return PayoutResponse{
		PayoutID:            p.PayoutID,
		CollectionID:        p.CollectionID,
		FarmerID:            p.FarmerID,
		Attempt:             p.Attempt,
		Status:              string(p.Status),
		GrossAmount:         ToMoneyResponse(p.GrossAmount),
		LoanRecoveryAmount:  ToMoneyResponse(p.LoanRecoveryAmount),
		NetAmount:           ToMoneyResponse(p.NetAmount),
		RecoveryRate:        p.RecoveryRate.String(),
		LivingWageProtected: p.LivingWageProtected,
		Destination:         p.Destination.String(),
		GatewayReference:    p.GatewayReference,
		FailureReason:       p.FailureReason,
		FailureRetryable:    p.FailureRetryable,
		ProcessedBy:         p.ProcessedBy,
		DispatchedAt:        p.DispatchedAt,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

// ToListPayoutsResponse converts a slice of payouts to a ListPayoutsResponse
func ToListPayoutsResponse(payouts []domain.PayoutTransaction, limit, offset int) ListPayoutsResponse {
	res := make([]PayoutResponse, len(payouts))
	for i := range payouts {
		res[i] = ToPayoutResponse(&payouts[i])
	}
	return ListPayoutsResponse{Payouts: res, Limit: limit, Offset: offset}
}

// ToProcessPayoutResponse converts a domain PayoutResult to ProcessPayoutResponse
func ToProcessPayoutResponse(r *domain.PayoutResult) ProcessPayoutResponse {
	events := make([]EventResponse, len(r.Events))
	for i, e := range r.Events {
		events[i] = EventResponse{Type: string(e.Type), OccurredAt: e.OccurredAt, Payload: e.Payload}
	}
	return ProcessPayoutResponse{
		Payout:   ToPayoutResponse(r.Payout),
		Events:   events,
		Replayed: r.Replayed,
	}
}

// ToPayoutPreviewResponse converts a domain PayoutCalculation to PayoutPreviewResponse
func ToPayoutPreviewResponse(c *domain.PayoutCalculation) PayoutPreviewResponse {
	return PayoutPreviewResponse{
		GrossAmount:         ToMoneyResponse(c.GrossAmount),
		LoanRecoveryAmount:  ToMoneyResponse(c.LoanRecovery),
		NetAmount:           ToMoneyResponse(c.NetAmount),
		RecoveryRate:        c.RecoveryRate.String(),
		LivingWageProtected: c.LivingWageProtected,
	}
}

// ToReconciliationResponse converts a domain ReconciliationReport to ReconciliationResponse
func ToReconciliationResponse(r *domain.ReconciliationReport) ReconciliationResponse {
	return ReconciliationResponse{
		Examined:  r.Examined,
		Completed: r.Completed,
		Failed:    r.Failed,
		Pending:   r.Pending,
		Errors:    r.Errors,
	}
}
