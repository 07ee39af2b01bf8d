package gateways

import (
	"context"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
)

// DispatchRequest asks the payment rail to move Amount to Destination.
// IdempotencyKey is stable across retries of the same payout attempt.
type DispatchRequest struct {
	IdempotencyKey string
	Destination    domain.PayoutDestination
	Amount         domain.Money
	Narration      string
}

// DispatchResult is returned once the gateway has accepted the funds.
type DispatchResult struct {
	GatewayReference string
}

// DispatchState is the gateway's view of an earlier dispatch.
type DispatchState string

const (
	DispatchConfirmed DispatchState = "CONFIRMED"
	DispatchRejected  DispatchState = "REJECTED"
	DispatchUnknown   DispatchState = "UNKNOWN" // the gateway never saw the key
	DispatchInFlight  DispatchState = "IN_FLIGHT"
)

// DispatchStatus answers a reconciliation query.
type DispatchStatus struct {
	State            DispatchState
	GatewayReference string
	Reason           string
}

// PaymentGateway moves money to farmers. Errors are *apperrors.GatewayError,
// flagged Retryable for network and timeout failures.
type PaymentGateway interface {
	Dispatch(ctx context.Context, req DispatchRequest) (DispatchResult, error)
	Status(ctx context.Context, idempotencyKey string) (DispatchStatus, error)
}
