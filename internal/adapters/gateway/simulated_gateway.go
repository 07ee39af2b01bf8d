package gateway

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/SscSPs/farm_payouts/internal/core/ports/gateways"
	"github.com/SscSPs/farm_payouts/internal/middleware"
	"github.com/google/uuid"
)

// Outcome decides what the simulated rail does with a dispatch. When record is
// false the rail behaves as if the request never arrived. A recorded retryable
// error models a settled transfer whose response was lost; a recorded terminal
// error is a rejection.
type Outcome func(req gateways.DispatchRequest) (record bool, err error)

// Succeed is the default Outcome.
func Succeed(gateways.DispatchRequest) (bool, error) { return true, nil }

type simulatedRecord struct {
	reference string
	state     gateways.DispatchState
	reason    string
}

// SimulatedGateway is an in-process rail for local development and tests.
// Dispatches are idempotent per key.
type SimulatedGateway struct {
	mu      sync.Mutex
	records map[string]simulatedRecord
	outcome Outcome
	latency time.Duration
	calls   int
}

// SimulatedOption configures a SimulatedGateway.
type SimulatedOption func(*SimulatedGateway)

// WithOutcome sets the dispatch behaviour.
func WithOutcome(o Outcome) SimulatedOption {
	return func(g *SimulatedGateway) {
		g.outcome = o
	}
}

// WithLatency delays every dispatch.
func WithLatency(d time.Duration) SimulatedOption {
	return func(g *SimulatedGateway) {
		g.latency = d
	}
}

// NewSimulatedGateway creates a rail that accepts every dispatch unless configured otherwise.
func NewSimulatedGateway(opts ...SimulatedOption) *SimulatedGateway {
	g := &SimulatedGateway{
		records: make(map[string]simulatedRecord),
		outcome: Succeed,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Ensure SimulatedGateway implements gateways.PaymentGateway
var _ gateways.PaymentGateway = (*SimulatedGateway)(nil)

// Dispatch implements gateways.PaymentGateway.
func (g *SimulatedGateway) Dispatch(ctx context.Context, req gateways.DispatchRequest) (gateways.DispatchResult, error) {
	if g.latency > 0 {
		select {
		case <-time.After(g.latency):
		case <-ctx.Done():
			return gateways.DispatchResult{}, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++

	if rec, ok := g.records[req.IdempotencyKey]; ok && rec.state == gateways.DispatchConfirmed {
		return gateways.DispatchResult{GatewayReference: rec.reference}, nil
	}

	record, err := g.outcome(req)
	if err != nil {
		if record {
			if apperrors.IsRetryableGatewayError(err) {
				g.records[req.IdempotencyKey] = simulatedRecord{reference: newSimulatedReference(), state: gateways.DispatchConfirmed}
			} else {
				g.records[req.IdempotencyKey] = simulatedRecord{state: gateways.DispatchRejected, reason: err.Error()}
			}
		}
		return gateways.DispatchResult{}, err
	}

	ref := newSimulatedReference()
	if record {
		g.records[req.IdempotencyKey] = simulatedRecord{reference: ref, state: gateways.DispatchConfirmed}
	}
	middleware.GetLoggerFromCtx(ctx).Info("Simulated disbursement",
		slog.String("idempotency_key", req.IdempotencyKey),
		slog.String("destination", req.Destination.String()),
		slog.String("amount", req.Amount.String()),
		slog.String("gateway_reference", ref),
	)
	return gateways.DispatchResult{GatewayReference: ref}, nil
}

func newSimulatedReference() string {
	return "SIM-" + strings.ToUpper(uuid.NewString()[:8])
}

// Status implements gateways.PaymentGateway.
func (g *SimulatedGateway) Status(_ context.Context, idempotencyKey string) (gateways.DispatchStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.records[idempotencyKey]
	if !ok {
		return gateways.DispatchStatus{State: gateways.DispatchUnknown}, nil
	}
	return gateways.DispatchStatus{State: rec.state, GatewayReference: rec.reference, Reason: rec.reason}, nil
}

// Confirm marks a key as settled, as if the rail completed it out of band.
func (g *SimulatedGateway) Confirm(idempotencyKey, reference string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records[idempotencyKey] = simulatedRecord{reference: reference, state: gateways.DispatchConfirmed}
}

// Calls returns how many dispatches were attempted.
func (g *SimulatedGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
