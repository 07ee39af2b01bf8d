package gateway_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/farm_payouts/internal/adapters/gateway"
	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/SscSPs/farm_payouts/internal/core/ports/gateways"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedGateway_DispatchIsIdempotent(t *testing.T) {
	g := gateway.NewSimulatedGateway()

	first, err := g.Dispatch(context.Background(), dispatchRequest("KES"))
	require.NoError(t, err)
	assert.Regexp(t, `^SIM-[0-9A-F]{8}$`, first.GatewayReference)

	second, err := g.Dispatch(context.Background(), dispatchRequest("KES"))
	require.NoError(t, err)
	assert.Equal(t, first.GatewayReference, second.GatewayReference)
	assert.Equal(t, 2, g.Calls())

	status, err := g.Status(context.Background(), "payout-123")
	require.NoError(t, err)
	assert.Equal(t, gateways.DispatchConfirmed, status.State)
	assert.Equal(t, first.GatewayReference, status.GatewayReference)
}

func TestSimulatedGateway_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		outcome   gateway.Outcome
		wantState gateways.DispatchState
	}{
		{"lost response", func(gateways.DispatchRequest) (bool, error) {
			return true, apperrors.NewRetryableGatewayError("timeout", nil)
		}, gateways.DispatchConfirmed},
		{"never arrived", func(gateways.DispatchRequest) (bool, error) {
			return false, apperrors.NewRetryableGatewayError("connection refused", nil)
		}, gateways.DispatchUnknown},
		{"rejected", func(gateways.DispatchRequest) (bool, error) {
			return true, apperrors.NewTerminalGatewayError("invalid msisdn", nil)
		}, gateways.DispatchRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gateway.NewSimulatedGateway(gateway.WithOutcome(tt.outcome))
			_, err := g.Dispatch(context.Background(), dispatchRequest("KES"))
			require.Error(t, err)

			status, err := g.Status(context.Background(), "payout-123")
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, status.State)
		})
	}
}

func TestSimulatedGateway_ConfirmAndLatency(t *testing.T) {
	g := gateway.NewSimulatedGateway(gateway.WithLatency(time.Hour))
	g.Confirm("payout-123", "OUT-OF-BAND")

	status, err := g.Status(context.Background(), "payout-123")
	require.NoError(t, err)
	assert.Equal(t, "OUT-OF-BAND", status.GatewayReference)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = g.Dispatch(ctx, dispatchRequest("KES"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
