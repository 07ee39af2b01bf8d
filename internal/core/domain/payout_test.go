package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func calculatingPayout(t *testing.T) *domain.PayoutTransaction {
	t.Helper()
	p := domain.NewPayoutTransaction("col-1", "farmer-1", "agent-1", 1, testNow)
	events, err := p.StartCalculation(testNow)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventPayoutCalculating, events[0].Type)
	return p
}

func sampleCalculation(t *testing.T) domain.PayoutCalculation {
	t.Helper()
	calc, err := domain.CalculatePayout(domain.MustMoney("1000", "KES"), domain.MustMoney("5000", "KES"), domain.DefaultRecoveryPolicy())
	require.NoError(t, err)
	return calc
}

var mobileDestination = domain.PayoutDestination{Method: domain.PayoutMobileMoney, PhoneNumber: "+254700000001"}

func TestPayoutTransaction_HappyPath(t *testing.T) {
	p := calculatingPayout(t)

	events, err := p.ApplyCalculation(sampleCalculation(t), mobileDestination, testNow)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventPayoutAwaitingGateway, events[0].Type)
	assert.Equal(t, domain.PayoutAwaitingGateway, p.Status)
	assert.Equal(t, "700.00 KES", p.NetAmount.String())
	assert.Equal(t, mobileDestination, p.Destination)

	later := testNow.Add(time.Minute)
	events, err = p.Complete("GW-1", later)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventPayoutCompleted, events[0].Type)
	assert.Equal(t, p.PayoutID, events[0].PayoutID)
	assert.Equal(t, domain.PayoutCompleted, p.Status)
	require.NotNil(t, p.GatewayReference)
	assert.Equal(t, "GW-1", *p.GatewayReference)
	assert.Equal(t, later, p.UpdatedAt)
}

func TestPayoutTransaction_NoSkippedStates(t *testing.T) {
	p := domain.NewPayoutTransaction("col-1", "farmer-1", "agent-1", 1, testNow)

	_, err := p.ApplyCalculation(sampleCalculation(t), mobileDestination, testNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	_, err = p.Complete("GW-1", testNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	_, err = p.Fail("boom", false, testNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState, "FAILED is not reachable from PENDING")
	assert.Equal(t, domain.PayoutPending, p.Status)
}

func TestPayoutTransaction_TerminalStatesAreFinal(t *testing.T) {
	p := calculatingPayout(t)
	_, err := p.Fail("destination rejected", false, testNow)
	require.NoError(t, err)
	assert.True(t, p.Status.IsTerminal())

	_, err = p.StartCalculation(testNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	_, err = p.Fail("again", false, testNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	_, err = p.Complete("GW-1", testNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestPayoutTransaction_ApplyCalculationRejectsUnbalancedSplit(t *testing.T) {
	p := calculatingPayout(t)
	calc := sampleCalculation(t)
	calc.NetAmount = domain.MustMoney("600", "KES")

	_, err := p.ApplyCalculation(calc, mobileDestination, testNow)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, domain.PayoutCalculating, p.Status)
}

func TestPayoutTransaction_DispatchUncertain(t *testing.T) {
	p := calculatingPayout(t)
	_, err := p.ApplyCalculation(sampleCalculation(t), mobileDestination, testNow)
	require.NoError(t, err)

	assert.False(t, p.IsReconcilable(testNow, time.Hour))

	events, err := p.MarkDispatchUncertain("timeout", testNow)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventPayoutDispatchUncertain, events[0].Type)
	assert.Equal(t, domain.PayoutAwaitingGateway, p.Status)
	assert.True(t, p.FailureRetryable)
	assert.True(t, p.IsReconcilable(testNow, time.Hour))

	_, err = p.Complete("GW-2", testNow)
	require.NoError(t, err)
	assert.Nil(t, p.FailureReason)
	assert.False(t, p.FailureRetryable)
	assert.False(t, p.IsReconcilable(testNow, time.Hour))
}

func TestPayoutTransaction_IsReconcilableAfterTimeout(t *testing.T) {
	p := calculatingPayout(t)
	_, err := p.ApplyCalculation(sampleCalculation(t), mobileDestination, testNow)
	require.NoError(t, err)

	assert.False(t, p.IsReconcilable(testNow.Add(4*time.Minute), 5*time.Minute))
	assert.True(t, p.IsReconcilable(testNow.Add(5*time.Minute), 5*time.Minute))
}

func TestPayoutTransaction_DispatchWindowElapsed(t *testing.T) {
	p := calculatingPayout(t)
	_, err := p.ApplyCalculation(sampleCalculation(t), mobileDestination, testNow)
	require.NoError(t, err)
	assert.False(t, p.DispatchWindowElapsed(testNow.Add(time.Minute), 5*time.Minute))
	assert.True(t, p.DispatchWindowElapsed(testNow.Add(5*time.Minute), 5*time.Minute), "counted from UpdatedAt before dispatch")

	dispatchedAt := testNow.Add(time.Minute)
	p.MarkDispatched(dispatchedAt)
	_, err = p.MarkDispatchUncertain("read timeout", dispatchedAt.Add(30*time.Second))
	require.NoError(t, err)

	assert.True(t, p.IsReconcilable(dispatchedAt.Add(time.Second), 5*time.Minute), "a retryable failure is checked with the gateway at once")
	assert.False(t, p.DispatchWindowElapsed(dispatchedAt.Add(4*time.Minute), 5*time.Minute))
	assert.True(t, p.DispatchWindowElapsed(dispatchedAt.Add(5*time.Minute), 5*time.Minute))
}

func TestFarmer_PayoutDestination(t *testing.T) {
	mobile := domain.Farmer{FarmerID: "f1", PayoutMethod: domain.PayoutMobileMoney, PhoneNumber: "+254700000001"}
	dest, err := mobile.PayoutDestination()
	require.NoError(t, err)
	assert.Equal(t, "mobile:****0001", dest.String())

	bank := domain.Farmer{FarmerID: "f2", PayoutMethod: domain.PayoutBank, BankCode: "01", BankAccountNumber: "1234567890"}
	dest, err = bank.PayoutDestination()
	require.NoError(t, err)
	assert.Equal(t, "bank:01/****7890", dest.String())

	_, err = domain.Farmer{FarmerID: "f3", PayoutMethod: domain.PayoutBank, BankCode: "01"}.PayoutDestination()
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = domain.Farmer{FarmerID: "f4", PayoutMethod: domain.PayoutMobileMoney}.PayoutDestination()
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = domain.Farmer{FarmerID: "f5"}.PayoutDestination()
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
