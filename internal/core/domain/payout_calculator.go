package domain

import (
	"fmt"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/shopspring/decimal"
)

// RecoveryPolicy bounds how much of a payout may be withheld for loan recovery.
// Both values are fractions in [0,1]; a cap of 0.30 allows at most 30% of gross.
type RecoveryPolicy struct {
	RecoveryCapPercent     decimal.Decimal
	LivingWageFloorPercent decimal.Decimal
}

// DefaultRecoveryPolicy is a 30% cap with a matching 70% living-wage floor.
func DefaultRecoveryPolicy() RecoveryPolicy {
	return RecoveryPolicy{
		RecoveryCapPercent:     decimal.RequireFromString("0.30"),
		LivingWageFloorPercent: decimal.RequireFromString("0.70"),
	}
}

// Validate checks that both fractions lie within [0,1].
func (p RecoveryPolicy) Validate() error {
	one := decimal.NewFromInt(1)
	if p.RecoveryCapPercent.IsNegative() || p.RecoveryCapPercent.GreaterThan(one) {
		return fmt.Errorf("%w: recovery cap %s must be within [0,1]", apperrors.ErrValidation, p.RecoveryCapPercent)
	}
	if p.LivingWageFloorPercent.IsNegative() || p.LivingWageFloorPercent.GreaterThan(one) {
		return fmt.Errorf("%w: living wage floor %s must be within [0,1]", apperrors.ErrValidation, p.LivingWageFloorPercent)
	}
	return nil
}

// PayoutCalculation is the split of a gross payout into loan recovery and net.
// GrossAmount = LoanRecovery + NetAmount always holds.
type PayoutCalculation struct {
	GrossAmount         Money           `json:"grossAmount"`
	LoanRecovery        Money           `json:"loanRecovery"`
	NetAmount           Money           `json:"netAmount"`
	RecoveryRate        decimal.Decimal `json:"recoveryRate"`
	LivingWageProtected bool            `json:"livingWageProtected"`
}

// CalculatePayout splits a gross collection amount into recovery and net.
// Recovery is min(outstanding, gross × cap), with the cap rounded down to the
// minor unit. It has no side effects.
func CalculatePayout(gross Money, outstanding Money, policy RecoveryPolicy) (PayoutCalculation, error) {
	if err := policy.Validate(); err != nil {
		return PayoutCalculation{}, err
	}
	if gross.IsNegative() {
		return PayoutCalculation{}, fmt.Errorf("%w: collection amount %s is negative", apperrors.ErrValidation, gross)
	}
	if outstanding.IsNegative() {
		return PayoutCalculation{}, fmt.Errorf("%w: outstanding loan balance %s is negative", apperrors.ErrValidation, outstanding)
	}

	// Rounded down so recovery never exceeds the exact gross × cap.
	capAmount := Money{amount: gross.amount.Mul(policy.RecoveryCapPercent).RoundFloor(MinorUnitPrecision), currency: gross.currency}
	recovery, err := MinMoney(outstanding, capAmount)
	if err != nil {
		return PayoutCalculation{}, err
	}
	net, err := gross.Subtract(recovery)
	if err != nil {
		return PayoutCalculation{}, err
	}

	rate := decimal.Zero
	protected := true
	if !gross.IsZero() {
		rate = recovery.Amount().Div(gross.Amount())
		protected = net.Amount().Div(gross.Amount()).GreaterThanOrEqual(policy.LivingWageFloorPercent)
	}

	return PayoutCalculation{
		GrossAmount:         gross,
		LoanRecovery:        recovery,
		NetAmount:           net,
		RecoveryRate:        rate,
		LivingWageProtected: protected,
	}, nil
}
