package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MinorUnitPrecision is the number of fraction digits used for currency operations.
const MinorUnitPrecision int32 = 2

// ErrCurrencyMismatch is returned when two Money values with different currencies are combined.
var ErrCurrencyMismatch = errors.New("currency mismatch")

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

var hundred = decimal.NewFromInt(100)

// Money is an immutable exact decimal amount tagged with a currency code.
// Every operation returns a new value; the receiver is never modified.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a Money value from a decimal amount.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if err := validateCurrencyCode(currency); err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString parses a numeric string such as "1000.50".
func NewMoneyFromString(amount string, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: amount %q is not a valid number", apperrors.ErrValidation, amount)
	}
	return NewMoney(d, currency)
}

// NewMoneyFromFloat converts a float amount. NaN and infinities are rejected.
func NewMoneyFromFloat(amount float64, currency string) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, fmt.Errorf("%w: amount must be a finite number", apperrors.ErrValidation)
	}
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) (Money, error) {
	return NewMoney(decimal.Zero, currency)
}

// MustMoney is NewMoneyFromString that panics on error. Intended for constants and tests.
func MustMoney(amount string, currency string) Money {
	m, err := NewMoneyFromString(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func validateCurrencyCode(currency string) error {
	if !currencyCodePattern.MatchString(currency) {
		return fmt.Errorf("%w: currency code %q must be 3 upper-case letters", apperrors.ErrValidation, currency)
	}
	return nil
}

// Amount returns the exact decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the ISO-4217 style currency code.
func (m Money) Currency() string {
	return m.currency
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %w: %s vs %s", apperrors.ErrValidation, ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns m - other. The result may be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Multiply scales the amount by a dimensionless factor. No rounding is applied.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Divide divides the amount by divisor, rounded half-up to the minor unit.
func (m Money) Divide(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, fmt.Errorf("%w: division by zero", apperrors.ErrValidation)
	}
	return Money{amount: m.amount.DivRound(divisor, MinorUnitPrecision), currency: m.currency}, nil
}

// Percentage returns amount × percent / 100 rounded half-up to the minor unit.
func (m Money) Percentage(percent decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(percent).Div(hundred).Round(MinorUnitPrecision), currency: m.currency}
}

// IsGreaterThan reports whether m > other.
func (m Money) IsGreaterThan(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

// IsLessThan reports whether m < other.
func (m Money) IsLessThan(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

// Equals reports whether both values have the same currency and numerically equal amounts.
func (m Money) Equals(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.Equal(other.amount), nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// MinMoney returns the smaller of a and b.
func MinMoney(a, b Money) (Money, error) {
	less, err := b.IsLessThan(a)
	if err != nil {
		return Money{}, err
	}
	if less {
		return b, nil
	}
	return a, nil
}

// String renders the amount at minor-unit precision, e.g. "1000.00 KES".
func (m Money) String() string {
	return m.amount.StringFixed(MinorUnitPrecision) + " " + m.currency
}

type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// MarshalJSON renders {"amount":"1000.00","currency":"KES"}.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.StringFixed(MinorUnitPrecision), Currency: m.currency})
}

// UnmarshalJSON accepts the amount either as a JSON string or a JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount   json.RawMessage `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	amount := string(raw.Amount)
	var quoted string
	if err := json.Unmarshal(raw.Amount, &quoted); err == nil {
		amount = quoted
	}
	parsed, err := NewMoneyFromString(amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
