package entity

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is a three-letter currency code such as USD or EUR.
type Currency string

// ParseCurrency trims and upper-cases code and checks it is three letters.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.Valid() {
		return "", invalidCurrency(code)
	}
	return c, nil
}

func (c Currency) Valid() bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func (c Currency) String() string { return string(c) }

// Money is an immutable, non-negative amount tagged with a currency.
// Amounts are always held rounded to two decimal places.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney rounds amount half-up to two places.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if amount.IsNegative() {
		return Money{}, invalidAmount(amount)
	}
	if !currency.Valid() {
		return Money{}, invalidCurrency(string(currency))
	}
	return Money{amount: amount.Round(2), currency: currency}, nil
}

// MoneyFromFloat is NewMoney for float input; NaN and infinities are rejected.
func MoneyFromFloat(amount float64, currency Currency) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, invalidAmount(amount)
	}
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// MustMoney parses a decimal string and panics on failure. Intended for
// fixed catalogs and tests.
func MustMoney(amount string, currency Currency) Money {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		panic(err)
	}
	m, err := NewMoney(d, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func ZeroMoney(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, currencyMismatch(m.currency, other.currency)
	}
	return m.plus(other), nil
}

// Multiply scales m by a strictly positive factor.
func (m Money) Multiply(factor decimal.Decimal) (Money, error) {
	if !factor.IsPositive() {
		return Money{}, invalidAmount(factor)
	}
	return m.times(factor), nil
}

func (m Money) MultiplyFloat(factor float64) (Money, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return Money{}, invalidAmount(factor)
	}
	return m.Multiply(decimal.NewFromFloat(factor))
}

func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders e.g. "10.00 USD".
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + string(m.currency)
}

// plus and times skip validation; callers guarantee matching currency and a
// positive factor.
func (m Money) plus(other Money) Money {
	return Money{amount: m.amount.Add(other.amount).Round(2), currency: m.currency}
}

func (m Money) times(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor).Round(2), currency: m.currency}
}
