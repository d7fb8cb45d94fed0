package entity

import "fmt"

// ErrorKind tags a domain rule violation.
type ErrorKind string

const (
	KindInvalidAmount     ErrorKind = "invalid_amount"
	KindInvalidIdentifier ErrorKind = "invalid_identifier"
	KindInvalidQuantity   ErrorKind = "invalid_quantity"
	KindInvalidCurrency   ErrorKind = "invalid_currency"
	KindCurrencyMismatch  ErrorKind = "currency_mismatch"
)

// DomainError is returned by value objects and the Order aggregate when a
// business rule is violated. Two DomainErrors match under errors.Is when
// their kinds are equal, so the Err* sentinels below can be used as targets.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidAmount     = &DomainError{Kind: KindInvalidAmount}
	ErrInvalidIdentifier = &DomainError{Kind: KindInvalidIdentifier}
	ErrInvalidQuantity   = &DomainError{Kind: KindInvalidQuantity}
	ErrInvalidCurrency   = &DomainError{Kind: KindInvalidCurrency}
	ErrCurrencyMismatch  = &DomainError{Kind: KindCurrencyMismatch}
)

func invalidAmount(amount any) error {
	return &DomainError{Kind: KindInvalidAmount, Message: fmt.Sprintf("invalid amount: %v", amount)}
}

func invalidIdentifier(value, label string) error {
	return &DomainError{Kind: KindInvalidIdentifier, Message: fmt.Sprintf("invalid %s identifier: %q", label, value)}
}

func invalidQuantity(quantity int) error {
	return &DomainError{Kind: KindInvalidQuantity, Message: fmt.Sprintf("invalid quantity: %d", quantity)}
}

func invalidCurrency(code string) error {
	return &DomainError{Kind: KindInvalidCurrency, Message: fmt.Sprintf("invalid currency: %q", code)}
}

func currencyMismatch(expected, got Currency) error {
	return &DomainError{
		Kind:    KindCurrencyMismatch,
		Message: fmt.Sprintf("currency mismatch: expected %s, got %s", expected, got),
	}
}
