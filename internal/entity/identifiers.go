package entity

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const minIdentifierLength = 3

func normalizeIdentifier(raw, label string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" || utf8.RuneCountInString(v) < minIdentifierLength {
		return "", invalidIdentifier(raw, label)
	}
	return v, nil
}

// OrderID identifies an Order.
type OrderID struct {
	value string
}

func NewOrderID(raw string) (OrderID, error) {
	v, err := normalizeIdentifier(raw, "order")
	if err != nil {
		return OrderID{}, err
	}
	return OrderID{value: v}, nil
}

func (id OrderID) String() string { return id.value }
func (id OrderID) IsZero() bool   { return id.value == "" }

// Product is the identity a line item is sold under. SKU and ProductID both
// implement it; two products are the same line only if kind and value match.
type Product interface {
	fmt.Stringer
	Kind() ProductKind
}

type ProductKind string

const (
	ProductKindSKU ProductKind = "sku"
	ProductKindID  ProductKind = "product_id"
)

// ParseProduct rebuilds a Product from its stored kind and value.
func ParseProduct(kind ProductKind, value string) (Product, error) {
	switch kind {
	case ProductKindSKU:
		return NewSKU(value)
	case ProductKindID:
		return NewProductID(value)
	default:
		return nil, invalidIdentifier(value, string(kind))
	}
}

// ProductID is a catalog product identity, kept case-sensitive.
type ProductID struct {
	value string
}

func NewProductID(raw string) (ProductID, error) {
	v, err := normalizeIdentifier(raw, "product")
	if err != nil {
		return ProductID{}, err
	}
	return ProductID{value: v}, nil
}

func (id ProductID) String() string    { return id.value }
func (id ProductID) Kind() ProductKind { return ProductKindID }

// SKU is a stock keeping unit. Values are upper-cased so casing variants
// resolve to one identity.
type SKU struct {
	value string
}

func NewSKU(raw string) (SKU, error) {
	v, err := normalizeIdentifier(raw, "sku")
	if err != nil {
		return SKU{}, err
	}
	return SKU{value: strings.ToUpper(v)}, nil
}

func (s SKU) String() string        { return s.value }
func (s SKU) Kind() ProductKind     { return ProductKindSKU }
func (s SKU) Equals(other SKU) bool { return s.value == other.value }
