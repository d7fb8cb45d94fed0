package entity

import "github.com/shopspring/decimal"

// OrderItem is an immutable order line.
type OrderItem struct {
	product   Product
	unitPrice Money
	quantity  int
}

func NewOrderItem(product Product, unitPrice Money, quantity int) (OrderItem, error) {
	if quantity <= 0 {
		return OrderItem{}, invalidQuantity(quantity)
	}
	if product == nil {
		return OrderItem{}, invalidIdentifier("", "product")
	}
	return OrderItem{product: product, unitPrice: unitPrice, quantity: quantity}, nil
}

func (i OrderItem) Product() Product { return i.product }
func (i OrderItem) UnitPrice() Money { return i.unitPrice }
func (i OrderItem) Quantity() int    { return i.quantity }

// Subtotal is unit price times quantity.
func (i OrderItem) Subtotal() Money {
	return i.unitPrice.times(decimal.NewFromInt(int64(i.quantity)))
}

// SameProduct reports whether other belongs on the same line: identical
// product identity and currency. Unit price and quantity are ignored.
func (i OrderItem) SameProduct(other OrderItem) bool {
	return i.product.Kind() == other.product.Kind() &&
		i.product.String() == other.product.String() &&
		i.unitPrice.currency == other.unitPrice.currency
}

// MergeQuantity returns a copy with extra added to the quantity. The unit
// price of the receiver is kept.
func (i OrderItem) MergeQuantity(extra int) (OrderItem, error) {
	return NewOrderItem(i.product, i.unitPrice, i.quantity+extra)
}
