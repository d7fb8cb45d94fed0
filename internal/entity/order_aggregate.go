package entity

import "time"

// Order is the purchase-order aggregate root. It owns its line items and
// the buffer of events recorded while mutating them. An Order is not safe
// for concurrent use.
type Order struct {
	AggregateBase
	id       OrderID
	currency Currency
	items    []OrderItem
	now      func() time.Time
}

var _ Aggregate = (*Order)(nil)

type OrderOption func(*Order)

// WithClock sets the time source used to stamp recorded events.
func WithClock(now func() time.Time) OrderOption {
	return func(o *Order) {
		if now != nil {
			o.now = now
		}
	}
}

func newOrder(id OrderID, currency Currency, opts []OrderOption) (*Order, error) {
	if id.IsZero() {
		return nil, invalidIdentifier("", "order")
	}
	if !currency.Valid() {
		return nil, invalidCurrency(string(currency))
	}
	o := &Order{id: id, currency: currency, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// NewOrder creates an empty order and records OrderCreated.
func NewOrder(id OrderID, currency Currency, opts ...OrderOption) (*Order, error) {
	o, err := newOrder(id, currency, opts)
	if err != nil {
		return nil, err
	}
	o.record(OrderCreated{
		OrderID:   id.String(),
		Currency:  currency.String(),
		Timestamp: o.now(),
	})
	return o, nil
}

// RestoreOrder rebuilds a persisted order without recording events.
// Items sharing a product are merged, so a restored order always satisfies
// the one-line-per-product invariant.
func RestoreOrder(id OrderID, currency Currency, items []OrderItem, version int, opts ...OrderOption) (*Order, error) {
	o, err := newOrder(id, currency, opts)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.unitPrice.currency != currency {
			return nil, currencyMismatch(currency, item.unitPrice.currency)
		}
		if err := o.place(item); err != nil {
			return nil, err
		}
	}
	o.SetVersion(version)
	return o, nil
}

func (o *Order) GetAggregateID() string { return o.id.String() }
func (o *Order) ID() OrderID            { return o.id }
func (o *Order) Currency() Currency     { return o.currency }

// Items returns a copy of the order lines in insertion order.
func (o *Order) Items() []OrderItem {
	items := make([]OrderItem, len(o.items))
	copy(items, o.items)
	return items
}

// AddItem adds item to the order, merging its quantity into an existing line
// for the same product. The line keeps the unit price it was first added
// with. On success ItemAddedToOrder and OrderTotalRecalculated are recorded.
func (o *Order) AddItem(item OrderItem) error {
	if item.unitPrice.currency != o.currency {
		return currencyMismatch(o.currency, item.unitPrice.currency)
	}
	if err := o.place(item); err != nil {
		return err
	}

	at := o.now()
	o.record(ItemAddedToOrder{
		OrderID:   o.id.String(),
		ProductID: item.product.String(),
		Quantity:  item.quantity,
		Timestamp: at,
	})
	total := o.Total()
	o.record(OrderTotalRecalculated{
		OrderID:   o.id.String(),
		Total:     total.amount,
		Currency:  total.currency.String(),
		Timestamp: at,
	})
	return nil
}

func (o *Order) place(item OrderItem) error {
	for i, existing := range o.items {
		if !existing.SameProduct(item) {
			continue
		}
		merged, err := existing.MergeQuantity(item.quantity)
		if err != nil {
			return err
		}
		o.items[i] = merged
		return nil
	}
	o.items = append(o.items, item)
	return nil
}

// Total sums the subtotals of all lines. It is recomputed on every call.
func (o *Order) Total() Money {
	total := ZeroMoney(o.currency)
	for _, item := range o.items {
		total = total.plus(item.Subtotal())
	}
	return total
}
