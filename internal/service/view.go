package service

import "github.com/egannguyen/purchase-orders/internal/entity"

// OrderView is the serialisable read shape of an order.
type OrderView struct {
	ID       string     `json:"id"`
	Currency string     `json:"currency"`
	Items    []ItemView `json:"items"`
	Total    string     `json:"total"`
}

type ItemView struct {
	SKU       string `json:"sku"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

func NewOrderView(o *entity.Order) OrderView {
	items := o.Items()
	view := OrderView{
		ID:       o.ID().String(),
		Currency: o.Currency().String(),
		Items:    make([]ItemView, 0, len(items)),
		Total:    o.Total().Amount().StringFixed(2),
	}
	for _, it := range items {
		view.Items = append(view.Items, ItemView{
			SKU:       it.Product().String(),
			UnitPrice: it.UnitPrice().Amount().StringFixed(2),
			Quantity:  it.Quantity(),
			Subtotal:  it.Subtotal().Amount().StringFixed(2),
		})
	}
	return view
}
