package pricing

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/repository"
)

// Entry is a single catalog price.
type Entry struct {
	SKU       string
	Currency  entity.Currency
	UnitPrice decimal.Decimal
}

var defaultCatalog = map[string]map[entity.Currency]string{
	"LAPTOP001":     {"USD": "999.99", "EUR": "899.99", "MXN": "19999.99"},
	"MOUSE001":      {"USD": "29.99", "EUR": "24.99", "MXN": "599.99"},
	"KEYBOARD001":   {"USD": "79.99", "EUR": "69.99", "MXN": "1599.99"},
	"MONITOR001":    {"USD": "299.99", "EUR": "269.99", "MXN": "5999.99"},
	"HEADPHONES001": {"USD": "149.99", "EUR": "129.99", "MXN": "2999.99"},
}

// DefaultPrices returns the built-in catalog sorted by sku and currency.
func DefaultPrices() []Entry {
	var entries []Entry
	for sku, prices := range defaultCatalog {
		for cur, amount := range prices {
			entries = append(entries, Entry{SKU: sku, Currency: cur, UnitPrice: decimal.RequireFromString(amount)})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SKU != entries[j].SKU {
			return entries[i].SKU < entries[j].SKU
		}
		return entries[i].Currency < entries[j].Currency
	})
	return entries
}

// Static serves prices from an in-memory catalog.
type Static struct {
	prices map[string]map[entity.Currency]entity.Money
}

var _ repository.PricingService = (*Static)(nil)

// NewStatic builds a catalog from entries; with no entries it uses DefaultPrices.
func NewStatic(entries ...Entry) (*Static, error) {
	if len(entries) == 0 {
		entries = DefaultPrices()
	}
	s := &Static{prices: make(map[string]map[entity.Currency]entity.Money)}
	for _, e := range entries {
		sku, err := entity.NewSKU(e.SKU)
		if err != nil {
			return nil, err
		}
		price, err := entity.NewMoney(e.UnitPrice, e.Currency)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid price for %s", sku)
		}
		if s.prices[sku.String()] == nil {
			s.prices[sku.String()] = make(map[entity.Currency]entity.Money)
		}
		s.prices[sku.String()][price.Currency()] = price
	}
	return s, nil
}

func (s *Static) GetUnitPrice(_ context.Context, sku entity.SKU, currency entity.Currency) (entity.Money, error) {
	byCurrency, ok := s.prices[sku.String()]
	if !ok {
		return entity.Money{}, errors.Wrapf(repository.ErrPriceNotFound, "sku %s", sku)
	}
	price, ok := byCurrency[currency]
	if !ok {
		return entity.Money{}, errors.Wrapf(repository.ErrPriceNotFound, "sku %s in %s", sku, currency)
	}
	return price, nil
}
