package sqlstore

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/repository"
)

// PriceEntry is one row of the product_prices table.
type PriceEntry struct {
	SKU       string          `db:"sku"`
	Currency  string          `db:"currency"`
	UnitPrice decimal.Decimal `db:"unit_price"`
}

// PriceCatalog serves unit prices from the product_prices table.
type PriceCatalog struct {
	db *sqlx.DB
}

var _ repository.PricingService = (*PriceCatalog)(nil)

func NewPriceCatalog(db *sqlx.DB) *PriceCatalog {
	return &PriceCatalog{db: db}
}

func (c *PriceCatalog) GetUnitPrice(ctx context.Context, sku entity.SKU, currency entity.Currency) (entity.Money, error) {
	var amount decimal.Decimal
	err := c.db.GetContext(ctx, &amount,
		c.db.Rebind("SELECT unit_price FROM product_prices WHERE sku = ? AND currency = ?"),
		sku.String(), currency.String())
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Money{}, errors.Wrapf(repository.ErrPriceNotFound, "sku %s in %s", sku, currency)
	}
	if err != nil {
		return entity.Money{}, errors.Wrap(err, "failed to query price")
	}
	return entity.NewMoney(amount, currency)
}

func (c *PriceCatalog) FindAll(ctx context.Context) ([]PriceEntry, error) {
	var entries []PriceEntry
	err := c.db.SelectContext(ctx, &entries, "SELECT sku, currency, unit_price FROM product_prices ORDER BY sku, currency")
	if err != nil {
		return nil, errors.Wrap(err, "failed to query prices")
	}
	return entries, nil
}

// Seed inserts entries when the table is empty and is a no-op otherwise.
func (c *PriceCatalog) Seed(ctx context.Context, entries []PriceEntry) error {
	var count int
	if err := c.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM product_prices"); err != nil {
		return errors.Wrap(err, "failed to count prices")
	}
	if count > 0 {
		return nil
	}

	for _, e := range entries {
		_, err := c.db.ExecContext(ctx,
			c.db.Rebind("INSERT INTO product_prices (sku, currency, unit_price) VALUES (?, ?, ?)"),
			e.SKU, e.Currency, e.UnitPrice)
		if err != nil {
			return errors.Wrapf(err, "failed to seed price %s/%s", e.SKU, e.Currency)
		}
	}
	return nil
}
