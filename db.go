package main

import (
	"context"

	"github.com/egannguyen/purchase-orders/internal/pricing"
	"github.com/egannguyen/purchase-orders/internal/repository/memory"
	"github.com/egannguyen/purchase-orders/internal/repository/sqlstore"
)

// openStore selects the order repository and the pricing source, and puts
// the Redis cache in front of pricing when ORDERS_REDIS_ADDR is set.
func (a *app) openStore(ctx context.Context) error {
	if !a.cfg.SQLStore() {
		a.orders = memory.NewOrderRepository(a.orderOptions()...)
		static, err := pricing.NewStatic()
		if err != nil {
			return err
		}
		a.pricing = static
		return a.wrapPriceCache(ctx)
	}

	dialect, err := sqlstore.ParseDialect(a.cfg.Store)
	if err != nil {
		return err
	}
	db, err := sqlstore.Connect(ctx, dialect, a.cfg.DatabaseURL, a.log)
	if err != nil {
		return err
	}
	a.onClose(db.Close)
	a.orders = sqlstore.NewOrderRepository(db, a.orderOptions()...)

	switch a.cfg.Pricing {
	case "sql":
		catalog := sqlstore.NewPriceCatalog(db)
		if err := catalog.Seed(ctx, seedEntries()); err != nil {
			return err
		}
		a.pricing = catalog
	default:
		static, err := pricing.NewStatic()
		if err != nil {
			return err
		}
		a.pricing = static
	}
	return a.wrapPriceCache(ctx)
}

func (a *app) wrapPriceCache(ctx context.Context) error {
	if a.cfg.RedisAddr == "" {
		return nil
	}
	rdb, err := pricing.Dial(ctx, a.cfg.RedisAddr)
	if err != nil {
		return err
	}
	a.onClose(rdb.Close)
	a.pricing = pricing.NewCached(a.pricing, rdb, a.cfg.PriceCacheTTL, a.log)
	a.log.WithField("addr", a.cfg.RedisAddr).Info("Price cache enabled")
	return nil
}

func seedEntries() []sqlstore.PriceEntry {
	defaults := pricing.DefaultPrices()
	entries := make([]sqlstore.PriceEntry, 0, len(defaults))
	for _, e := range defaults {
		entries = append(entries, sqlstore.PriceEntry{
			SKU:       e.SKU,
			Currency:  e.Currency.String(),
			UnitPrice: e.UnitPrice,
		})
	}
	return entries
}
