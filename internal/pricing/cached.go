package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/repository"
)

const keyPrefix = "orders:price:"

// Cached fronts another PricingService with a Redis read-through cache.
// Redis failures are logged and the lookup falls through to next.
type Cached struct {
	next repository.PricingService
	rdb  redis.Cmdable
	ttl  time.Duration
	log  logrus.FieldLogger
}

var _ repository.PricingService = (*Cached)(nil)

func NewCached(next repository.PricingService, rdb redis.Cmdable, ttl time.Duration, log logrus.FieldLogger) *Cached {
	return &Cached{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.WithField("component", "price_cache"),
	}
}

func cacheKey(sku entity.SKU, currency entity.Currency) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, sku, currency)
}

func (c *Cached) GetUnitPrice(ctx context.Context, sku entity.SKU, currency entity.Currency) (entity.Money, error) {
	key := cacheKey(sku, currency)

	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		amount, perr := decimal.NewFromString(raw)
		if perr == nil {
			return entity.NewMoney(amount, currency)
		}
		c.log.WithError(perr).WithField("key", key).Warn("Discarding malformed cached price")
	case err != redis.Nil:
		c.log.WithError(err).WithField("key", key).Warn("Price cache unavailable")
	}

	price, err := c.next.GetUnitPrice(ctx, sku, currency)
	if err != nil {
		return entity.Money{}, err
	}
	if err := c.rdb.Set(ctx, key, price.Amount().StringFixed(2), c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("Failed to cache price")
	}
	return price, nil
}

// Dial connects to Redis and verifies the connection.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	return rdb, nil
}
