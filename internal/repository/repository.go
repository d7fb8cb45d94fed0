package repository

import (
	"context"
	"errors"
	"time"

	"github.com/egannguyen/purchase-orders/internal/entity"
)

// ErrOrderNotFound is returned by OrderRepository.FindByID when no order is stored under the id.
var ErrOrderNotFound = errors.New("order not found")

// ErrPriceNotFound is returned by PricingService when the catalog has no
// price for the sku/currency pair.
var ErrPriceNotFound = errors.New("price not found")

// ErrConcurrentUpdate is returned by OrderRepository.Save when the stored
// version differs from the version the order was loaded with.
var ErrConcurrentUpdate error = concurrentUpdateError{}

type concurrentUpdateError struct{}

func (concurrentUpdateError) Error() string  { return "order was modified concurrently" }
func (concurrentUpdateError) Conflict() bool { return true }

// OrderRepository handles persistence for Orders.
type OrderRepository interface {
	FindByID(ctx context.Context, id entity.OrderID) (*entity.Order, error)
	// Save stores the order and bumps its version. Saving a new order under
	// an id that is already taken fails with ErrConcurrentUpdate.
	Save(ctx context.Context, order *entity.Order) error
	Exists(ctx context.Context, id entity.OrderID) (bool, error)
}

// PricingService looks up catalog prices.
type PricingService interface {
	GetUnitPrice(ctx context.Context, sku entity.SKU, currency entity.Currency) (entity.Money, error)
}

// Clock supplies the time used to stamp domain events.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
