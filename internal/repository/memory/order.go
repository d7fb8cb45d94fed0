package memory

import (
	"context"
	"sync"

	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/repository"
)

type snapshot struct {
	currency entity.Currency
	items    []entity.OrderItem
	version  int
}

type orderRepository struct {
	mu     sync.RWMutex
	orders map[string]snapshot
	opts   []entity.OrderOption
}

// NewOrderRepository creates an OrderRepository kept in process memory.
// opts are applied to every order it loads.
func NewOrderRepository(opts ...entity.OrderOption) repository.OrderRepository {
	return &orderRepository{
		orders: make(map[string]snapshot),
		opts:   opts,
	}
}

func (r *orderRepository) FindByID(_ context.Context, id entity.OrderID) (*entity.Order, error) {
	r.mu.RLock()
	snap, ok := r.orders[id.String()]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return entity.RestoreOrder(id, snap.currency, snap.items, snap.version, r.opts...)
}

func (r *orderRepository) Save(_ context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := order.ID().String()
	current := 0
	if snap, ok := r.orders[key]; ok {
		current = snap.version
	}
	if current != order.GetVersion() {
		return repository.ErrConcurrentUpdate
	}

	next := current + 1
	r.orders[key] = snapshot{
		currency: order.Currency(),
		items:    order.Items(),
		version:  next,
	}
	order.SetVersion(next)
	return nil
}

func (r *orderRepository) Exists(_ context.Context, id entity.OrderID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.orders[id.String()]
	return ok, nil
}
