package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/egannguyen/purchase-orders/internal/apperr"
	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/messaging"
	"github.com/egannguyen/purchase-orders/internal/metrics"
	"github.com/egannguyen/purchase-orders/internal/repository"
	"github.com/egannguyen/purchase-orders/internal/result"
)

const resourceOrder = "order"

// OrderResult is what every order use case returns.
type OrderResult = result.Result[*entity.Order, apperr.AppError]

// LineInput is one requested line: a sku and how many units.
type LineInput struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type CreateOrderInput struct {
	OrderID  string      `json:"order_id"`
	Currency string      `json:"currency"`
	Items    []LineInput `json:"items,omitempty"`
}

type AddItemInput struct {
	OrderID  string `json:"order_id"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// OrderService orchestrates the order use cases.
type OrderService struct {
	orders  repository.OrderRepository
	pricing repository.PricingService
	bus     messaging.EventBus
	clock   repository.Clock
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

func NewOrderService(
	orders repository.OrderRepository,
	pricing repository.PricingService,
	bus messaging.EventBus,
	clock repository.Clock,
	log logrus.FieldLogger,
	m *metrics.Metrics,
) *OrderService {
	if clock == nil {
		clock = repository.SystemClock{}
	}
	if m == nil {
		m = metrics.New()
	}
	return &OrderService{
		orders:  orders,
		pricing: pricing,
		bus:     bus,
		clock:   clock,
		log:     log.WithField("service", "orders"),
		metrics: m,
	}
}

// CreateOrder opens a new order and prices its seed lines. Either every
// line is accepted and the order is stored, or nothing is stored.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) OrderResult {
	return s.run("create_order", in.OrderID, func() (*entity.Order, error) {
		id, err := entity.NewOrderID(in.OrderID)
		if err != nil {
			return nil, err
		}
		currency, err := entity.ParseCurrency(in.Currency)
		if err != nil {
			return nil, err
		}
		exists, err := s.orders.Exists(ctx, id)
		if err != nil {
			return nil, errors.Wrap(err, "failed to check order")
		}
		if exists {
			return nil, &apperr.Conflict{
				Message:  fmt.Sprintf("order %s already exists", id),
				Resource: resourceOrder,
				ID:       id.String(),
			}
		}
		order, err := entity.NewOrder(id, currency, entity.WithClock(s.clock.Now))
		if err != nil {
			return nil, err
		}

		for _, line := range in.Items {
			if err := s.addLine(ctx, order, currency, line.SKU, line.Quantity); err != nil {
				return nil, err
			}
		}
		return order, s.commit(ctx, order)
	})
}

// AddItemToOrder prices a sku in the order's currency and adds it,
// merging with an existing line for the same product.
func (s *OrderService) AddItemToOrder(ctx context.Context, in AddItemInput) OrderResult {
	return s.run("add_item_to_order", in.OrderID, func() (*entity.Order, error) {
		order, err := s.load(ctx, in.OrderID)
		if err != nil {
			return nil, err
		}

		currency := order.Total().Currency()
		if err := s.addLine(ctx, order, currency, in.SKU, in.Quantity); err != nil {
			return nil, err
		}
		return order, s.commit(ctx, order)
	})
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) OrderResult {
	return s.run("get_order", orderID, func() (*entity.Order, error) {
		return s.load(ctx, orderID)
	})
}

func (s *OrderService) load(ctx context.Context, rawID string) (*entity.Order, error) {
	id, err := entity.NewOrderID(rawID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, &apperr.NotFound{Resource: resourceOrder, ID: id.String()}
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load order")
	}
	return order, nil
}

func (s *OrderService) addLine(ctx context.Context, order *entity.Order, currency entity.Currency, rawSKU string, quantity int) error {
	sku, err := entity.NewSKU(rawSKU)
	if err != nil {
		return err
	}
	price, err := s.pricing.GetUnitPrice(ctx, sku, currency)
	if err != nil {
		return err
	}
	item, err := entity.NewOrderItem(sku, price, quantity)
	if err != nil {
		return err
	}
	return order.AddItem(item)
}

// commit drains the order's events, stores the order and then publishes
// the events in the order they were recorded.
func (s *OrderService) commit(ctx context.Context, order *entity.Order) error {
	events := order.PullEvents()
	if err := s.orders.Save(ctx, order); err != nil {
		return err
	}
	if err := s.bus.Publish(ctx, events); err != nil {
		return errors.Wrap(err, "failed to publish order events")
	}
	return nil
}

// run wraps every use case. Panics become Infra, and any other failure is
// mapped exactly once through apperr.Map.
func (s *OrderService) run(useCase, orderID string, fn func() (*entity.Order, error)) (res OrderResult) {
	start := time.Now()
	log := s.log.WithFields(logrus.Fields{"use_case": useCase, "order_id": orderID})
	log.Info("Executing use case")

	defer func() {
		if r := recover(); r != nil {
			res = s.fail(log, useCase, start, &apperr.Infra{
				Message: "unexpected error",
				Cause:   errors.Errorf("panic: %v", r),
			})
		}
	}()

	order, err := fn()
	if err != nil {
		return s.fail(log, useCase, start, apperr.Map(err, resourceOrder, orderID))
	}

	s.metrics.ObserveUseCase(useCase, "ok", time.Since(start))
	log.WithField("items", len(order.Items())).Info("Use case succeeded")
	return result.Ok[*entity.Order, apperr.AppError](order)
}

func (s *OrderService) fail(log logrus.FieldLogger, useCase string, start time.Time, appErr apperr.AppError) OrderResult {
	s.metrics.ObserveUseCase(useCase, string(appErr.Kind()), time.Since(start))

	entry := log.WithFields(logrus.Fields{"kind": appErr.Kind(), "err": appErr.Error()})
	if appErr.Kind() == apperr.KindInfra {
		entry.Error("Use case failed")
	} else {
		entry.Warn("Use case rejected")
	}
	return result.Fail[*entity.Order](appErr)
}
