package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/egannguyen/purchase-orders/internal/config"
	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/logger"
	"github.com/egannguyen/purchase-orders/internal/messaging"
	"github.com/egannguyen/purchase-orders/internal/messaging/kafka"
	"github.com/egannguyen/purchase-orders/internal/metrics"
	"github.com/egannguyen/purchase-orders/internal/repository"
	"github.com/egannguyen/purchase-orders/internal/service"
)

// app holds the wired components for one process.
type app struct {
	cfg     config.Config
	log     *logrus.Logger
	metrics *metrics.Metrics
	clock   repository.Clock

	orders  repository.OrderRepository
	pricing repository.PricingService
	bus     messaging.EventBus
	kafka   *kafka.Bus
	service *service.OrderService

	closers []func() error
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(),
		clock:   repository.SystemClock{},
	}

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.openBus(); err != nil {
		a.Close()
		return nil, err
	}

	a.service = service.NewOrderService(a.orders, a.pricing, a.bus, a.clock, a.log, a.metrics)
	return a, nil
}

func (a *app) orderOptions() []entity.OrderOption {
	return []entity.OrderOption{entity.WithClock(a.clock.Now)}
}

func (a *app) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.WithError(err).Warn("Failed to release resource")
		}
	}
	a.closers = nil
}
