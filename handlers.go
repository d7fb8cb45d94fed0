package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	delivery "github.com/egannguyen/purchase-orders/internal/delivery/http"
	"github.com/egannguyen/purchase-orders/internal/repository/sqlstore"
	"github.com/egannguyen/purchase-orders/internal/service"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply (or with --down revert) the SQL schema",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "down", Usage: "revert every migration"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			dialect, err := sqlstore.ParseDialect(cfg.Store)
			if err != nil {
				return err
			}
			if c.Bool("down") {
				return sqlstore.MigrateDown(dialect, cfg.DatabaseURL)
			}
			return sqlstore.Migrate(dialect, cfg.DatabaseURL)
		},
	}
}

func createOrderCommand() *cli.Command {
	return &cli.Command{
		Name:      "create-order",
		Usage:     "create an order, optionally with seed lines",
		ArgsUsage: "[SKU:QTY ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Required: true, Usage: "order id"},
			&cli.StringFlag{Name: "currency", Value: "USD"},
		},
		Action: func(c *cli.Context) error {
			lines, err := parseLines(c.Args().Slice())
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			return runUseCase(c, func(svc *service.OrderService) service.OrderResult {
				return svc.CreateOrder(c.Context, service.CreateOrderInput{
					OrderID:  c.String("id"),
					Currency: c.String("currency"),
					Items:    lines,
				})
			})
		},
	}
}

func addItemCommand() *cli.Command {
	return &cli.Command{
		Name:  "add-item",
		Usage: "add a sku to an existing order",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Required: true, Usage: "order id"},
			&cli.StringFlag{Name: "sku", Required: true},
			&cli.IntFlag{Name: "quantity", Value: 1},
		},
		Action: func(c *cli.Context) error {
			return runUseCase(c, func(svc *service.OrderService) service.OrderResult {
				return svc.AddItemToOrder(c.Context, service.AddItemInput{
					OrderID:  c.String("id"),
					SKU:      c.String("sku"),
					Quantity: c.Int("quantity"),
				})
			})
		},
	}
}

// runUseCase wires the app, runs one use case and prints the order view as
// JSON. A failed result exits with a non-zero status.
func runUseCase(c *cli.Context, run func(*service.OrderService) service.OrderResult) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	a, err := newApp(c.Context, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	res := run(a.service)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if order, ok := res.Value(); ok {
		return enc.Encode(service.NewOrderView(order))
	}

	appErr, _ := res.Err()
	return cli.Exit(fmt.Sprintf("%s: %s", appErr.Kind(), appErr.Error()), exitCode(delivery.StatusFor(appErr.Kind())))
}

// exitCode folds an HTTP status into a process exit code.
func exitCode(status int) int {
	if status >= 500 {
		return 3
	}
	return 1
}
