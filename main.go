package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/egannguyen/purchase-orders/internal/config"
)

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("purchase-orders failed")
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "purchase-orders",
		Usage: "purchase order service",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "store", Usage: "memory, postgres, mysql or sqlite (overrides ORDERS_STORE)"},
			&cli.StringFlag{Name: "database-url", Usage: "SQL DSN (overrides ORDERS_DATABASE_URL)"},
			&cli.StringFlag{Name: "bus", Usage: "noop, inproc or kafka (overrides ORDERS_BUS)"},
			&cli.StringFlag{Name: "log-level", Usage: "overrides ORDERS_LOG_LEVEL"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			createOrderCommand(),
			addItemCommand(),
		},
	}
}

// loadConfig reads the environment, applies command line overrides and
// validates the result.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if c.IsSet("store") {
		cfg.Store = c.String("store")
	}
	if c.IsSet("database-url") {
		cfg.DatabaseURL = c.String("database-url")
	}
	if c.IsSet("bus") {
		cfg.Bus = c.String("bus")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("addr") {
		cfg.HTTPAddr = c.String("addr")
	}
	return cfg, cfg.Validate()
}
