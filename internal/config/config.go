package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envPrefix = "orders"

// Config is read from ORDERS_* environment variables.
type Config struct {
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	Store       string `envconfig:"STORE" default:"memory"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	Pricing       string        `envconfig:"PRICING" default:"static"`
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	PriceCacheTTL time.Duration `envconfig:"PRICE_CACHE_TTL" default:"5m"`

	Bus          string   `envconfig:"BUS" default:"inproc"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"orders.events"`
	KafkaGroup   string   `envconfig:"KAFKA_GROUP" default:"purchase-orders"`
}

// Load reads the environment. It does not validate, so callers can apply
// overrides first and call Validate on the result.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to load config")
	}
	return c, nil
}

// Validate checks the enumerated settings and their dependencies.
func (c Config) Validate() error {
	switch c.Store {
	case "memory":
	case "postgres", "mysql", "sqlite":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.Errorf("ORDERS_DATABASE_URL is required for store %q", c.Store)
		}
	default:
		return errors.Errorf("unknown store %q", c.Store)
	}

	switch c.Pricing {
	case "static":
	case "sql":
		if c.Store == "memory" {
			return errors.New("sql pricing needs a sql store")
		}
	default:
		return errors.Errorf("unknown pricing %q", c.Pricing)
	}

	switch c.Bus {
	case "noop", "inproc":
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return errors.New("ORDERS_KAFKA_BROKERS is required for the kafka bus")
		}
	default:
		return errors.Errorf("unknown bus %q", c.Bus)
	}
	return nil
}

// SQLStore reports whether orders live in a SQL database.
func (c Config) SQLStore() bool {
	return c.Store != "memory"
}
