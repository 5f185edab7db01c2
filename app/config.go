package app

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DedupModeBytes      = "bytes"
	DedupModeIdentifier = "identifier"
)

// Config is read from RADIUS_* environment variables.
type Config struct {
	// SharedSecret is used for clients that have no secret of their own in Redis.
	SharedSecret string `envconfig:"SHARED_SECRET"`
	Redis        string `envconfig:"REDIS"`

	AuthAddr string `envconfig:"AUTH_ADDR" default:":1812"`
	AcctAddr string `envconfig:"ACCT_ADDR" default:":1813"`

	DedupTTL  time.Duration `envconfig:"DEDUP_TTL" default:"30s"`
	DedupMode string        `envconfig:"DEDUP_MODE" default:"bytes"`

	// Dictionary is an optional YAML file with additional attribute definitions.
	Dictionary string `envconfig:"DICTIONARY"`

	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("RADIUS", &cfg); err != nil {
		return nil, errors.Wrap(err, "unable to load config")
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Redis == "" {
		return errors.New("a redis address is required")
	}
	switch c.DedupMode {
	case DedupModeBytes, DedupModeIdentifier:
	default:
		return errors.Errorf("invalid dedup mode: %q", c.DedupMode)
	}
	if c.DedupTTL <= 0 {
		return errors.Errorf("invalid dedup ttl: %v", c.DedupTTL)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	return nil
}
