package config

import (
	"strconv"

	"github.com/Skotchmaster/campus_cafeteria/pkg/config"
)

const (
	SinkNone     = "none"
	SinkKafka    = "kafka"
	SinkRabbitMQ = "rabbitmq"
)

type ServiceConfig struct {
	config.Config
}

// Load returns the settings of the HTTP service.
func Load() ServiceConfig {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")
	mustSink(cfg)

	return ServiceConfig{Config: cfg}
}

// LoadRelay returns the settings of the standalone outbox relay.
func LoadRelay() ServiceConfig {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	mustSink(cfg)

	return ServiceConfig{Config: cfg}
}

// LoadCLI returns the settings of one-shot admin commands.
func LoadCLI() ServiceConfig {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	return ServiceConfig{Config: cfg}
}

func mustSink(cfg config.Config) {
	config.MustPositive(cfg.OutboxPollInterval, "OUTBOX_POLL_INTERVAL")
	config.MustOneOf(cfg.OutboxSink, "OUTBOX_SINK", SinkNone, SinkKafka, SinkRabbitMQ)
	switch cfg.OutboxSink {
	case SinkKafka:
		if len(cfg.KafkaBrokers) == 0 {
			config.MustNonEmpty("", "KAFKA_BROKERS")
		}
	case SinkRabbitMQ:
		config.MustNonEmpty(cfg.RabbitMQURL, "RABBITMQ_URL")
	}
}

func (c ServiceConfig) SearchEnabled() bool { return c.ESURL != "" }

func (c ServiceConfig) Addr() string { return ":" + strconv.Itoa(c.ServerPort) }
