package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string

	ServerPort    int
	PublicBaseURL string
	LogLevel      string

	DatabaseURL string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte

	RedisURL string

	OutboxSink         string
	OutboxPollInterval time.Duration
	RunRelay           bool
	KafkaBrokers       []string
	RabbitMQURL        string

	ESURL      string
	ESUser     string
	ESPassword string

	SMSAllowedSenders []string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "cafeteria"),

		ServerPort:    EnvIntDefault("SERVER_PORT", 8080),
		PublicBaseURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		LogLevel:      os.Getenv("LOG_LEVEL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),

		RedisURL: os.Getenv("REDIS_URL"),

		OutboxSink:         strings.ToLower(EnvDefault("OUTBOX_SINK", "none")),
		OutboxPollInterval: EnvDurationDefault("OUTBOX_POLL_INTERVAL", 2*time.Second),
		RunRelay:           EnvBoolDefault("RUN_RELAY", true),
		KafkaBrokers:       CSV(os.Getenv("KAFKA_BROKERS")),
		RabbitMQURL:        os.Getenv("RABBITMQ_URL"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),

		SMSAllowedSenders: CSV(EnvDefault("SMS_ALLOWED_SENDERS", "+919876543210,+919876543211")),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// EnvDurationDefault accepts Go duration strings ("500ms", "2s").
func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
