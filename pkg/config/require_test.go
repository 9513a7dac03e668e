package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMust(t *testing.T) {
	var failures []string
	orig := fatalf
	fatalf = func(format string, args ...any) { failures = append(failures, fmt.Sprintf(format, args...)) }
	t.Cleanup(func() { fatalf = orig })

	MustNonEmpty("x", "A")
	MustNonEmptyBytes([]byte("x"), "B")
	MustOneOf("kafka", "C", "none", "kafka")
	MustPositive(time.Second, "D")
	assert.Empty(t, failures)

	MustNonEmpty("", "DATABASE_URL")
	MustNonEmptyBytes(nil, "JWT_SECRET")
	MustOneOf("nats", "OUTBOX_SINK", "none", "kafka")
	MustPositive(0, "OUTBOX_POLL_INTERVAL")
	assert.Equal(t, []string{
		"config: DATABASE_URL is required",
		"config: JWT_SECRET is required",
		`config: OUTBOX_SINK="nats", want one of [none kafka]`,
		"config: OUTBOX_POLL_INTERVAL must be positive, got 0s",
	}, failures)
}
