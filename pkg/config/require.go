package config

import (
	"log"
	"slices"
	"time"
)

// fatalf is swapped in tests.
var fatalf = log.Fatalf

func MustNonEmpty(value, envName string) {
	if value == "" {
		fatalf("config: %s is required", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		fatalf("config: %s is required", envName)
	}
}

func MustOneOf(value, envName string, allowed ...string) {
	if !slices.Contains(allowed, value) {
		fatalf("config: %s=%q, want one of %v", envName, value, allowed)
	}
}

func MustPositive(value time.Duration, envName string) {
	if value <= 0 {
		fatalf("config: %s must be positive, got %s", envName, value)
	}
}
