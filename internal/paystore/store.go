// Package paystore keeps pending payment intents between checkout and the
// payment callback.
package paystore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
)

const DefaultTTL = 30 * time.Minute

var ErrIntentNotFound = errors.New("payment intent not found")

type Intent struct {
	Token          string                    `json:"token"`
	GatewayOrderID string                    `json:"gateway_order_id"`
	OrderID        string                    `json:"order_id"`
	StudentID      string                    `json:"student_id"`
	Name           string                    `json:"name"`
	PaymentMethod  string                    `json:"payment_method"`
	UserID         *uint                     `json:"user_id,omitempty"`
	Items          []transport.CartLine      `json:"items"`
	Amount         decimal.Decimal           `json:"amount"`
	Delivery       *transport.DeliveryFields `json:"delivery,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
}

type Store interface {
	Save(ctx context.Context, in *Intent, ttl time.Duration) error
	Get(ctx context.Context, token string) (*Intent, error)
	// Take returns the intent and removes it in one step; a second Take of
	// the same token gets ErrIntentNotFound.
	Take(ctx context.Context, token string) (*Intent, error)
	Close() error
}

type memEntry struct {
	intent  Intent
	expires time.Time
}

type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, in *Intent, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.entries[in.Token] = memEntry{intent: *in, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (*Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok || !s.now().Before(e.expires) {
		return nil, ErrIntentNotFound
	}
	in := e.intent
	return &in, nil
}

func (s *MemoryStore) Take(_ context.Context, token string) (*Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return nil, ErrIntentNotFound
	}
	delete(s.entries, token)
	if !s.now().Before(e.expires) {
		return nil, ErrIntentNotFound
	}
	in := e.intent
	return &in, nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
		}
	}
}
