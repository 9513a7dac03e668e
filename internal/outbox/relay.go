package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
)

const (
	DefaultTopic    = "order_events"
	DefaultBatch    = 100
	DefaultInterval = 2 * time.Second
)

// Publisher sends one serialized order event to the broker.
type Publisher interface {
	Publish(ctx context.Context, key, eventType string, payload []byte) error
	Close() error
}

type Store interface {
	PendingEvents(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	MarkEventProcessed(ctx context.Context, id uint, at time.Time) error
	MarkEventFailed(ctx context.Context, id uint, cause error) error
	ApplyToMirror(ctx context.Context, eventID uint, ev models.OrderEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, []byte) error { return nil }
func (NopPublisher) Close() error                                          { return nil }

type Relay struct {
	Store     Store
	Publisher Publisher
	Interval  time.Duration
	Batch     int

	once sync.Once
	wake chan struct{}
	now  func() time.Time
}

func NewRelay(store Store, pub Publisher, interval time.Duration) *Relay {
	if pub == nil {
		pub = NopPublisher{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Relay{Store: store, Publisher: pub, Interval: interval, Batch: DefaultBatch}
}

func (r *Relay) init() {
	r.once.Do(func() {
		r.wake = make(chan struct{}, 1)
		if r.now == nil {
			r.now = func() time.Time { return time.Now().UTC() }
		}
		if r.Batch <= 0 {
			r.Batch = DefaultBatch
		}
		if r.Interval <= 0 {
			r.Interval = DefaultInterval
		}
	})
}

// Wake schedules an immediate batch. It never blocks.
func (r *Relay) Wake() {
	r.init()
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run drains the outbox until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	r.init()
	l := logging.FromContext(ctx).With("svc", "outbox.relay")
	l.Info("relay_started", "interval", r.Interval.String(), "batch", r.Batch)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		if _, err := r.ProcessBatch(ctx); err != nil && ctx.Err() == nil {
			l.Error("relay_batch_error", "error", err)
		}
		select {
		case <-ctx.Done():
			l.Info("relay_stopped")
			return nil
		case <-ticker.C:
		case <-r.wake:
		}
	}
}

// ProcessBatch handles up to Batch pending events and reports how many were
// marked processed.
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	r.init()
	l := logging.FromContext(ctx).With("svc", "outbox.relay")

	events, err := r.Store.PendingEvents(ctx, r.Batch)
	if err != nil {
		return 0, fmt.Errorf("load pending events: %w", err)
	}

	done := 0
	for _, ev := range events {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		if err := r.handle(ctx, ev); err != nil {
			l.Warn("event_failed", "event_id", ev.ID, "order_id", ev.AggregateID, "type", ev.Type, "attempts", ev.Attempts+1, "error", err)
			if mErr := r.Store.MarkEventFailed(ctx, ev.ID, err); mErr != nil {
				l.Error("mark_failed_error", "event_id", ev.ID, "error", mErr)
			}
			continue
		}
		if err := r.Store.MarkEventProcessed(ctx, ev.ID, r.now()); err != nil {
			l.Error("mark_processed_error", "event_id", ev.ID, "error", err)
			continue
		}
		done++
	}
	if done > 0 {
		l.Debug("batch_processed", "count", done)
	}
	return done, nil
}

func (r *Relay) handle(ctx context.Context, ev models.OutboxEvent) error {
	var payload models.OrderEvent
	if err := json.Unmarshal([]byte(ev.Payload), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if err := r.Store.ApplyToMirror(ctx, ev.ID, payload); err != nil {
		return fmt.Errorf("mirror: %w", err)
	}
	if err := r.Publisher.Publish(ctx, ev.AggregateID, ev.Type, []byte(ev.Payload)); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
