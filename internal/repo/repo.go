package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
	pkgdb "github.com/Skotchmaster/campus_cafeteria/pkg/db"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
)

// OutboxChannel is the Postgres NOTIFY channel fired after outbox inserts.
const OutboxChannel = "outbox_events"

var ErrDuplicate = errors.New("duplicate")

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.All()...)
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// lockForUpdate is a no-op outside Postgres.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if pkgdb.IsPostgres(tx) {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func appendOutbox(tx *gorm.DB, eventType string, o *models.Order) error {
	payload, err := json.Marshal(models.NewOrderEvent(eventType, o))
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	ev := models.OutboxEvent{
		AggregateID: o.OrderID,
		Type:        eventType,
		Payload:     string(payload),
	}
	return tx.Create(&ev).Error
}

// notifyOutbox wakes relays listening on Postgres; failures only cost latency.
func (r *GormRepo) notifyOutbox(ctx context.Context, orderID string) {
	if !pkgdb.IsPostgres(r.DB) {
		return
	}
	if err := r.DB.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", OutboxChannel, orderID).Error; err != nil {
		logging.FromContext(ctx).Warn("outbox_notify_failed", "order_id", orderID, "error", err)
	}
}
