package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
)

func (r *GormRepo) PendingEvents(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	var events []models.OutboxEvent
	err := r.DB.WithContext(ctx).
		Where("processed_at IS NULL").
		Order("id").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *GormRepo) MarkEventProcessed(ctx context.Context, id uint, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{"processed_at": at, "last_error": ""}).Error
}

func (r *GormRepo) MarkEventFailed(ctx context.Context, id uint, cause error) error {
	return r.DB.WithContext(ctx).Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": cause.Error(),
		}).Error
}

var ErrMirrorMissing = errors.New("mirror order missing")

// ApplyToMirror projects one order event into the mirror store. Replaying an
// event that was already applied is a no-op.
func (r *GormRepo) ApplyToMirror(ctx context.Context, eventID uint, ev models.OrderEvent) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.MirrorOrder
		err := tx.Where("order_id = ?", ev.OrderID).First(&existing).Error
		found := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		switch ev.Type {
		case models.EventOrderCreated:
			if found {
				return nil
			}
			mirror := models.MirrorOrder{
				OrderID:       ev.OrderID,
				StudentID:     ev.StudentID,
				UserID:        ev.UserID,
				Name:          ev.Name,
				PaymentMethod: ev.PaymentMethod,
				Status:        ev.Status,
				Date:          ev.Date,
				LastEventID:   eventID,
			}
			for _, it := range ev.Items {
				mirror.Items = append(mirror.Items, models.MirrorOrderItem{
					Name:     it.Name,
					Price:    it.Price,
					Quantity: it.Quantity,
				})
			}
			return tx.Create(&mirror).Error

		case models.EventOrderStatusChanged:
			if !found {
				return ErrMirrorMissing
			}
			if existing.LastEventID >= eventID {
				return nil
			}
			return tx.Model(&existing).Updates(map[string]any{
				"status":        ev.Status,
				"last_event_id": eventID,
			}).Error
		}
		return nil
	})
}

func (r *GormRepo) GetMirrorOrder(ctx context.Context, orderID string) (*models.MirrorOrder, error) {
	var m models.MirrorOrder
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("order_id = ?", orderID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
