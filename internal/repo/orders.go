package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
)

// CreateOrder writes the order, its items, optional delivery info and the
// order.created outbox event in one transaction. An existing order_id gives
// ErrDuplicate and writes nothing.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Order{}).Where("order_id = ?", order.OrderID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}

		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return err
		}

		return appendOutbox(tx, models.EventOrderCreated, order)
	})
	if err != nil {
		return err
	}

	r.notifyOutbox(ctx, order.OrderID)
	return nil
}

func (r *GormRepo) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Delivery").
		Where("order_id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns orders newest first; a zero since means no lower bound.
func (r *GormRepo) ListOrders(ctx context.Context, since time.Time) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Delivery").
		Order("date_created DESC").Order("id DESC")
	if !since.IsZero() {
		q = q.Where("date_created >= ?", since)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrdersByStudent(ctx context.Context, studentID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("LOWER(student_id) = ?", strings.ToLower(studentID)).
		Order("date_created DESC").Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus sets the status and records an order.status_changed
// event. Returns gorm.ErrRecordNotFound for an unknown order.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("order_id = ?", orderID).First(&order).Error; err != nil {
			return err
		}
		if err := tx.Model(&order).Update("status", status).Error; err != nil {
			return err
		}
		order.Status = status
		return appendOutbox(tx, models.EventOrderStatusChanged, &order)
	})
	if err != nil {
		return nil, err
	}

	r.notifyOutbox(ctx, orderID)
	return &order, nil
}

// MarkPaid flips an order to successful with a payment reference. When the
// order is already successful nothing is written and alreadyPaid is true.
func (r *GormRepo) MarkPaid(ctx context.Context, orderID, reference string, at time.Time) (alreadyPaid bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockForUpdate(tx).Where("order_id = ?", orderID).First(&order).Error; err != nil {
			return err
		}
		if order.Status == models.OrderStatusSuccessful {
			alreadyPaid = true
			return nil
		}

		if err := tx.Model(&order).Updates(map[string]any{
			"status":            models.OrderStatusSuccessful,
			"payment_reference": reference,
			"payment_date":      at,
		}).Error; err != nil {
			return err
		}
		order.Status = models.OrderStatusSuccessful
		return appendOutbox(tx, models.EventOrderStatusChanged, &order)
	})
	if err == nil && !alreadyPaid {
		r.notifyOutbox(ctx, orderID)
	}
	return alreadyPaid, err
}
