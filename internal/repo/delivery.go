package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
)

func (r *GormRepo) ListDeliveries(ctx context.Context) ([]models.DeliveryInfo, error) {
	db := r.DB.WithContext(ctx)

	var out []models.DeliveryInfo
	err := db.
		Joins("JOIN orders ON orders.id = delivery_infos.order_id").
		Preload("Outcome").
		Order("orders.date_created DESC").Order("delivery_infos.id DESC").
		Find(&out).Error
	if err != nil || len(out) == 0 {
		return out, err
	}

	ids := make([]uint, 0, len(out))
	for _, d := range out {
		ids = append(ids, d.OrderID)
	}
	var orders []models.Order
	if err := db.Preload("Items").Where("id IN ?", ids).Find(&orders).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Order, len(orders))
	for i := range orders {
		byID[orders[i].ID] = &orders[i]
	}
	for i := range out {
		out[i].Order = byID[out[i].OrderID]
	}
	return out, nil
}

// UpdateDeliveryStatus sets DeliveryInfo.status; reaching "delivered" also
// records the outcome row.
func (r *GormRepo) UpdateDeliveryStatus(ctx context.Context, deliveryID uint, status string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var info models.DeliveryInfo
		if err := tx.First(&info, deliveryID).Error; err != nil {
			return err
		}
		if err := tx.Model(&info).Update("status", status).Error; err != nil {
			return err
		}
		if status != models.DeliveryDelivered {
			return nil
		}

		now := time.Now().UTC()
		outcome := models.DeliveryStatus{
			DeliveryInfoID: info.ID,
			IsSuccessful:   true,
			DeliveredAt:    &now,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "delivery_info_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_successful", "delivered_at", "updated_at"}),
		}).Create(&outcome).Error
	})
}
