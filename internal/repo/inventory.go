package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/campus_cafeteria/internal/inventory"
	"github.com/Skotchmaster/campus_cafeteria/internal/models"
)

func (r *GormRepo) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := r.DB.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SearchInventory is the LIKE based menu search used when no search
// cluster is configured.
func (r *GormRepo) SearchInventory(ctx context.Context, query string, offset, limit int) (int64, []models.InventoryItem, error) {
	q := r.DB.WithContext(ctx).Model(&models.InventoryItem{})
	if query = strings.TrimSpace(query); query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.InventoryItem
	if err := q.Order("name").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetInventoryItem(ctx context.Context, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CreateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) UpdateInventoryItem(ctx context.Context, id uint, updates map[string]any) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&item, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) DeleteInventoryItem(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.InventoryItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementInventory subtracts n from the row's quantity, never going below
// zero. The update is a single conditional statement so concurrent orders
// cannot overwrite each other's decrement.
func (r *GormRepo) DecrementInventory(ctx context.Context, id uint, n int) (previous, remaining int, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := lockForUpdate(tx).First(&item, id).Error; err != nil {
			return err
		}
		previous = item.Quantity

		if err := tx.Model(&models.InventoryItem{}).Where("id = ?", id).
			Update("quantity", gorm.Expr("CASE WHEN quantity > ? THEN quantity - ? ELSE 0 END", n, n)).Error; err != nil {
			return err
		}
		// the row is locked (or the sqlite connection is exclusive), so the
		// update saw the same quantity as the read above
		remaining = inventory.Remaining(previous, n)
		return nil
	})
	return previous, remaining, err
}
