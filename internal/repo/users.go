package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
)

// CreateUser rejects names that collide case-insensitively and duplicate
// emails with ErrDuplicate.
func (r *GormRepo) CreateUser(ctx context.Context, user *models.ShopUser) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.ShopUser{}).
			Where("LOWER(name) = ? OR LOWER(email) = ?", strings.ToLower(user.Name), strings.ToLower(user.Email)).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}

		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.ShopUser, error) {
	var u models.ShopUser
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) GetUserByName(ctx context.Context, name string) (*models.ShopUser, error) {
	var u models.ShopUser
	err := r.DB.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) UpdateUserPassword(ctx context.Context, id uint, passwordHash string) error {
	res := r.DB.WithContext(ctx).Model(&models.ShopUser{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CreateManager(ctx context.Context, m *models.Manager) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Manager{}).Where("username = ?", m.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		return tx.Create(m).Error
	})
}

func (r *GormRepo) GetManagerByUsername(ctx context.Context, username string) (*models.Manager, error) {
	var m models.Manager
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
