// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
	"github.com/Skotchmaster/campus_cafeteria/internal/repo"
	pkgdb "github.com/Skotchmaster/campus_cafeteria/pkg/db"
)

// NewRepo opens a private in-memory SQLite database with the schema applied.
func NewRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := pkgdb.Open(context.Background(), "sqlite://:memory:")
	require.NoError(t, err)

	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.Migrate(context.Background()))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return r
}

func SeedInventory(t *testing.T, db *gorm.DB, name string, qty int) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{Name: name, Quantity: qty, Category: "general"}
	require.NoError(t, db.Create(item).Error)
	return item
}

// SeedOrder inserts an order directly, bypassing the outbox.
func SeedOrder(t *testing.T, db *gorm.DB, orderID, status string, created time.Time, lines ...models.OrderItem) *models.Order {
	t.Helper()

	o := &models.Order{
		OrderID:       orderID,
		StudentID:     "S100",
		Name:          "Asha",
		PaymentMethod: models.PaymentCash,
		Status:        status,
		DateCreated:   created.UTC(),
		Items:         lines,
	}
	require.NoError(t, db.Create(o).Error)
	return o
}

func Line(name, price string, qty int) models.OrderItem {
	return models.OrderItem{Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
}
