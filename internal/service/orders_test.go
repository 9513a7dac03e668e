package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
	"github.com/Skotchmaster/campus_cafeteria/internal/testutil"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
)

func TestPlaceOrder_DecrementsMatchedStock(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	tea := testutil.SeedInventory(t, f.repo.DB, "Tea", 50)

	order, err := f.orders.PlaceOrder(bg, NewOrder{
		OrderID:       "CMS-100001",
		StudentID:     "S100",
		Name:          "Asha",
		PaymentMethod: models.PaymentCash,
		Lines:         []transport.CartLine{line("Tea", "10.00", 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, "20.00", order.Total().StringFixed(2))
	require.NotNil(t, order.Items[0].InventoryItemID)
	assert.Equal(t, tea.ID, *order.Items[0].InventoryItemID)

	got, err := f.repo.GetInventoryItem(bg, tea.ID)
	require.NoError(t, err)
	assert.Equal(t, 48, got.Quantity)
}

func TestPlaceOrder_FuzzyAndExplicitItems(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	coffee := testutil.SeedInventory(t, f.repo.DB, "Filter Coffee", 10)
	samosa := testutil.SeedInventory(t, f.repo.DB, "Samosa", 5)
	other := testutil.SeedInventory(t, f.repo.DB, "Veg Puff", 3)

	puff := line("Puff", "12.00", 1)
	puff.ItemID = &other.ID

	order, err := f.orders.PlaceOrder(bg, NewOrder{
		OrderID:   "CMS-100002",
		StudentID: "S100",
		Lines: []transport.CartLine{
			line("coffee", "15.00", 1),
			line("Large Samosa Plate", "20.00", 2),
			puff,
			line("Pizza", "90.00", 1),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Nil(t, order.Items[3].InventoryItemID)

	for id, want := range map[uint]int{coffee.ID: 9, samosa.ID: 3, other.ID: 2} {
		got, err := f.repo.GetInventoryItem(bg, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Quantity, got.Name)
	}
}

func TestPlaceOrder_NeverNegativeStock(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	tea := testutil.SeedInventory(t, f.repo.DB, "Tea", 3)

	_, err := f.orders.PlaceOrder(bg, NewOrder{
		OrderID:   "CMS-100003",
		StudentID: "S100",
		Lines:     []transport.CartLine{line("Tea", "10.00", 1000)},
	})
	require.NoError(t, err)

	got, err := f.repo.GetInventoryItem(bg, tea.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func TestPlaceOrder_DuplicateOrderID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	in := NewOrder{OrderID: "CMS-100004", StudentID: "S100", Lines: []transport.CartLine{line("Tea", "10.00", 1)}}

	_, err := f.orders.PlaceOrder(bg, in)
	require.NoError(t, err)

	_, err = f.orders.PlaceOrder(bg, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))

	var n int64
	require.NoError(t, f.repo.DB.Model(&models.Order{}).Where("order_id = ?", "CMS-100004").Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestPlaceOrder_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	tests := []struct {
		name string
		in   NewOrder
	}{
		{name: "empty cart", in: NewOrder{OrderID: "CMS-1", StudentID: "S"}},
		{name: "missing order id", in: NewOrder{StudentID: "S", Lines: []transport.CartLine{line("Tea", "1", 1)}}},
		{name: "missing student", in: NewOrder{OrderID: "CMS-1", Lines: []transport.CartLine{line("Tea", "1", 1)}}},
		{name: "negative price", in: NewOrder{OrderID: "CMS-1", StudentID: "S", Lines: []transport.CartLine{line("Tea", "-1", 1)}}},
		{name: "zero quantity", in: NewOrder{OrderID: "CMS-1", StudentID: "S", Lines: []transport.CartLine{line("Tea", "1", 0)}}},
		{name: "bad status", in: NewOrder{OrderID: "CMS-1", StudentID: "S", Status: "shipped", Lines: []transport.CartLine{line("Tea", "1", 1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.PlaceOrder(bg, tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}

	var n int64
	require.NoError(t, f.repo.DB.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSaveOrder_WritesOutboxEvent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.orders.SaveOrder(bg, transport.SaveOrderRequest{
		OrderID:   "CMS-100005",
		StudentID: "S100",
		Items:     []transport.CartLine{line("Tea", "10.00", 2)},
	}, nil)
	require.NoError(t, err)

	events, err := f.repo.PendingEvents(bg, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventOrderCreated, events[0].Type)
}
