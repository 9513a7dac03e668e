package inventory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
)

func stock() []models.InventoryItem {
	return []models.InventoryItem{
		{ID: 1, Name: "Masala Tea", Quantity: 10},
		{ID: 2, Name: "Tea", Quantity: 50},
		{ID: 3, Name: "Veg Sandwich", Quantity: 5},
		{ID: 4, Name: "Coffee", Quantity: 8},
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cart   string
		wantID uint
		kind   MatchKind
	}{
		{name: "exact beats contains", cart: "tea", wantID: 2, kind: MatchExact},
		{name: "exact trims and folds case", cart: "  COFFEE ", wantID: 4, kind: MatchExact},
		{name: "inventory contains cart name", cart: "sandwich", wantID: 3, kind: MatchContains},
		{name: "cart name contains inventory name", cart: "Cold Coffee Large", wantID: 4, kind: MatchReverse},
		{name: "first row wins within a pass", cart: "masala", wantID: 1, kind: MatchContains},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, kind := Match(stock(), tt.cart)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestMatch_NoMatch(t *testing.T) {
	t.Parallel()

	got, kind := Match(stock(), "Pizza")
	assert.Nil(t, got)
	assert.Equal(t, MatchNone, kind)

	got, _ = Match(stock(), "   ")
	assert.Nil(t, got)
}

func TestMatch_IgnoresBlankStockNames(t *testing.T) {
	t.Parallel()

	got, _ := Match([]models.InventoryItem{{ID: 9, Name: ""}}, "Tea")
	assert.Nil(t, got)
}

func TestRemaining_NeverNegative(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 48, Remaining(50, 2))
	assert.Equal(t, 0, Remaining(5, 5))
	assert.Equal(t, 0, Remaining(5, 500))
	assert.Equal(t, 0, Remaining(0, 1))
	assert.Equal(t, 0, Remaining(3, math.MaxInt))
}
