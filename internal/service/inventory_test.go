package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
	"github.com/Skotchmaster/campus_cafeteria/internal/testutil"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
)

type fakeIndex struct {
	mu      sync.Mutex
	indexed map[uint]string
	deleted []uint
	err     error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{indexed: map[uint]string{}} }

func (f *fakeIndex) IndexItem(_ context.Context, item models.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[item.ID] = item.Name
	return nil
}

func (f *fakeIndex) DeleteItem(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, query string, _, _ int) (int64, []models.InventoryItem, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return 1, []models.InventoryItem{{ID: 99, Name: "from-index:" + query}}, nil
}

func TestInventory_CRUDKeepsIndexInSync(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	idx := newFakeIndex()
	svc := &InventoryService{Repo: f.repo, Index: idx}

	item, err := svc.Create(bg, transport.InventoryItemRequest{Name: " Masala Dosa ", Quantity: 12, Category: "meals"})
	require.NoError(t, err)
	assert.Equal(t, "Masala Dosa", item.Name)
	assert.Equal(t, "Masala Dosa", idx.indexed[item.ID])

	qty := 4
	updated, err := svc.Update(bg, item.ID, transport.InventoryPatchRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
	assert.Equal(t, "Masala Dosa", updated.Name)

	neg := -1
	_, err = svc.Update(bg, item.ID, transport.InventoryPatchRequest{Quantity: &neg})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = svc.Update(bg, 9999, transport.InventoryPatchRequest{Quantity: &qty})
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, svc.Delete(bg, item.ID))
	assert.Equal(t, []uint{item.ID}, idx.deleted)
	assert.True(t, errors.Is(svc.Delete(bg, item.ID), ErrNotFound))

	public, err := svc.Public(bg)
	require.NoError(t, err)
	assert.Empty(t, public)
}

func TestInventory_DecrementByName(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	testutil.SeedInventory(t, f.repo.DB, "Cold Coffee", 5)
	svc := &InventoryService{Repo: f.repo}

	resp, err := svc.DecrementByName(bg, transport.UpdateInventoryRequest{ItemName: "coffee", Quantity: 8})
	require.NoError(t, err)
	assert.Equal(t, transport.UpdateInventoryResponse{Item: "Cold Coffee", Previous: 5, Purchased: 8, Remaining: 0}, *resp)

	_, err = svc.DecrementByName(bg, transport.UpdateInventoryRequest{ItemName: "Burger", Quantity: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "No inventory item found for Burger")

	_, err = svc.DecrementByName(bg, transport.UpdateInventoryRequest{ItemName: "coffee", Quantity: 0})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestInventory_Search(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	testutil.SeedInventory(t, f.repo.DB, "Tea", 5)
	testutil.SeedInventory(t, f.repo.DB, "Green Tea", 5)
	testutil.SeedInventory(t, f.repo.DB, "Samosa", 5)

	plain := &InventoryService{Repo: f.repo}
	res, err := plain.Search(bg, "TEA", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Green Tea", res.Items[0].Name)

	idx := newFakeIndex()
	indexed := &InventoryService{Repo: f.repo, Index: idx}
	res, err = indexed.Search(bg, "tea", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "from-index:tea", res.Items[0].Name)

	idx.err = errors.New("cluster down")
	res, err = indexed.Search(bg, "samosa", 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Samosa", res.Items[0].Name)
}
