package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/campus_cafeteria/internal/inventory"
	"github.com/Skotchmaster/campus_cafeteria/internal/models"
	"github.com/Skotchmaster/campus_cafeteria/internal/repo"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
	"github.com/Skotchmaster/campus_cafeteria/internal/util"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
)

// MenuIndex is the search side of the inventory; *es.MenuIndex in
// production.
type MenuIndex interface {
	IndexItem(ctx context.Context, item models.InventoryItem) error
	DeleteItem(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.InventoryItem, error)
}

type InventoryService struct {
	Repo  *repo.GormRepo
	Index MenuIndex
}

type SearchResult struct {
	Total int64                  `json:"total"`
	Page  util.Page              `json:"page"`
	Items []transport.PublicItem `json:"items"`
}

func (svc *InventoryService) List(ctx context.Context) ([]models.InventoryItem, error) {
	return svc.Repo.ListInventory(ctx)
}

func publicItems(items []models.InventoryItem) []transport.PublicItem {
	out := make([]transport.PublicItem, 0, len(items))
	for _, it := range items {
		out = append(out, transport.PublicItem{ID: it.ID, Name: it.Name, Quantity: it.Quantity, Category: it.Category})
	}
	return out
}

func (svc *InventoryService) Public(ctx context.Context) ([]transport.PublicItem, error) {
	items, err := svc.Repo.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	return publicItems(items), nil
}

func (svc *InventoryService) Create(ctx context.Context, req transport.InventoryItemRequest) (*models.InventoryItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must be >= 0", ErrValidation)
	}

	item := &models.InventoryItem{Name: name, Quantity: req.Quantity, Category: strings.TrimSpace(req.Category)}
	if err := svc.Repo.CreateInventoryItem(ctx, item); err != nil {
		return nil, err
	}
	svc.reindex(ctx, item)
	return item, nil
}

func (svc *InventoryService) Update(ctx context.Context, id uint, req transport.InventoryPatchRequest) (*models.InventoryItem, error) {
	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		updates["name"] = name
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must be >= 0", ErrValidation)
		}
		updates["quantity"] = *req.Quantity
	}
	if req.Category != nil {
		updates["category"] = strings.TrimSpace(*req.Category)
	}

	item, err := svc.Repo.UpdateInventoryItem(ctx, id, updates)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("item %d", id))
	}
	svc.reindex(ctx, item)
	return item, nil
}

func (svc *InventoryService) Delete(ctx context.Context, id uint) error {
	if err := svc.Repo.DeleteInventoryItem(ctx, id); err != nil {
		return translate(err, fmt.Sprintf("item %d", id))
	}
	if svc.Index != nil {
		if err := svc.Index.DeleteItem(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("menu_index_delete_failed", "svc", "inventory.delete", "item_id", id, "error", err)
		}
	}
	return nil
}

func (svc *InventoryService) reindex(ctx context.Context, item *models.InventoryItem) {
	if svc.Index == nil {
		return
	}
	if err := svc.Index.IndexItem(ctx, *item); err != nil {
		logging.FromContext(ctx).Warn("menu_index_failed", "svc", "inventory.reindex", "item_id", item.ID, "error", err)
	}
}

// DecrementByName is the manual stock adjustment: the name is resolved with
// the same matching rules as order lines.
func (svc *InventoryService) DecrementByName(ctx context.Context, req transport.UpdateInventoryRequest) (*transport.UpdateInventoryResponse, error) {
	name := strings.TrimSpace(req.ItemName)
	if name == "" || req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: itemName and a positive quantity are required", ErrValidation)
	}

	stock, err := svc.Repo.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	item, kind := inventory.Match(stock, name)
	if item == nil {
		return nil, fmt.Errorf("%w: No inventory item found for %s", ErrNotFound, name)
	}

	prev, left, err := svc.Repo.DecrementInventory(ctx, item.ID, req.Quantity)
	if err != nil {
		return nil, translate(err, "item "+item.Name)
	}
	logging.FromContext(ctx).Info("inventory_adjusted", "svc", "inventory.decrement", "item", item.Name, "match", string(kind), "previous", prev, "remaining", left)

	return &transport.UpdateInventoryResponse{
		Item:      item.Name,
		Previous:  prev,
		Purchased: req.Quantity,
		Remaining: left,
	}, nil
}

// Search uses the menu index when one is configured and otherwise a LIKE
// query on the inventory table.
func (svc *InventoryService) Search(ctx context.Context, query string, page, size int) (*SearchResult, error) {
	p := util.Paginate(page, size)
	query = strings.TrimSpace(query)

	if svc.Index != nil && query != "" {
		total, items, err := svc.Index.Search(ctx, query, p.Offset, p.Size)
		if err == nil {
			return &SearchResult{Total: total, Page: p, Items: publicItems(items)}, nil
		}
		logging.FromContext(ctx).Warn("menu_search_fallback", "svc", "inventory.search", "error", err)
	}

	total, items, err := svc.Repo.SearchInventory(ctx, query, p.Offset, p.Size)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Total: total, Page: p, Items: publicItems(items)}, nil
}

// Reindex pushes every inventory row to the menu index.
func (svc *InventoryService) Reindex(ctx context.Context) (int, error) {
	if svc.Index == nil {
		return 0, nil
	}
	items, err := svc.Repo.ListInventory(ctx)
	if err != nil {
		return 0, err
	}
	for i := range items {
		if err := svc.Index.IndexItem(ctx, items[i]); err != nil {
			return i, err
		}
	}
	return len(items), nil
}
