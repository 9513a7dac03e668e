package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/campus_cafeteria/internal/service"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
	"github.com/Skotchmaster/campus_cafeteria/internal/validation"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
)

type DashboardHTTP struct {
	Inventory *service.InventoryService
}

func (h *DashboardHTTP) Items(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.items")

	items, err := h.Inventory.List(ctx)
	if err != nil {
		return fail(l, "items_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *DashboardHTTP) PublicItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.public_items")

	items, err := h.Inventory.Public(ctx)
	if err != nil {
		return fail(l, "public_items_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *DashboardHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.add_item")

	var req transport.InventoryItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "reason", "validation", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "errors": validation.FieldErrors(err)})
	}

	item, err := h.Inventory.Create(ctx, req)
	if err != nil {
		return fail(l, "add_item_error", err)
	}

	l.Info("add_item_success", "item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *DashboardHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.update_item")

	id, err := paramID(c, "id")
	if err != nil {
		l.Warn("update_item_error", "status", 400, "reason", "invalid id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.InventoryPatchRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_item_error", "status", 400, "reason", "validation", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "errors": validation.FieldErrors(err)})
	}

	item, err := h.Inventory.Update(ctx, id, req)
	if err != nil {
		return fail(l, "update_item_error", err)
	}

	l.Info("update_item_success", "item_id", item.ID)
	return c.JSON(http.StatusOK, item)
}

func (h *DashboardHTTP) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.delete_item")

	id, err := paramID(c, "id")
	if err != nil {
		l.Warn("delete_item_error", "status", 400, "reason", "invalid id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Inventory.Delete(ctx, id); err != nil {
		return fail(l, "delete_item_error", err)
	}

	l.Info("delete_item_success", "item_id", id)
	return c.NoContent(http.StatusNoContent)
}
