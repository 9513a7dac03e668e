package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/campus_cafeteria/internal/service"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
)

type TransactionHTTP struct {
	Svc *service.TransactionService
	// LoginPath is where a failed export sends the manager.
	LoginPath string
}

type apiError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// jsonFail answers with the {success:false,error} envelope the dashboard
// scripts expect.
func jsonFail(c echo.Context, event string, err error) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "transactions")

	status := statusFor(err)
	msg := reason(err)
	if status == http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", "internal error", "error", err)
	} else {
		l.Warn(event, "status", status, "reason", msg, "error", err)
	}
	return c.JSON(status, apiError{Error: msg})
}

func (h *TransactionHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := h.Svc.List(ctx)
	if err != nil {
		return jsonFail(c, "list_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "transactions": list})
}

func (h *TransactionHTTP) Detail(c echo.Context) error {
	ctx := c.Request().Context()

	d, err := h.Svc.Detail(ctx, c.Param("order_id"))
	if err != nil {
		return jsonFail(c, "detail_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "order": d})
}

func (h *TransactionHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transactions.update_status")

	var req transport.UpdateStatusRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid json", "error", err)
		return c.JSON(http.StatusBadRequest, apiError{Error: "Invalid JSON in request body"})
	}

	resp, err := h.Svc.UpdateStatus(ctx, c.Param("order_id"), req)
	if err != nil {
		return jsonFail(c, "update_status_error", err)
	}

	l.Info("update_status_success", "order_id", resp.OrderID, "status", resp.NewStatus)
	return c.JSON(http.StatusOK, resp)
}

func (h *TransactionHTTP) Export(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transactions.export")

	exp, err := h.Svc.Export(ctx, c.QueryParam("filter"))
	if err != nil {
		l.Warn("export_error", "status", http.StatusFound, "reason", "export failed", "error", err)
		return c.Redirect(http.StatusFound, h.LoginPath)
	}

	l.Info("export_success", "filename", exp.Filename)
	return attachment(c, contentTypeXLSX, exp.Filename, exp.Data)
}

func (h *TransactionHTTP) DeliveryView(c echo.Context) error {
	ctx := c.Request().Context()

	deliveries, err := h.Svc.Deliveries(ctx)
	if err != nil {
		return jsonFail(c, "delivery_view_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "deliveries": deliveries})
}
