package httpserver

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/campus_cafeteria/internal/service"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
	"github.com/Skotchmaster/campus_cafeteria/internal/validation"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
)

const (
	msgMissingData  = "Missing required data"
	msgCartFormat   = "Invalid cart data format"
	msgInvalidPay   = "Invalid payment data"
	shopLoginPath   = "/shop/login"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type PaymentHTTP struct {
	Payments  *service.PaymentService
	Inventory *service.InventoryService
	Receipts  *service.ReceiptService
}

func (h *PaymentHTTP) ProcessPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.process_payment")

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("process_payment_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgMissingData)
	}
	if len(req.CartData) == 0 {
		if raw := c.FormValue("cart_data"); raw != "" {
			req.CartData = []byte(raw)
		}
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("process_payment_error", "status", 400, "reason", "missing fields", "fields", validation.FieldErrors(err))
		return echo.NewHTTPError(http.StatusBadRequest, msgMissingData)
	}

	resp, err := h.Payments.Checkout(ctx, req, shopper(c))
	if err != nil {
		if errors.Is(err, transport.ErrCartFormat) {
			l.Warn("process_payment_error", "status", 400, "reason", "cart format", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgCartFormat)
		}
		return fail(l, "process_payment_error", err)
	}

	l.Info("process_payment_success", "order_id", resp.OrderID)
	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHTTP) MockGateway(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.mock_gateway")

	page, err := h.Payments.MockGateway(ctx, c.QueryParam("token"))
	if err != nil {
		return fail(l, "mock_gateway_error", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *PaymentHTTP) UPIPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.upi_payment")

	in, payload, png, err := h.Payments.UPIQR(ctx, c.QueryParam("token"))
	if err != nil {
		return fail(l, "upi_payment_error", err)
	}

	if c.QueryParam("format") == "json" {
		return c.JSON(http.StatusOK, transport.UPIQRResponse{
			OrderID:  in.OrderID,
			Amount:   in.Amount,
			Payload:  payload,
			QRBase64: base64.StdEncoding.EncodeToString(png),
		})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *PaymentHTTP) Callback(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.callback")

	var cb transport.PaymentCallback
	if err := c.Bind(&cb); err != nil {
		l.Warn("callback_error", "status", 400, "reason", "invalid query", "error", err)
		return c.JSON(http.StatusBadRequest, transport.CallbackResponse{Message: msgInvalidPay})
	}

	order, err := h.Payments.Callback(ctx, cb)
	if err != nil {
		return h.callbackFailure(c, "callback_error", err)
	}

	l.Info("callback_success", "order_id", order.OrderID)
	return c.JSON(http.StatusOK, transport.CallbackResponse{
		Success:     true,
		OrderID:     order.OrderID,
		RedirectURL: service.ConfirmationURL(order.OrderID),
	})
}

func (h *PaymentHTTP) ProcessUPI(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.process_upi")

	var req transport.UPIConfirmRequest
	if err := c.Bind(&req); err != nil || req.Token == "" {
		l.Warn("process_upi_error", "status", 400, "reason", "token missing", "error", err)
		return c.JSON(http.StatusBadRequest, transport.CallbackResponse{Message: msgInvalidPay})
	}

	order, err := h.Payments.ConfirmUPI(ctx, req.Token)
	if err != nil {
		return h.callbackFailure(c, "process_upi_error", err)
	}

	l.Info("process_upi_success", "order_id", order.OrderID)
	return c.JSON(http.StatusOK, transport.CallbackResponse{
		Success:     true,
		OrderID:     order.OrderID,
		RedirectURL: service.ConfirmationURL(order.OrderID),
	})
}

func (h *PaymentHTTP) callbackFailure(c echo.Context, event string, err error) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "payments.finalize")

	status := statusFor(err)
	msg := reason(err)
	if errors.Is(err, service.ErrInvalidPayment) {
		msg = msgInvalidPay
	}
	if status == http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", "internal error", "error", err)
		msg = "internal error"
	} else {
		l.Warn(event, "status", status, "reason", msg, "error", err)
	}
	return c.JSON(status, transport.CallbackResponse{Message: msg})
}

func (h *PaymentHTTP) Confirmation(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.confirmation")

	resp, err := h.Payments.Confirmation(ctx, c.QueryParam("order_id"))
	if err != nil {
		return fail(l, "confirmation_error", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// DownloadReceipt sends anyone without a renderable receipt back to login.
func (h *PaymentHTTP) DownloadReceipt(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.download_receipt")

	rc, err := h.Receipts.Receipt(ctx, c.QueryParam("order_id"))
	if err != nil {
		l.Warn("download_receipt_error", "status", http.StatusFound, "reason", "receipt unavailable", "error", err)
		return c.Redirect(http.StatusFound, shopLoginPath)
	}

	l.Info("download_receipt_success", "order_id", c.QueryParam("order_id"))
	return attachment(c, "application/pdf", rc.Filename, rc.Data)
}

func (h *PaymentHTTP) UpdateInventory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.update_inventory")

	var req transport.UpdateInventoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_inventory_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	resp, err := h.Inventory.DecrementByName(ctx, req)
	if err != nil {
		return fail(l, "update_inventory_error", err)
	}

	l.Info("update_inventory_success", "item", resp.Item, "remaining", resp.Remaining)
	return c.JSON(http.StatusOK, resp)
}
