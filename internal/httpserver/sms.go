package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/campus_cafeteria/internal/service"
	"github.com/Skotchmaster/campus_cafeteria/internal/sms"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
)

type SMSHTTP struct {
	Svc *service.SMSService
}

func (h *SMSHTTP) Webhook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sms.webhook")

	var req transport.SMSWebhookRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		l.Warn("webhook_error", "status", 400, "reason", "invalid json", "error", err)
		return c.JSON(http.StatusBadRequest, transport.SMSResult{Message: "Invalid JSON format"})
	}

	return h.process(c, req.From, req.Body)
}

// Test runs the same reconciliation from a form, for staff trying out
// message formats.
func (h *SMSHTTP) Test(c echo.Context) error {
	sender := c.FormValue("sender")
	if sender == "" {
		sender = sms.TestSender
	}
	return h.process(c, sender, c.FormValue("message"))
}

func (h *SMSHTTP) process(c echo.Context, sender, body string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sms.process")

	res, err := h.Svc.Process(ctx, sender, body)
	if err != nil {
		l.Error("sms_error", "status", 500, "reason", "internal error", "error", err)
		return c.JSON(http.StatusInternalServerError, transport.SMSResult{Message: "internal error"})
	}

	l.Info("sms_processed", "success", res.Success, "message", res.Message)
	return c.JSON(http.StatusOK, res)
}
