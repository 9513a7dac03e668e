package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/campus_cafeteria/internal/service"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
	middleware "github.com/Skotchmaster/campus_cafeteria/pkg/middleware/auth"
	"github.com/Skotchmaster/campus_cafeteria/pkg/tokens"
)

type ManagerHTTP struct {
	Svc           *service.ManagerService
	JWTSecret     []byte
	RefreshSecret []byte
}

func (h *ManagerHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "managers.login")

	var req transport.ManagerLoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	m, err := h.Svc.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	sub := strconv.FormatUint(uint64(m.ID), 10)
	if err := middleware.IssueSession(c, sub, tokens.RoleManager, m.Username, h.JWTSecret, h.RefreshSecret); err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot issue session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("login_success", "manager_id", m.ID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "username": m.Username})
}

func (h *ManagerHTTP) Logout(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "managers.logout")
	middleware.ClearAuthCookies(c)
	l.Info("logout_success")
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
