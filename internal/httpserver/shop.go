package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/campus_cafeteria/internal/service"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
	"github.com/Skotchmaster/campus_cafeteria/internal/validation"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
	middleware "github.com/Skotchmaster/campus_cafeteria/pkg/middleware/auth"
	"github.com/Skotchmaster/campus_cafeteria/pkg/tokens"
)

type ShopHTTP struct {
	Users         *service.UserService
	Orders        *service.OrderService
	Inventory     *service.InventoryService
	JWTSecret     []byte
	RefreshSecret []byte
}

func (h *ShopHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "validation", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "errors": validation.FieldErrors(err)})
	}

	user, err := h.Users.Register(ctx, req)
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "id": user.ID, "name": user.Name})
}

func (h *ShopHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "name and password are required")
	}

	user, err := h.Users.Authenticate(ctx, req.Name, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	sub := strconv.FormatUint(uint64(user.ID), 10)
	if err := middleware.IssueSession(c, sub, tokens.RoleUser, user.Name, h.JWTSecret, h.RefreshSecret); err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot issue session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "name": user.Name})
}

func (h *ShopHTTP) Logout(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "shop.logout")
	middleware.ClearAuthCookies(c)
	l.Info("logout_success")
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (h *ShopHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.forgot_password")

	var req transport.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		l.Warn("forgot_password_error", "status", 400, "reason", "name missing", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	step, err := h.Users.StartReset(ctx, req.Name)
	if err != nil {
		return fail(l, "forgot_password_error", err)
	}
	return c.JSON(http.StatusOK, step)
}

func (h *ShopHTTP) SecurityQuestions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.security_questions")

	var req transport.SecurityAnswerRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("security_questions_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("security_questions_error", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "reset_token and answer are required")
	}

	step, err := h.Users.AnswerQuestion(ctx, req.ResetToken, req.Answer)
	if err != nil {
		return fail(l, "security_questions_error", err)
	}
	return c.JSON(http.StatusOK, step)
}

func (h *ShopHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.reset_password")

	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("reset_password_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("reset_password_error", "status", 400, "reason", "validation", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "errors": validation.FieldErrors(err)})
	}

	if err := h.Users.ResetPassword(ctx, req); err != nil {
		return fail(l, "reset_password_error", err)
	}

	l.Info("reset_password_success")
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (h *ShopHTTP) OrderHistory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.order_history")

	name, _ := c.Get("user_name").(string)
	if name == "" {
		l.Warn("order_history_error", "status", 401, "reason", "no user")
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	orders, err := h.Users.History(ctx, name)
	if err != nil {
		return fail(l, "order_history_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "orders": orders})
}

func (h *ShopHTTP) SaveOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.save_order")

	var req transport.SaveOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("save_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("save_order_error", "status", 400, "reason", "validation", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "errors": validation.FieldErrors(err)})
	}

	var userID *uint
	if s := shopper(c); s != nil {
		userID = &s.ID
	}

	order, err := h.Orders.SaveOrder(ctx, req, userID)
	if err != nil {
		return fail(l, "save_order_error", err)
	}

	l.Info("save_order_success", "order_id", order.OrderID)
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "order_id": order.OrderID, "total": order.Total()})
}

func (h *ShopHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.search")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))

	res, err := h.Inventory.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return fail(l, "search_error", err)
	}
	return c.JSON(http.StatusOK, res)
}
