package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/campus_cafeteria/internal/service"
	"github.com/Skotchmaster/campus_cafeteria/pkg/tokens"
)

// statusFor maps service sentinels to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// reason strips the sentinel prefix so clients see only the detail.
func reason(err error) string {
	msg := err.Error()
	for _, s := range []error{service.ErrValidation, service.ErrUnauthorized, service.ErrForbidden, service.ErrNotFound, service.ErrConflict} {
		if p := s.Error() + ": "; strings.HasPrefix(msg, p) {
			return strings.TrimPrefix(msg, p)
		}
	}
	return msg
}

func fail(l *slog.Logger, event string, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", "internal error", "error", err)
		return echo.NewHTTPError(status, "internal error")
	}
	l.Warn(event, "status", status, "reason", reason(err), "error", err)
	return echo.NewHTTPError(status, reason(err))
}

// shopper returns the logged-in user set by the auth middleware, if any.
func shopper(c echo.Context) *service.Shopper {
	sub, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if sub == "" || role != tokens.RoleUser {
		return nil
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil
	}
	name, _ := c.Get("user_name").(string)
	return &service.Shopper{ID: uint(id), Name: name}
}

func paramID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(v), nil
}

func attachment(c echo.Context, contentType, filename string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, contentType, data)
}
