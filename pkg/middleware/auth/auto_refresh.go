package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	jwthelp "github.com/Skotchmaster/campus_cafeteria/pkg/jwt"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
	"github.com/Skotchmaster/campus_cafeteria/pkg/tokens"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

var errForbiddenRole = errors.New("role not allowed")

type AutoRefreshMiddleware struct {
	JWTSecret     []byte
	RefreshSecret []byte

	// ManagerLoginPath is where manager-only routes send anonymous visitors.
	ManagerLoginPath string
}

func NewAutoRefreshMiddleware(secret, refreshSecret []byte, managerLoginPath string) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret:        secret,
		RefreshSecret:    refreshSecret,
		ManagerLoginPath: managerLoginPath,
	}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

type failFunc func(c echo.Context, status int, reason string) error

func unauthorized(_ echo.Context, status int, reason string) error {
	return echo.NewHTTPError(status, reason)
}

func (m *AutoRefreshMiddleware) redirectToLogin(c echo.Context, _ int, reason string) error {
	logging.FromContext(c.Request().Context()).Info("redirect_to_login", "reason", reason)
	return c.Redirect(http.StatusFound, m.ManagerLoginPath)
}

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil, unauthorized)
}

// RequireManager redirects to the manager login page instead of answering
// 401/403.
func (m *AutoRefreshMiddleware) RequireManager(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != tokens.RoleManager {
			return errForbiddenRole
		}
		return nil
	}, m.redirectToLogin)
}

// OptionalAuth sets the user context when a valid session exists and never
// rejects the request.
func (m *AutoRefreshMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if claims, ok := m.resolve(c); ok {
			setUserContext(c, claims)
		}
		return next(c)
	}
}

func (m *AutoRefreshMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc, fail failFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := m.resolve(c)
		if !ok {
			return fail(c, http.StatusUnauthorized, "not authenticated")
		}
		if validator != nil {
			if err := validator(claims); err != nil {
				return fail(c, http.StatusForbidden, err.Error())
			}
		}

		setUserContext(c, claims)
		return next(c)
	}
}

// resolve reads the access cookie and, when it has expired, rotates both
// cookies from a valid refresh token.
func (m *AutoRefreshMiddleware) resolve(c echo.Context) (*tokens.AccessClaims, bool) {
	accessCookie, err := c.Cookie(jwthelp.AccessCookie)
	if err != nil || accessCookie.Value == "" {
		return m.refresh(c)
	}

	claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
	if err == nil {
		return claims, true
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		ClearAuthCookies(c)
		return nil, false
	}
	return m.refresh(c)
}

func (m *AutoRefreshMiddleware) refresh(c echo.Context) (*tokens.AccessClaims, bool) {
	refreshCookie, err := c.Cookie(jwthelp.RefreshCookie)
	if err != nil || refreshCookie.Value == "" {
		return nil, false
	}

	rc, err := tokens.RefreshClaimsFromToken(refreshCookie.Value, m.RefreshSecret)
	if err != nil {
		ClearAuthCookies(c)
		return nil, false
	}

	if err := IssueSession(c, rc.Subject, rc.Role, rc.Name, m.JWTSecret, m.RefreshSecret); err != nil {
		logging.FromContext(c.Request().Context()).Error("refresh_failed", "error", err)
		return nil, false
	}

	return &tokens.AccessClaims{
		Role:             rc.Role,
		Name:             rc.Name,
		RegisteredClaims: jwt.RegisteredClaims{Subject: rc.Subject},
	}, true
}

// IssueSession sets fresh access and refresh cookies.
func IssueSession(c echo.Context, subject, role, name string, accessSecret, refreshSecret []byte) error {
	accessExp := time.Now().Add(AccessTTL)
	access, err := tokens.NewAccessToken(subject, role, name, accessExp, accessSecret)
	if err != nil {
		return err
	}

	refreshExp := time.Now().Add(RefreshTTL)
	refresh, err := tokens.NewRefreshToken(subject, role, name, refreshExp, refreshSecret)
	if err != nil {
		return err
	}

	for _, ck := range jwthelp.SessionCookies(access, accessExp, refresh, refreshExp) {
		c.SetCookie(ck)
	}
	return nil
}

func ClearAuthCookies(c echo.Context) {
	for _, ck := range jwthelp.ExpiredSession() {
		c.SetCookie(ck)
	}
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("role", claims.Role)
	c.Set("user_name", claims.Name)
}
