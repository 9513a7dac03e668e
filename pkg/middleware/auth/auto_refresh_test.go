package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwthelp "github.com/Skotchmaster/campus_cafeteria/pkg/jwt"
	"github.com/Skotchmaster/campus_cafeteria/pkg/tokens"
)

var (
	accessSecret  = []byte("test-jwt-secret")
	refreshSecret = []byte("test-refresh-secret")
)

func newMW() *AutoRefreshMiddleware {
	return NewAutoRefreshMiddleware(accessSecret, refreshSecret, "/managers/login")
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, c.Get("role").(string)+":"+c.Get("user_name").(string))
}

func newCtx(cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/transactions/api/list", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func accessCookie(t *testing.T, role string, exp time.Time) *http.Cookie {
	t.Helper()
	tok, err := tokens.NewAccessToken("1", role, "canteen", exp, accessSecret)
	require.NoError(t, err)
	return &http.Cookie{Name: jwthelp.AccessCookie, Value: tok}
}

func TestRequireManager_RedirectsAnonymous(t *testing.T) {
	t.Parallel()

	c, rec := newCtx()
	require.NoError(t, newMW().RequireManager(okHandler)(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/managers/login", rec.Header().Get(echo.HeaderLocation))
}

func TestRequireManager_RedirectsShopper(t *testing.T) {
	t.Parallel()

	c, rec := newCtx(accessCookie(t, tokens.RoleUser, time.Now().Add(time.Minute)))
	require.NoError(t, newMW().RequireManager(okHandler)(c))
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRequireManager_AllowsManager(t *testing.T) {
	t.Parallel()

	c, rec := newCtx(accessCookie(t, tokens.RoleManager, time.Now().Add(time.Minute)))
	require.NoError(t, newMW().RequireManager(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "manager:canteen", rec.Body.String())
}

func TestRequireAuth_RefreshesExpiredAccess(t *testing.T) {
	t.Parallel()

	refresh, err := tokens.NewRefreshToken("1", tokens.RoleUser, "asha", time.Now().Add(time.Hour), refreshSecret)
	require.NoError(t, err)

	c, rec := newCtx(
		accessCookie(t, tokens.RoleUser, time.Now().Add(-time.Minute)),
		&http.Cookie{Name: jwthelp.RefreshCookie, Value: refresh},
	)
	require.NoError(t, newMW().RequireAuth(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user:asha", rec.Body.String())
	assert.Len(t, rec.Result().Cookies(), 2)
}

func TestRequireAuth_RejectsMissingSession(t *testing.T) {
	t.Parallel()

	c, _ := newCtx()
	err := newMW().RequireAuth(okHandler)(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestOptionalAuth_PassesThrough(t *testing.T) {
	t.Parallel()

	c, rec := newCtx()
	require.NoError(t, newMW().OptionalAuth(func(c echo.Context) error {
		assert.Nil(t, c.Get("user_id"))
		return c.NoContent(http.StatusNoContent)
	})(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
