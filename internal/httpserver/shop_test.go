package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
	"github.com/Skotchmaster/campus_cafeteria/internal/testutil"
	jwthelp "github.com/Skotchmaster/campus_cafeteria/pkg/jwt"
	"github.com/Skotchmaster/campus_cafeteria/pkg/tokens"
)

func cookieNamed(rec interface{ Result() *http.Response }, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestShop_RegisterLoginHistory(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	reg := map[string]string{
		"name":               "Asha",
		"email":              "asha@campus.edu",
		"password":           "secret1",
		"confirm_password":   "secret1",
		"security_question1": "First pet?",
		"security_answer1":   "Bruno",
	}

	rec := env.do(t, http.MethodPost, "/shop/register", reg)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/shop/register", reg)
	assert.Equal(t, http.StatusConflict, rec.Code)

	bad := map[string]string{"name": "Ravi", "email": "nope", "password": "x", "confirm_password": "y"}
	rec = env.do(t, http.MethodPost, "/shop/register", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/shop/login", map[string]string{"name": "asha", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/shop/login", map[string]string{"name": "asha", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	access := cookieNamed(rec, jwthelp.AccessCookie)
	require.NotNil(t, access)

	o := testutil.SeedOrder(t, env.Repo.DB, "CMS-600001", models.OrderStatusPending, time.Now(), testutil.Line("Tea", "10.00", 1))
	require.NoError(t, env.Repo.DB.Model(o).Update("student_id", "Asha").Error)

	rec = env.do(t, http.MethodGet, "/shop/api/get-order-history", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/shop/api/get-order-history", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode(t, rec)["orders"].([]any)
	require.Len(t, orders, 1)
	assert.Equal(t, "CMS-600001", orders[0].(map[string]any)["orderId"])
}

func TestShop_PasswordReset(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/shop/register", map[string]string{
		"name": "Asha", "email": "asha@campus.edu", "password": "secret1", "confirm_password": "secret1",
		"security_question1": "First pet?", "security_answer1": "Bruno",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/shop/forgot-password", map[string]string{"name": "nobody"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/shop/forgot-password", map[string]string{"name": "Asha"})
	require.Equal(t, http.StatusOK, rec.Code)
	step := decode(t, rec)
	assert.Equal(t, "First pet?", step["question"])

	rec = env.do(t, http.MethodPost, "/shop/security-questions", map[string]string{"reset_token": step["reset_token"].(string), "answer": "bruno"})
	require.Equal(t, http.StatusOK, rec.Code)
	step = decode(t, rec)
	assert.Equal(t, true, step["verified"])

	rec = env.do(t, http.MethodPost, "/shop/reset-password", map[string]string{"reset_token": step["reset_token"].(string), "password": "secret1", "confirm": "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/shop/reset-password", map[string]string{"reset_token": step["reset_token"].(string), "password": "better1", "confirm": "better1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/shop/reset-password", map[string]string{"reset_token": step["reset_token"].(string), "password": "other12", "confirm": "other12"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestShop_SaveOrderAndSearch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	testutil.SeedInventory(t, env.Repo.DB, "Green Tea", 10)

	body := map[string]any{
		"order_id":   "CMS-600002",
		"student_id": "S1",
		"items":      []map[string]any{{"name": "tea", "price": 12, "quantity": 1}},
	}
	rec := env.do(t, http.MethodPost, "/shop/api/save-order", body, sessionCookie(t, "5", tokens.RoleUser, "Asha"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	o, err := env.Repo.GetOrder(bg, "CMS-600002")
	require.NoError(t, err)
	require.NotNil(t, o.UserID)
	assert.EqualValues(t, 5, *o.UserID)

	rec = env.do(t, http.MethodPost, "/shop/api/save-order", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, "/shop/api/search?q=tea", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode(t, rec)
	assert.EqualValues(t, 1, res["total"])
}

func TestShop_SaveOrderRejectsNegativePrice(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	body := map[string]any{
		"order_id":   "CMS-600003",
		"student_id": "S1",
		"items":      []map[string]any{{"name": "tea", "price": -5, "quantity": 1}},
	}
	rec := env.do(t, http.MethodPost, "/shop/api/save-order", body)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	errs := decode(t, rec)["errors"].(map[string]any)
	assert.Equal(t, "dgte0", errs["Price"])

	_, err := env.Repo.GetOrder(bg, "CMS-600003")
	assert.Error(t, err)
}
