package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/campus_cafeteria/internal/paystore"
	"github.com/Skotchmaster/campus_cafeteria/internal/repo"
	"github.com/Skotchmaster/campus_cafeteria/internal/service"
	"github.com/Skotchmaster/campus_cafeteria/internal/sms"
	"github.com/Skotchmaster/campus_cafeteria/internal/testutil"
	"github.com/Skotchmaster/campus_cafeteria/internal/validation"
	jwthelp "github.com/Skotchmaster/campus_cafeteria/pkg/jwt"
	"github.com/Skotchmaster/campus_cafeteria/pkg/tokens"
)

var (
	bg = context.Background()

	testJWTSecret     = []byte("test-jwt-secret")
	testRefreshSecret = []byte("test-refresh-secret")
)

type testEnv struct {
	E    *echo.Echo
	Repo *repo.GormRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := testutil.NewRepo(t)
	orders := &service.OrderService{Repo: r}
	inv := &service.InventoryService{Repo: r}

	e := echo.New()
	e.Validator = &validation.EchoValidator{V: validation.New()}

	Register(e, &Deps{
		Shop: &ShopHTTP{
			Users:         &service.UserService{Repo: r, ResetSecret: tokens.DeriveKey(testJWTSecret, tokens.PurposePasswordReset)},
			Orders:        orders,
			Inventory:     inv,
			JWTSecret:     testJWTSecret,
			RefreshSecret: testRefreshSecret,
		},
		Payments: &PaymentHTTP{
			Payments:  &service.PaymentService{Repo: r, Orders: orders, Intents: paystore.NewMemoryStore()},
			Inventory: inv,
			Receipts:  &service.ReceiptService{Repo: r},
		},
		SMS: &SMSHTTP{Svc: &service.SMSService{Repo: r, Senders: sms.NewAllowList([]string{"+919876543210"})}},
		Transactions: &TransactionHTTP{
			Svc:       &service.TransactionService{Repo: r},
			LoginPath: ManagerLoginPath,
		},
		Dashboard:     &DashboardHTTP{Inventory: inv},
		Managers:      &ManagerHTTP{Svc: &service.ManagerService{Repo: r}, JWTSecret: testJWTSecret, RefreshSecret: testRefreshSecret},
		JWTSecret:     testJWTSecret,
		RefreshSecret: testRefreshSecret,
		Ready:         r.Ping,
	})
	return &testEnv{E: e, Repo: r}
}

func sessionCookie(t *testing.T, subject, role, name string) *http.Cookie {
	t.Helper()
	tok, err := tokens.NewAccessToken(subject, role, name, time.Now().Add(time.Minute), testJWTSecret)
	require.NoError(t, err)
	return &http.Cookie{Name: jwthelp.AccessCookie, Value: tok}
}

func (env *testEnv) do(t *testing.T, method, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, rd)
	if rd != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
