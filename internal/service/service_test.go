package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/campus_cafeteria/internal/paystore"
	"github.com/Skotchmaster/campus_cafeteria/internal/repo"
	"github.com/Skotchmaster/campus_cafeteria/internal/sms"
	"github.com/Skotchmaster/campus_cafeteria/internal/testutil"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
)

type fixture struct {
	repo     *repo.GormRepo
	orders   *OrderService
	payments *PaymentService
	sms      *SMSService
	tx       *TransactionService
	users    *UserService
	intents  *paystore.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	r := testutil.NewRepo(t)
	orders := &OrderService{Repo: r}
	intents := paystore.NewMemoryStore()
	return &fixture{
		repo:     r,
		orders:   orders,
		payments: &PaymentService{Repo: r, Orders: orders, Intents: intents},
		sms: &SMSService{
			Repo:    r,
			Senders: sms.NewAllowList([]string{"+919876543210", "+919876543211"}),
			Now:     func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		},
		tx:      &TransactionService{Repo: r},
		users:   &UserService{Repo: r, ResetSecret: []byte("test-reset-secret")},
		intents: intents,
	}
}

func line(name, price string, qty int) transport.CartLine {
	return transport.CartLine{Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
}

func cartJSON(t *testing.T, lines ...transport.CartLine) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(lines)
	require.NoError(t, err)
	return raw
}

func checkoutReq(t *testing.T, orderID, method string, lines ...transport.CartLine) transport.CheckoutRequest {
	return transport.CheckoutRequest{
		Name:          "Asha",
		StudentID:     "S100",
		PaymentMethod: method,
		OrderID:       orderID,
		CartData:      cartJSON(t, lines...),
	}
}

var bg = context.Background()
