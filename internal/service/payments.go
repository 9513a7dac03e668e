package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
	"github.com/Skotchmaster/campus_cafeteria/internal/paystore"
	"github.com/Skotchmaster/campus_cafeteria/internal/repo"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
	"github.com/Skotchmaster/campus_cafeteria/internal/upi"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
)

const (
	PaymentsBase    = "/managepayments"
	CallbackPath    = PaymentsBase + "/payment-callback"
	UPIPaymentPath  = PaymentsBase + "/upi-payment"
	MockGatewayPath = PaymentsBase + "/mock-razorpay"
	ConfirmPath     = PaymentsBase + "/confirmation"

	mockSignature = "mock_signature"
)

// ErrInvalidPayment covers every callback that cannot be finalized: wrong
// status, unknown or already used token, mismatched order.
var ErrInvalidPayment = errors.New("invalid payment data")

// Shopper is the logged-in user placing an order, if any.
type Shopper struct {
	ID   uint
	Name string
}

type PaymentService struct {
	Repo    *repo.GormRepo
	Orders  *OrderService
	Intents paystore.Store
	TTL     time.Duration
}

func shortHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func cartTotal(lines []transport.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, ln := range lines {
		total = total.Add(ln.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	return total
}

func (svc *PaymentService) ttl() time.Duration {
	if svc.TTL > 0 {
		return svc.TTL
	}
	return paystore.DefaultTTL
}

// Checkout stores a payment intent for the cart and tells the client where
// to go next for the chosen payment method.
func (svc *PaymentService) Checkout(ctx context.Context, req transport.CheckoutRequest, shopper *Shopper) (*transport.CheckoutResponse, error) {
	l := logging.FromContext(ctx).With("svc", "payment.checkout", "order_id", req.OrderID)

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.StudentID) == "" ||
		strings.TrimSpace(req.PaymentMethod) == "" || strings.TrimSpace(req.OrderID) == "" || len(req.CartData) == 0 {
		return nil, fmt.Errorf("%w: Missing required data", ErrValidation)
	}
	if shopper != nil && !strings.EqualFold(strings.TrimSpace(shopper.Name), strings.TrimSpace(req.Name)) {
		return nil, fmt.Errorf("%w: name does not match the logged-in user", ErrForbidden)
	}

	lines, err := transport.ParseCart(req.CartData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, transport.ErrCartFormat)
	}
	if err := validateLines(lines); err != nil {
		return nil, fmt.Errorf("%w: %w", err, transport.ErrCartFormat)
	}

	var delivery *transport.DeliveryFields
	if req.PaymentMethod == models.PaymentClassroomDelivery {
		if req.FloorNumber == "" || req.Classroom == "" || req.DeliveryTime == "" {
			return nil, fmt.Errorf("%w: Missing required data", ErrValidation)
		}
		d := req.DeliveryFields
		delivery = &d
	}

	if _, err := svc.Repo.GetOrder(ctx, req.OrderID); err == nil {
		return nil, fmt.Errorf("%w: order %s already exists", ErrConflict, req.OrderID)
	}

	in := &paystore.Intent{
		Token:          uuid.NewString(),
		GatewayOrderID: "order_" + shortHex(),
		OrderID:        req.OrderID,
		StudentID:      req.StudentID,
		Name:           req.Name,
		PaymentMethod:  req.PaymentMethod,
		Items:          lines,
		Amount:         cartTotal(lines),
		Delivery:       delivery,
		CreatedAt:      time.Now().UTC(),
	}
	if shopper != nil {
		id := shopper.ID
		in.UserID = &id
	}
	if err := svc.Intents.Save(ctx, in, svc.ttl()); err != nil {
		return nil, fmt.Errorf("save payment intent: %w", err)
	}

	l.Info("payment_initiated", "method", in.PaymentMethod, "amount", in.Amount.StringFixed(2))
	return &transport.CheckoutResponse{
		Success:     true,
		Token:       in.Token,
		OrderID:     in.OrderID,
		Amount:      in.Amount,
		RedirectURL: redirectFor(in),
	}, nil
}

func redirectFor(in *paystore.Intent) string {
	q := url.Values{}
	switch in.PaymentMethod {
	case models.PaymentCash:
		q.Set("razorpay_order_id", in.GatewayOrderID)
		q.Set("razorpay_payment_id", "cash_payment"+in.GatewayOrderID)
		q.Set("razorpay_signature", mockSignature)
		q.Set("status", "success")
		q.Set("order_id", in.OrderID)
		q.Set("payment_method", models.PaymentCash)
		q.Set("token", in.Token)
		return CallbackPath + "?" + q.Encode()
	case models.PaymentUPI:
		q.Set("order_id", in.OrderID)
		q.Set("amount", in.Amount.StringFixed(2))
		q.Set("token", in.Token)
		return UPIPaymentPath + "?" + q.Encode()
	default:
		q.Set("order_id", in.OrderID)
		q.Set("amount", in.Amount.StringFixed(2))
		q.Set("payment_method", in.PaymentMethod)
		q.Set("token", in.Token)
		return MockGatewayPath + "?" + q.Encode()
	}
}

func (svc *PaymentService) Intent(ctx context.Context, token string) (*paystore.Intent, error) {
	in, err := svc.Intents.Get(ctx, token)
	if errors.Is(err, paystore.ErrIntentNotFound) {
		return nil, fmt.Errorf("%w: payment session expired", ErrNotFound)
	}
	return in, err
}

// MockGateway describes the fake card page: the intent and the two
// callback URLs its buttons lead to.
func (svc *PaymentService) MockGateway(ctx context.Context, token string) (*transport.MockGatewayPage, error) {
	in, err := svc.Intent(ctx, token)
	if err != nil {
		return nil, err
	}

	cb := func(status string) string {
		q := url.Values{}
		q.Set("razorpay_order_id", in.GatewayOrderID)
		q.Set("razorpay_payment_id", "pay_"+shortHex())
		q.Set("razorpay_signature", mockSignature)
		q.Set("status", status)
		q.Set("order_id", in.OrderID)
		q.Set("payment_method", in.PaymentMethod)
		q.Set("token", in.Token)
		return CallbackPath + "?" + q.Encode()
	}

	return &transport.MockGatewayPage{
		OrderID:        in.OrderID,
		GatewayOrderID: in.GatewayOrderID,
		Amount:         in.Amount,
		PaymentMethod:  in.PaymentMethod,
		Name:           in.Name,
		StudentID:      in.StudentID,
		Items:          in.Items,
		SuccessURL:     cb("success"),
		FailureURL:     cb("failed"),
	}, nil
}

// UPIQR returns the collect URI for the intent and its PNG rendering.
func (svc *PaymentService) UPIQR(ctx context.Context, token string) (*paystore.Intent, string, []byte, error) {
	in, err := svc.Intent(ctx, token)
	if err != nil {
		return nil, "", nil, err
	}
	payload := upi.Payload(upi.Request{OrderID: in.OrderID, StudentID: in.StudentID, Amount: in.Amount})
	png, err := upi.QRCode(payload)
	if err != nil {
		return nil, "", nil, err
	}
	return in, payload, png, nil
}

// Callback is the single finalization point for gateway redirects.
func (svc *PaymentService) Callback(ctx context.Context, cb transport.PaymentCallback) (*models.Order, error) {
	if cb.Status != "success" || cb.Token == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidation, ErrInvalidPayment)
	}
	return svc.finalize(ctx, cb.Token, cb.OrderID, func(*paystore.Intent) string { return cb.PaymentID })
}

// ConfirmUPI finalizes a UPI intent after the shopper reports payment.
func (svc *PaymentService) ConfirmUPI(ctx context.Context, token string) (*models.Order, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidation, ErrInvalidPayment)
	}
	return svc.finalize(ctx, token, "", func(*paystore.Intent) string { return "upi_" + shortHex() })
}

func (svc *PaymentService) finalize(ctx context.Context, token, orderID string, paymentID func(*paystore.Intent) string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "payment.finalize")

	in, err := svc.Intents.Take(ctx, token)
	if errors.Is(err, paystore.ErrIntentNotFound) {
		l.Warn("payment_intent_missing", "order_id", orderID)
		return nil, fmt.Errorf("%w: %w", ErrValidation, ErrInvalidPayment)
	}
	if err != nil {
		return nil, err
	}
	l = l.With("order_id", in.OrderID)

	if orderID != "" && orderID != in.OrderID {
		svc.restore(ctx, in)
		l.Warn("payment_order_mismatch", "callback_order_id", orderID)
		return nil, fmt.Errorf("%w: %w", ErrValidation, ErrInvalidPayment)
	}

	pid := paymentID(in)
	if pid == "" {
		pid = "pay_" + shortHex()
	}

	order, err := svc.Orders.PlaceOrder(ctx, NewOrder{
		OrderID:       in.OrderID,
		StudentID:     in.StudentID,
		Name:          in.Name,
		PaymentMethod: in.PaymentMethod,
		PaymentID:     pid,
		Status:        models.OrderStatusInProgress,
		UserID:        in.UserID,
		Lines:         in.Items,
		Delivery:      in.Delivery,
	})
	if err != nil {
		if !errors.Is(err, ErrConflict) && !errors.Is(err, ErrValidation) {
			svc.restore(ctx, in)
		}
		return nil, err
	}

	l.Info("payment_finalized", "payment_id", pid, "method", in.PaymentMethod)
	return order, nil
}

// restore puts a taken intent back so the shopper can retry.
func (svc *PaymentService) restore(ctx context.Context, in *paystore.Intent) {
	if err := svc.Intents.Save(ctx, in, svc.ttl()); err != nil {
		logging.FromContext(ctx).Error("payment_intent_restore_failed", "order_id", in.OrderID, "error", err)
	}
}

func ConfirmationURL(orderID string) string {
	return ConfirmPath + "?" + url.Values{"order_id": {orderID}}.Encode()
}

func (svc *PaymentService) Confirmation(ctx context.Context, orderID string) (*transport.ConfirmationResponse, error) {
	o, err := svc.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, translate(err, "order "+orderID)
	}
	return &transport.ConfirmationResponse{
		Success:       true,
		OrderID:       o.OrderID,
		Name:          o.Name,
		StudentID:     o.StudentID,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		Date:          o.DateCreated.UnixMilli(),
		Items:         transactionItems(o),
		Total:         o.Total(),
	}, nil
}
