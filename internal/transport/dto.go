package transport

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrCartFormat = errors.New("invalid cart data format")

type CartLine struct {
	ItemID   *uint           `json:"item_id,omitempty"`
	Name     string          `json:"name"     validate:"required"`
	Price    decimal.Decimal `json:"price"    validate:"dgte0"`
	Quantity int             `json:"quantity" validate:"gt=0"`
}

// ParseCart accepts a JSON array of lines or a JSON string that itself holds
// the array (as sent by form posts).
func ParseCart(raw []byte) ([]CartLine, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, ErrCartFormat
		}
		raw = []byte(inner)
	}
	var lines []CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, ErrCartFormat
	}
	return lines, nil
}

type DeliveryFields struct {
	FloorNumber   string `json:"floor_number"   form:"floor_number"`
	Classroom     string `json:"classroom"      form:"classroom"`
	DeliveryTime  string `json:"delivery_time"  form:"delivery_time"`
	DeliveryNotes string `json:"delivery_notes" form:"delivery_notes"`
}

type CheckoutRequest struct {
	Name          string          `json:"name"           form:"name"           validate:"required"`
	StudentID     string          `json:"student_id"     form:"student_id"     validate:"required"`
	PaymentMethod string          `json:"payment_method" form:"payment_method" validate:"required"`
	OrderID       string          `json:"order_id"       form:"order_id"       validate:"required,max=20"`
	CartData      json.RawMessage `json:"cart_data"      form:"-"`
	DeliveryFields
}

type CheckoutResponse struct {
	Success     bool            `json:"success"`
	Token       string          `json:"token"`
	OrderID     string          `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	RedirectURL string          `json:"redirect_url"`
}

type SaveOrderRequest struct {
	OrderID       string     `json:"order_id"       validate:"required,max=20"`
	StudentID     string     `json:"student_id"     validate:"required"`
	Name          string     `json:"name"`
	PaymentMethod string     `json:"payment_method"`
	Items         []CartLine `json:"items"          validate:"required,min=1,dive"`
}

type PaymentCallback struct {
	GatewayOrderID string `query:"razorpay_order_id"   form:"razorpay_order_id"`
	PaymentID      string `query:"razorpay_payment_id" form:"razorpay_payment_id"`
	Signature      string `query:"razorpay_signature"  form:"razorpay_signature"`
	Status         string `query:"status"              form:"status"`
	OrderID        string `query:"order_id"            form:"order_id"`
	PaymentMethod  string `query:"payment_method"      form:"payment_method"`
	Token          string `query:"token"               form:"token"`
}

type CallbackResponse struct {
	Success     bool   `json:"success"`
	OrderID     string `json:"order_id,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Message     string `json:"message,omitempty"`
}

type MockGatewayPage struct {
	OrderID        string          `json:"order_id"`
	GatewayOrderID string          `json:"razorpay_order_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method"`
	Name           string          `json:"name"`
	StudentID      string          `json:"student_id"`
	Items          []CartLine      `json:"items"`
	SuccessURL     string          `json:"success_url"`
	FailureURL     string          `json:"failure_url"`
}

type UPIQRResponse struct {
	OrderID  string          `json:"order_id"`
	Amount   decimal.Decimal `json:"amount"`
	Payload  string          `json:"payload"`
	QRBase64 string          `json:"qr_base64"`
}

type ConfirmationResponse struct {
	Success       bool              `json:"success"`
	OrderID       string            `json:"order_id"`
	Name          string            `json:"name"`
	StudentID     string            `json:"student_id"`
	PaymentMethod string            `json:"payment_method"`
	Status        string            `json:"status"`
	Date          int64             `json:"date"`
	Items         []TransactionItem `json:"items"`
	Total         decimal.Decimal   `json:"total"`
}

type UPIConfirmRequest struct {
	Token string `json:"token" form:"token" query:"token" validate:"required"`
}

type UpdateInventoryRequest struct {
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`
}

type UpdateInventoryResponse struct {
	Item      string `json:"item"`
	Previous  int    `json:"previous"`
	Purchased int    `json:"purchased"`
	Remaining int    `json:"remaining"`
}

type InventoryItemRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Category string `json:"category" validate:"max=50"`
}

type InventoryPatchRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1,max=100"`
	Quantity *int    `json:"quantity" validate:"omitempty,gte=0"`
	Category *string `json:"category" validate:"omitempty,max=50"`
}

type PublicItem struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
}

type SMSWebhookRequest struct {
	From       string `json:"From"`
	Body       string `json:"Body"`
	ReceivedAt string `json:"ReceivedAt,omitempty"`
}

type SMSResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type TransactionSummary struct {
	OrderID   string          `json:"order_id"`
	StudentID string          `json:"student_id"`
	Date      int64           `json:"date"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
}

type TransactionItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type TransactionDetail struct {
	TransactionSummary
	Name          string            `json:"name"`
	PaymentMethod string            `json:"payment_method"`
	Items         []TransactionItem `json:"items"`
}

type UpdateStatusRequest struct {
	Status     string `json:"status"`
	DeliveryID *uint  `json:"delivery_id,omitempty"`
}

type UpdateStatusResponse struct {
	Success        bool   `json:"success"`
	OrderID        string `json:"order_id"`
	NewStatus      string `json:"new_status"`
	DeliveryStatus string `json:"delivery_status,omitempty"`
	Error          string `json:"error,omitempty"`
}

type RegisterRequest struct {
	Name              string `json:"name"               form:"name"               validate:"required,max=100"`
	Email             string `json:"email"              form:"email"              validate:"required,email"`
	Phone             string `json:"phone"              form:"phone"              validate:"max=15"`
	Password          string `json:"password"           form:"password"           validate:"required,min=6"`
	ConfirmPassword   string `json:"confirm_password"   form:"confirm_password"   validate:"required,eqfield=Password"`
	SecurityQuestion1 string `json:"security_question1" form:"security_question1" validate:"required"`
	SecurityAnswer1   string `json:"security_answer1"   form:"security_answer1"   validate:"required"`
	SecurityQuestion2 string `json:"security_question2" form:"security_question2"`
	SecurityAnswer2   string `json:"security_answer2"   form:"security_answer2"   validate:"required_with=SecurityQuestion2"`
}

type LoginRequest struct {
	Name     string `json:"name"     form:"name"     validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type ManagerLoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Name string `json:"name" form:"name" validate:"required"`
}

type SecurityAnswerRequest struct {
	ResetToken string `json:"reset_token" form:"reset_token" validate:"required"`
	Answer     string `json:"answer"      form:"answer"      validate:"required"`
}

type ResetPasswordRequest struct {
	ResetToken string `json:"reset_token" form:"reset_token" validate:"required"`
	Password   string `json:"password"    form:"password"    validate:"required,min=6"`
	Confirm    string `json:"confirm"     form:"confirm"     validate:"required,eqfield=Password"`
}

type ResetStep struct {
	ResetToken string `json:"reset_token"`
	Question   string `json:"question,omitempty"`
	Verified   bool   `json:"verified"`
}

type HistoryItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type HistoryOrder struct {
	OrderID   string          `json:"orderId"`
	StudentID string          `json:"studentId"`
	Date      int64           `json:"date"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Items     []HistoryItem   `json:"items"`
}
