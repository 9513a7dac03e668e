// Package upi builds the mock UPI collect payload and its QR image.
package upi

import (
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

const (
	PayeeAddress = "dummyid@bank"
	PayeeName    = "EZ FOOD CAFETERIA"

	qrSize = 256
)

type Request struct {
	OrderID   string
	StudentID string
	Amount    decimal.Decimal
}

// Payload is the upi://pay URI shown to the shopper.
func Payload(r Request) string {
	q := url.Values{}
	q.Set("pa", PayeeAddress)
	q.Set("pn", PayeeName)
	q.Set("am", r.Amount.StringFixed(2))
	q.Set("tr", r.OrderID)
	q.Set("tn", fmt.Sprintf("ORDER%s-%s", r.OrderID, r.StudentID))
	return "upi://pay?" + q.Encode()
}

func QRCode(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
