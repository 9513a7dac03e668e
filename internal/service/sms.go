package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/campus_cafeteria/internal/repo"
	"github.com/Skotchmaster/campus_cafeteria/internal/sms"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
)

const smsDefaultReference = "Verified via SMS"

type SMSService struct {
	Repo    *repo.GormRepo
	Senders *sms.AllowList
	Now     func() time.Time
}

// Process reconciles one staff SMS against the orders table. Business
// outcomes are reported in the result; the error is reserved for storage
// failures.
func (svc *SMSService) Process(ctx context.Context, sender, body string) (transport.SMSResult, error) {
	l := logging.FromContext(ctx).With("svc", "sms.process", "sender", sender)

	if !svc.Senders.Allowed(sender) {
		l.Warn("sms_rejected", "reason", "sender not allowed")
		return transport.SMSResult{Message: "SMS not from authorized staff number"}, nil
	}

	parsed := sms.Parse(body)
	if parsed.OrderID == "" {
		l.Info("sms_ignored", "reason", "no order id")
		return transport.SMSResult{Message: "No order ID found in SMS message"}, nil
	}
	l = l.With("order_id", parsed.OrderID)
	if parsed.Amount != nil {
		l = l.With("amount", parsed.Amount.StringFixed(2))
	}

	ref := parsed.Reference
	if ref == "" {
		ref = smsDefaultReference
	}

	now := time.Now().UTC()
	if svc.Now != nil {
		now = svc.Now()
	}

	already, err := svc.Repo.MarkPaid(ctx, parsed.OrderID, ref, now)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		l.Info("sms_unmatched")
		return transport.SMSResult{Message: "No matching order found for ID: " + parsed.OrderID}, nil
	}
	if err != nil {
		return transport.SMSResult{}, err
	}
	if already {
		l.Info("sms_duplicate")
		return transport.SMSResult{Success: true, Message: fmt.Sprintf("Order %s already marked as successful", parsed.OrderID)}, nil
	}

	l.Info("sms_reconciled", "reference", ref)
	return transport.SMSResult{Success: true, Message: fmt.Sprintf("Order %s status updated to successful", parsed.OrderID)}, nil
}
