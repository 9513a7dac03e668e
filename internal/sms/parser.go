package sms

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// TestSender skips the allow-list check.
const TestSender = "Test"

var (
	orderIDRe   = regexp.MustCompile(`(?i)\bCMS-(\d{6})\b`)
	amountRe    = regexp.MustCompile(`(?:Rs\.?|₹)\s*([0-9,]+(?:\.[0-9]{1,2})?)`)
	referenceRe = regexp.MustCompile(`(?i)(?:UPI Ref|Ref No|Reference|txn id|txn)[:\s]*([A-Za-z0-9]+)`)
)

type Parsed struct {
	OrderID   string
	Amount    *decimal.Decimal
	Reference string
}

// Parse extracts what it can from a free-text payment SMS. OrderID is
// normalised to "CMS-" plus the six digits.
func Parse(body string) Parsed {
	var p Parsed

	if m := orderIDRe.FindStringSubmatch(body); m != nil {
		p.OrderID = "CMS-" + m[1]
	}

	if m := amountRe.FindStringSubmatch(body); m != nil {
		if d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "")); err == nil {
			p.Amount = &d
		}
	}

	if m := referenceRe.FindStringSubmatch(body); m != nil {
		p.Reference = m[1]
	}

	return p
}

type AllowList struct {
	senders map[string]struct{}
}

func NewAllowList(senders []string) *AllowList {
	al := &AllowList{senders: make(map[string]struct{}, len(senders))}
	for _, s := range senders {
		al.senders[strings.TrimSpace(s)] = struct{}{}
	}
	return al
}

func (al *AllowList) Allowed(sender string) bool {
	sender = strings.TrimSpace(sender)
	if sender == TestSender {
		return true
	}
	_, ok := al.senders[sender]
	return ok
}
