package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MirrorOrder is the secondary order store, fed by the outbox relay.
type MirrorOrder struct {
	ID            uint              `gorm:"primaryKey"                   json:"id"`
	OrderID       string            `gorm:"size:20;uniqueIndex;not null" json:"order_id"`
	StudentID     string            `gorm:"size:50;not null"             json:"student_id"`
	UserID        *uint             `gorm:"index"                        json:"user_id,omitempty"`
	Name          string            `gorm:"size:100"                     json:"name"`
	PaymentMethod string            `gorm:"size:20"                      json:"payment_method"`
	Status        string            `gorm:"size:20;not null"             json:"status"`
	Date          time.Time         `gorm:"not null"                     json:"date"`
	LastEventID   uint              `gorm:"not null"                     json:"-"`
	Items         []MirrorOrderItem `gorm:"constraint:OnDelete:CASCADE"  json:"items"`
}

type MirrorOrderItem struct {
	ID            uint            `gorm:"primaryKey"                  json:"id"`
	MirrorOrderID uint            `gorm:"not null;index"              json:"-"`
	Name          string          `gorm:"size:100;not null"           json:"name"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity      int             `gorm:"not null"                    json:"quantity"`
}
