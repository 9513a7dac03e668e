package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type OutboxEvent struct {
	ID          uint       `gorm:"primaryKey"              json:"id"`
	AggregateID string     `gorm:"size:20;not null;index"  json:"aggregate_id"`
	Type        string     `gorm:"size:40;not null"        json:"type"`
	Payload     string     `gorm:"type:text;not null"      json:"payload"`
	Attempts    int        `gorm:"not null;default:0"      json:"attempts"`
	LastError   string     `gorm:"type:text"               json:"last_error,omitempty"`
	CreatedAt   time.Time  `gorm:"index"                   json:"created_at"`
	ProcessedAt *time.Time `gorm:"index"                   json:"processed_at,omitempty"`
}

// OrderEvent is the JSON payload of every order outbox event.
type OrderEvent struct {
	Type          string           `json:"type"`
	OrderID       string           `json:"order_id"`
	StudentID     string           `json:"student_id"`
	UserID        *uint            `json:"user_id,omitempty"`
	Name          string           `json:"name"`
	PaymentMethod string           `json:"payment_method"`
	Status        string           `json:"status"`
	Date          time.Time        `json:"date"`
	Items         []OrderEventItem `json:"items,omitempty"`
}

type OrderEventItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

func NewOrderEvent(eventType string, o *Order) OrderEvent {
	ev := OrderEvent{
		Type:          eventType,
		OrderID:       o.OrderID,
		StudentID:     o.StudentID,
		UserID:        o.UserID,
		Name:          o.Name,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		Date:          o.DateCreated,
	}
	if eventType == EventOrderCreated {
		ev.Items = make([]OrderEventItem, 0, len(o.Items))
		for _, it := range o.Items {
			ev.Items = append(ev.Items, OrderEventItem{Name: it.Name, Price: it.Price, Quantity: it.Quantity})
		}
	}
	return ev
}
