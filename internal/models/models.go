package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusSuccessful = "successful"
	OrderStatusCancelled  = "cancelled"
)

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusSuccessful, OrderStatusCancelled:
		return true
	}
	return false
}

const (
	PaymentCash              = "cash"
	PaymentUPI               = "upi"
	PaymentCard              = "card"
	PaymentClassroomDelivery = "classroom_delivery"
)

type Order struct {
	ID               uint          `gorm:"primaryKey"                          json:"id"`
	OrderID          string        `gorm:"size:20;uniqueIndex;not null"        json:"order_id"`
	StudentID        string        `gorm:"size:50;not null;index"              json:"student_id"`
	Name             string        `gorm:"size:100"                            json:"name"`
	PaymentMethod    string        `gorm:"size:20"                             json:"payment_method"`
	PaymentID        string        `gorm:"size:100"                            json:"payment_id,omitempty"`
	PaymentReference string        `gorm:"size:100"                            json:"payment_reference,omitempty"`
	PaymentDate      *time.Time    `                                           json:"payment_date,omitempty"`
	UserID           *uint         `gorm:"index"                               json:"user_id,omitempty"`
	Status           string        `gorm:"size:20;not null;default:pending;index" json:"status"`
	DateCreated      time.Time     `gorm:"autoCreateTime;index"                json:"date_created"`
	Items            []OrderItem   `gorm:"constraint:OnDelete:CASCADE"         json:"items,omitempty"`
	Delivery         *DeliveryInfo `gorm:"constraint:OnDelete:CASCADE"         json:"delivery,omitempty"`
}

// Total is Σ price×quantity over the loaded items.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].LineTotal())
	}
	return total
}

type OrderItem struct {
	ID              uint            `gorm:"primaryKey"                      json:"id"`
	OrderID         uint            `gorm:"not null;index"                  json:"-"`
	InventoryItemID *uint           `gorm:"index"                           json:"item_id,omitempty"`
	InventoryItem   *InventoryItem  `gorm:"constraint:OnDelete:SET NULL"    json:"-"`
	Name            string          `gorm:"size:100;not null"               json:"name"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"     json:"price"`
	Quantity        int             `gorm:"not null;check:quantity > 0"     json:"quantity"`
}

func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type InventoryItem struct {
	ID        uint      `gorm:"primaryKey"              json:"id"`
	Name      string    `gorm:"size:100;not null;index" json:"name"`
	Quantity  int       `gorm:"not null;default:0"      json:"quantity"`
	Category  string    `gorm:"size:50"                 json:"category"`
	CreatedAt time.Time `                               json:"created_at"`
	UpdatedAt time.Time `                               json:"updated_at"`
}

const (
	DeliveryPending   = "pending"
	DeliveryInTransit = "in_transit"
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
	DeliveryReturned  = "returned"
)

func ValidDeliveryStatus(s string) bool {
	switch s {
	case DeliveryPending, DeliveryInTransit, DeliveryDelivered, DeliveryFailed, DeliveryReturned:
		return true
	}
	return false
}

var DefaultDeliveryFee = decimal.NewFromInt(10)

// DeliveryInfo.Order is attached by the repo, not by gorm: orders.order_id
// would be mistaken for the foreign key.
type DeliveryInfo struct {
	ID            uint            `gorm:"primaryKey"                                json:"id"`
	OrderID       uint            `gorm:"not null;uniqueIndex"                      json:"-"`
	FloorNumber   string          `gorm:"size:10"                                   json:"floor_number"`
	Classroom     string          `gorm:"size:100"                                  json:"classroom"`
	DeliveryTime  string          `gorm:"size:20"                                   json:"delivery_time"`
	DeliveryNotes string          `gorm:"type:text"                                 json:"delivery_notes"`
	DeliveryFee   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:10.00" json:"delivery_fee"`
	Status        string          `gorm:"size:20;not null;default:pending"          json:"status"`
	Outcome       *DeliveryStatus `gorm:"constraint:OnDelete:CASCADE"               json:"outcome,omitempty"`
	Order         *Order          `gorm:"-"                                         json:"order,omitempty"`
}

type DeliveryStatus struct {
	ID             uint       `gorm:"primaryKey"           json:"id"`
	DeliveryInfoID uint       `gorm:"not null;uniqueIndex" json:"-"`
	IsSuccessful   bool       `gorm:"not null;default:false" json:"is_successful"`
	DeliveredAt    *time.Time `                            json:"delivered_at,omitempty"`
	DeliveredBy    string     `gorm:"size:100"             json:"delivered_by,omitempty"`
	Notes          string     `gorm:"type:text"            json:"notes,omitempty"`
	UpdatedAt      time.Time  `                            json:"updated_at"`
}

type ShopUser struct {
	ID                uint      `gorm:"primaryKey"               json:"id"`
	Name              string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Email             string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Phone             string    `gorm:"size:15"                  json:"phone"`
	PasswordHash      string    `gorm:"not null"                 json:"-"`
	SecurityQuestion1 string    `gorm:"size:255"                 json:"-"`
	SecurityAnswer1   string    `gorm:"size:255"                 json:"-"`
	SecurityQuestion2 string    `gorm:"size:255"                 json:"-"`
	SecurityAnswer2   string    `gorm:"size:255"                 json:"-"`
	CreatedAt         time.Time `                                json:"created_at"`
}

// Question returns the n-th (1-based) security question, "" when unset.
func (u *ShopUser) Question(n int) string {
	switch n {
	case 1:
		return u.SecurityQuestion1
	case 2:
		return u.SecurityQuestion2
	}
	return ""
}

func (u *ShopUser) AnswerHash(n int) string {
	switch n {
	case 1:
		return u.SecurityAnswer1
	case 2:
		return u.SecurityAnswer2
	}
	return ""
}

func (u *ShopUser) QuestionCount() int {
	if strings.TrimSpace(u.SecurityQuestion2) != "" && u.SecurityAnswer2 != "" {
		return 2
	}
	return 1
}

type Manager struct {
	ID           uint      `gorm:"primaryKey"                    json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254"                      json:"email"`
	PasswordHash string    `gorm:"not null"                      json:"-"`
	CreatedAt    time.Time `                                     json:"created_at"`
}

func All() []any {
	return []any{
		&InventoryItem{},
		&Order{},
		&OrderItem{},
		&DeliveryInfo{},
		&DeliveryStatus{},
		&ShopUser{},
		&Manager{},
		&MirrorOrder{},
		&MirrorOrderItem{},
		&OutboxEvent{},
	}
}
