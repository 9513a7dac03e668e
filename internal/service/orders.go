package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/campus_cafeteria/internal/inventory"
	"github.com/Skotchmaster/campus_cafeteria/internal/models"
	"github.com/Skotchmaster/campus_cafeteria/internal/repo"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
)

type OrderService struct {
	Repo *repo.GormRepo
}

type NewOrder struct {
	OrderID       string
	StudentID     string
	Name          string
	PaymentMethod string
	PaymentID     string
	Status        string
	UserID        *uint
	Lines         []transport.CartLine
	Delivery      *transport.DeliveryFields
}

func validateLines(lines []transport.CartLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	for i, ln := range lines {
		if strings.TrimSpace(ln.Name) == "" {
			return fmt.Errorf("%w: line %d has no name", ErrValidation, i)
		}
		if ln.Price.IsNegative() {
			return fmt.Errorf("%w: line %d price must be >= 0", ErrValidation, i)
		}
		if ln.Quantity <= 0 {
			return fmt.Errorf("%w: line %d quantity must be > 0", ErrValidation, i)
		}
	}
	return nil
}

// PlaceOrder persists the order with its outbox event, then decrements
// stock for every line that resolved to an inventory row. Stock problems
// are logged and never fail the order.
func (svc *OrderService) PlaceOrder(ctx context.Context, in NewOrder) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "order_id", in.OrderID)

	if strings.TrimSpace(in.OrderID) == "" {
		return nil, fmt.Errorf("%w: order_id required", ErrValidation)
	}
	if strings.TrimSpace(in.StudentID) == "" {
		return nil, fmt.Errorf("%w: student_id required", ErrValidation)
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = models.OrderStatusPending
	}
	if !models.ValidOrderStatus(in.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}

	stock, err := svc.Repo.ListInventory(ctx)
	if err != nil {
		l.Warn("inventory_load_failed", "error", err)
	}

	order := &models.Order{
		OrderID:       strings.TrimSpace(in.OrderID),
		StudentID:     strings.TrimSpace(in.StudentID),
		Name:          in.Name,
		PaymentMethod: in.PaymentMethod,
		PaymentID:     in.PaymentID,
		Status:        in.Status,
		UserID:        in.UserID,
	}
	for _, ln := range in.Lines {
		order.Items = append(order.Items, models.OrderItem{
			InventoryItemID: resolveItem(stock, ln),
			Name:            ln.Name,
			Price:           ln.Price,
			Quantity:        ln.Quantity,
		})
	}
	if in.Delivery != nil {
		order.Delivery = &models.DeliveryInfo{
			FloorNumber:   in.Delivery.FloorNumber,
			Classroom:     in.Delivery.Classroom,
			DeliveryTime:  in.Delivery.DeliveryTime,
			DeliveryNotes: in.Delivery.DeliveryNotes,
			DeliveryFee:   models.DefaultDeliveryFee,
			Status:        models.DeliveryPending,
		}
	}

	if err := svc.Repo.CreateOrder(ctx, order); err != nil {
		return nil, translate(err, "order "+order.OrderID)
	}
	l.Info("order_created", "items", len(order.Items), "total", order.Total().StringFixed(2))

	svc.decrementStock(ctx, order)
	return order, nil
}

// resolveItem prefers the id sent by the client and falls back to name
// matching against the current stock.
func resolveItem(stock []models.InventoryItem, ln transport.CartLine) *uint {
	if ln.ItemID != nil {
		for i := range stock {
			if stock[i].ID == *ln.ItemID {
				id := stock[i].ID
				return &id
			}
		}
	}
	if item, _ := inventory.Match(stock, ln.Name); item != nil {
		id := item.ID
		return &id
	}
	return nil
}

func (svc *OrderService) decrementStock(ctx context.Context, order *models.Order) {
	l := logging.FromContext(ctx).With("svc", "order.decrement_stock", "order_id", order.OrderID)

	for _, it := range order.Items {
		if it.InventoryItemID == nil {
			l.Warn("inventory_no_match", "item", it.Name)
			continue
		}
		prev, left, err := svc.Repo.DecrementInventory(ctx, *it.InventoryItemID, it.Quantity)
		if err != nil {
			l.Warn("inventory_decrement_failed", "item", it.Name, "inventory_id", *it.InventoryItemID, "error", err)
			continue
		}
		l.Debug("inventory_decremented", "item", it.Name, "previous", prev, "remaining", left)
	}
}

// SaveOrder is the direct intake used by the shop API; orders start pending.
func (svc *OrderService) SaveOrder(ctx context.Context, req transport.SaveOrderRequest, userID *uint) (*models.Order, error) {
	return svc.PlaceOrder(ctx, NewOrder{
		OrderID:       req.OrderID,
		StudentID:     req.StudentID,
		Name:          req.Name,
		PaymentMethod: req.PaymentMethod,
		Status:        models.OrderStatusPending,
		UserID:        userID,
		Lines:         req.Items,
	})
}
