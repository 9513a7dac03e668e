package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
	"github.com/Skotchmaster/campus_cafeteria/internal/repo"
	"github.com/Skotchmaster/campus_cafeteria/internal/report"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
)

type TransactionService struct {
	Repo *repo.GormRepo
	Now  func() time.Time
}

func (svc *TransactionService) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}

func summary(o *models.Order) transport.TransactionSummary {
	return transport.TransactionSummary{
		OrderID:   o.OrderID,
		StudentID: o.StudentID,
		Date:      o.DateCreated.UnixMilli(),
		Total:     o.Total(),
		Status:    o.Status,
	}
}

func transactionItems(o *models.Order) []transport.TransactionItem {
	items := make([]transport.TransactionItem, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		items = append(items, transport.TransactionItem{
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Total:    it.LineTotal(),
		})
	}
	return items
}

func (svc *TransactionService) List(ctx context.Context) ([]transport.TransactionSummary, error) {
	orders, err := svc.Repo.ListOrders(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	out := make([]transport.TransactionSummary, 0, len(orders))
	for i := range orders {
		out = append(out, summary(&orders[i]))
	}
	return out, nil
}

func (svc *TransactionService) Detail(ctx context.Context, orderID string) (*transport.TransactionDetail, error) {
	o, err := svc.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("Order with ID %s not found", orderID))
	}
	return &transport.TransactionDetail{
		TransactionSummary: summary(o),
		Name:               o.Name,
		PaymentMethod:      o.PaymentMethod,
		Items:              transactionItems(o),
	}, nil
}

// UpdateStatus is the manager override. When a delivery id is given the
// delivery follows: successful becomes delivered, anything else is copied.
// A delivery failure is reported in the response, not as an error.
func (svc *TransactionService) UpdateStatus(ctx context.Context, orderID string, req transport.UpdateStatusRequest) (*transport.UpdateStatusResponse, error) {
	l := logging.FromContext(ctx).With("svc", "transactions.update_status", "order_id", orderID)

	if !models.ValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("%w: Invalid status value", ErrValidation)
	}

	if _, err := svc.Repo.UpdateOrderStatus(ctx, orderID, req.Status); err != nil {
		return nil, translate(err, fmt.Sprintf("Order with ID %s not found", orderID))
	}
	resp := &transport.UpdateStatusResponse{Success: true, OrderID: orderID, NewStatus: req.Status}

	if req.DeliveryID != nil {
		ds := req.Status
		if req.Status == models.OrderStatusSuccessful {
			ds = models.DeliveryDelivered
		}
		if err := svc.Repo.UpdateDeliveryStatus(ctx, *req.DeliveryID, ds); err != nil {
			l.Warn("delivery_update_failed", "delivery_id", *req.DeliveryID, "error", err)
			resp.Error = "Delivery update failed: " + err.Error()
		} else {
			resp.DeliveryStatus = ds
		}
	}

	l.Info("status_updated", "status", req.Status)
	return resp, nil
}

type Export struct {
	Filename string
	Data     []byte
}

func (svc *TransactionService) Export(ctx context.Context, filter string) (*Export, error) {
	now := svc.now()
	w, err := report.WindowFor(filter, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	orders, err := svc.Repo.ListOrders(ctx, w.Since)
	if err != nil {
		return nil, err
	}

	data, err := report.Build(orders, w, now)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("export_built", "svc", "transactions.export", "filter", w.Filter, "orders", len(orders), "bytes", len(data))
	return &Export{Filename: w.Filename, Data: data}, nil
}

func (svc *TransactionService) Deliveries(ctx context.Context) ([]models.DeliveryInfo, error) {
	return svc.Repo.ListDeliveries(ctx)
}
