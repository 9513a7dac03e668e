package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/campus_cafeteria/internal/receipt"
	"github.com/Skotchmaster/campus_cafeteria/internal/repo"
)

type ReceiptService struct {
	Repo     *repo.GormRepo
	Location *time.Location
}

func (svc *ReceiptService) Receipt(ctx context.Context, orderID string) (*Export, error) {
	o, err := svc.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, translate(err, "order "+orderID)
	}
	data, err := receipt.Render(o, svc.Location)
	if err != nil {
		return nil, err
	}
	return &Export{Filename: receipt.Filename(o.OrderID), Data: data}, nil
}
