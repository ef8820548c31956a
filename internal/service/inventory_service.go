package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"wateradmin/internal/model"
	"wateradmin/internal/repository"
)

// InventoryService reports stock on hand.
type InventoryService interface {
	Summary(ctx context.Context) ([]model.InventoryLine, error)
}

type inventoryService struct {
	repo repository.MasterRepository
}

// NewInventoryService builds an InventoryService.
func NewInventoryService(repo repository.MasterRepository) InventoryService {
	return &inventoryService{repo: repo}
}

// Summary nets completed receipts against completed deliveries per product.
func (s *inventoryService) Summary(ctx context.Context) ([]model.InventoryLine, error) {
	totals, err := s.repo.InventoryTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory totals: %w", err)
	}

	lines := make([]model.InventoryLine, 0, len(totals))
	for _, t := range totals {
		onHand := t.Received - t.Delivered
		lines = append(lines, model.InventoryLine{
			WaterProductID: t.WaterProductID,
			ProductName:    t.ProductName,
			Received:       t.Received,
			Delivered:      t.Delivered,
			OnHand:         onHand,
			StockValue:     t.UnitPrice.Mul(decimal.NewFromInt(onHand)).StringFixed(2),
		})
	}
	return lines, nil
}
