package model

import "time"

// TrashEntry wraps a soft-deleted row with the moment it becomes eligible for purge.
type TrashEntry[T any] struct {
	Item      T         `json:"item"`
	DeletedAt time.Time `json:"deleted_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PurgeResult counts rows removed by a purge run.
type PurgeResult struct {
	Receipts   int64     `json:"receipts"`
	Deliveries int64     `json:"deliveries"`
	Users      int64     `json:"users"`
	Cutoff     time.Time `json:"cutoff"`
	DryRun     bool      `json:"dry_run"`
}

// InventoryLine is one row of the stock summary.
type InventoryLine struct {
	WaterProductID uint   `json:"water_product_id"`
	ProductName    string `json:"product_name"`
	Received       int64  `json:"received"`
	Delivered      int64  `json:"delivered"`
	OnHand         int64  `json:"on_hand"`
	StockValue     string `json:"stock_value"`
}
