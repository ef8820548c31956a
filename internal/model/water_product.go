package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WaterProduct is a stocked water item (bottle size, case, etc.).
type WaterProduct struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:150;uniqueIndex;not null"`
	Volume      string          `json:"volume" gorm:"size:50"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,2);not null;default:0"`
	Description string          `json:"description" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName keeps the legacy table name.
func (WaterProduct) TableName() string {
	return "water_product"
}

// DefaultWaterProducts is the product catalogue seeded on a fresh database.
func DefaultWaterProducts() []WaterProduct {
	return []WaterProduct{
		{ID: 1, Name: "Bottled water 19L", Volume: "19L", UnitPrice: decimal.RequireFromString("3.50"), Description: "Dispenser bottle"},
		{ID: 2, Name: "Bottled water 500ml (case of 24)", Volume: "24x500ml", UnitPrice: decimal.RequireFromString("6.00")},
		{ID: 3, Name: "Bottled water 1.5L (case of 12)", Volume: "12x1.5L", UnitPrice: decimal.RequireFromString("7.20")},
	}
}
