package model

import (
	"time"

	"gorm.io/gorm"
)

// Receipt status codes.
const (
	ReceiptStatusProcessing = "PROCESSING"
	ReceiptStatusCompleted  = "COMPLETED"
	ReceiptStatusCancelled  = "CANCELLED"
)

// ReceiptStatus is reference data for the lot lifecycle.
type ReceiptStatus struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Code string `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name string `json:"name" gorm:"size:100;not null"`
}

// TableName keeps the legacy table name.
func (ReceiptStatus) TableName() string {
	return "receipt_status"
}

// DefaultReceiptStatuses is seeded at startup; the first entry is the creation status.
func DefaultReceiptStatuses() []ReceiptStatus {
	return []ReceiptStatus{
		{ID: 1, Code: ReceiptStatusProcessing, Name: "Processing"},
		{ID: 2, Code: ReceiptStatusCompleted, Name: "Completed"},
		{ID: 3, Code: ReceiptStatusCancelled, Name: "Cancelled"},
	}
}

// ReceiptLot is a single inbound batch of water product recorded at receipt time.
type ReceiptLot struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	LotCode          string         `json:"lot_code" gorm:"size:40;uniqueIndex;not null"`
	SupplierID       uint           `json:"supplier_id" gorm:"not null;index"`
	DeliveryPersonID uint           `json:"delivery_person_id" gorm:"not null;index"`
	WaterProductID   uint           `json:"water_product_id" gorm:"not null;index"`
	Quantity         int            `json:"quantity" gorm:"not null"`
	ReceiptDate      time.Time      `json:"receipt_date" gorm:"not null"`
	StatusID         uint           `json:"status_id" gorm:"not null;index"`
	CreatedByID      *uint          `json:"created_by" gorm:"column:created_by;index"`
	QRPayload        string         `json:"qr_payload" gorm:"column:qr_payload;type:text"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relations
	Supplier       Supplier       `json:"supplier" gorm:"foreignKey:SupplierID"`
	DeliveryPerson DeliveryPerson `json:"delivery_person" gorm:"foreignKey:DeliveryPersonID"`
	WaterProduct   WaterProduct   `json:"water_product" gorm:"foreignKey:WaterProductID"`
	Status         ReceiptStatus  `json:"status" gorm:"foreignKey:StatusID"`
	CreatedBy      *User          `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
}

// TableName keeps the legacy table name.
func (ReceiptLot) TableName() string {
	return "app_receipt_lot"
}
