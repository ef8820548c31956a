package model

import (
	"time"

	"gorm.io/gorm"
)

// Delivery status codes. Same codes as receipts, separate table.
const (
	DeliveryStatusProcessing = "PROCESSING"
	DeliveryStatusCompleted  = "COMPLETED"
	DeliveryStatusCancelled  = "CANCELLED"
)

// DefaultDeliveryStatusID is used when a delivery is created without a status.
const DefaultDeliveryStatusID uint = 1

// DeliveryStatus is reference data for the delivery ledger.
type DeliveryStatus struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Code string `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name string `json:"name" gorm:"size:100;not null"`
}

// TableName keeps the legacy table name.
func (DeliveryStatus) TableName() string {
	return "delivery_status"
}

// DefaultDeliveryStatuses is seeded at startup.
func DefaultDeliveryStatuses() []DeliveryStatus {
	return []DeliveryStatus{
		{ID: 1, Code: DeliveryStatusProcessing, Name: "Processing"},
		{ID: 2, Code: DeliveryStatusCompleted, Name: "Completed"},
		{ID: 3, Code: DeliveryStatusCancelled, Name: "Cancelled"},
	}
}

// Delivery records an outbound stock movement to a recipient.
type Delivery struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	DeliveryCode   string         `json:"delivery_code" gorm:"size:40;uniqueIndex;not null"`
	RecipientName  string         `json:"recipient_name" gorm:"size:200;not null"`
	DepartmentID   *uint          `json:"department_id" gorm:"index"`
	WaterProductID uint           `json:"water_product_id" gorm:"not null;index"`
	Quantity       int            `json:"quantity" gorm:"not null"`
	DeliveryTime   time.Time      `json:"delivery_time" gorm:"not null"`
	StatusID       uint           `json:"status_id" gorm:"not null;default:1;index"`
	Note           string         `json:"note" gorm:"type:text"`
	CreatedByID    *uint          `json:"created_by" gorm:"column:created_by;index"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relations
	Department   *Department    `json:"department,omitempty" gorm:"foreignKey:DepartmentID;constraint:OnDelete:RESTRICT"`
	WaterProduct WaterProduct   `json:"water_product" gorm:"foreignKey:WaterProductID"`
	Status       DeliveryStatus `json:"status" gorm:"foreignKey:StatusID"`
	CreatedBy    *User          `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
}
