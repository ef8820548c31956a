package model

import "time"

// Supplier delivers water product lots into stock.
type Supplier struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:200;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DeliveryPersons []DeliveryPerson `json:"delivery_persons,omitempty" gorm:"foreignKey:SupplierID"`
}

// TableName keeps the legacy table name.
func (Supplier) TableName() string {
	return "app_supplier"
}

// DeliveryPerson is scoped to a supplier: the same name under two suppliers is two records.
type DeliveryPerson struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FullName   string    `json:"full_name" gorm:"size:200;not null;uniqueIndex:idx_delivery_person_supplier"`
	SupplierID uint      `json:"supplier_id" gorm:"not null;uniqueIndex:idx_delivery_person_supplier"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName keeps the legacy table name.
func (DeliveryPerson) TableName() string {
	return "app_delivery_person"
}
