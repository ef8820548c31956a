package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wateradmin/internal/model"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Role{},
		&model.Department{},
		&model.User{},
		&model.UserProfile{},
		&model.WaterProduct{},
		&model.Supplier{},
		&model.DeliveryPerson{},
		&model.ReceiptStatus{},
		&model.ReceiptLot{},
		&model.DeliveryStatus{},
		&model.Delivery{},
	}
}

// Migrate creates or updates the schema.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// SeedReferenceData inserts roles, statuses and the default catalogue. Existing rows are kept.
func SeedReferenceData(ctx context.Context, gormDB *gorm.DB) error {
	return gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles := model.DefaultRoles()
		receiptStatuses := model.DefaultReceiptStatuses()
		deliveryStatuses := model.DefaultDeliveryStatuses()
		products := model.DefaultWaterProducts()

		seeds := []interface{}{&roles, &receiptStatuses, &deliveryStatuses, &products}
		for _, rows := range seeds {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error; err != nil {
				return fmt.Errorf("seed reference data: %w", err)
			}
		}
		return nil
	})
}
