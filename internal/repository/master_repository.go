package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/model"
)

// InventoryTotals is the raw per-product aggregate behind the stock summary.
type InventoryTotals struct {
	WaterProductID uint
	ProductName    string
	UnitPrice      decimal.Decimal
	Received       int64
	Delivered      int64
}

// MasterRepository reads reference data shared by the inventory screens.
type MasterRepository interface {
	ListWaterProducts(ctx context.Context) ([]model.WaterProduct, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	ListReceiptStatuses(ctx context.Context) ([]model.ReceiptStatus, error)
	ListDeliveryStatuses(ctx context.Context) ([]model.DeliveryStatus, error)
	InventoryTotals(ctx context.Context) ([]InventoryTotals, error)
}

type masterRepository struct {
	db *gorm.DB
}

// NewMasterRepository builds a GORM-backed repository.
func NewMasterRepository(db *gorm.DB) MasterRepository {
	return &masterRepository{db: db}
}

func (r *masterRepository) ListWaterProducts(ctx context.Context) ([]model.WaterProduct, error) {
	var products []model.WaterProduct
	err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error
	return products, err
}

func (r *masterRepository) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).
		Preload("DeliveryPersons", func(db *gorm.DB) *gorm.DB { return db.Order("full_name ASC") }).
		Order("name ASC").
		Find(&suppliers).Error
	return suppliers, err
}

func (r *masterRepository) ListReceiptStatuses(ctx context.Context) ([]model.ReceiptStatus, error) {
	var statuses []model.ReceiptStatus
	err := r.db.WithContext(ctx).Order("id ASC").Find(&statuses).Error
	return statuses, err
}

func (r *masterRepository) ListDeliveryStatuses(ctx context.Context) ([]model.DeliveryStatus, error) {
	var statuses []model.DeliveryStatus
	err := r.db.WithContext(ctx).Order("id ASC").Find(&statuses).Error
	return statuses, err
}

const inventoryTotalsSQL = `
SELECT
    water_product.id AS water_product_id,
    water_product.name AS product_name,
    water_product.unit_price AS unit_price,
    COALESCE((
        SELECT SUM(app_receipt_lot.quantity) FROM app_receipt_lot
        JOIN receipt_status ON receipt_status.id = app_receipt_lot.status_id
        WHERE app_receipt_lot.water_product_id = water_product.id
          AND app_receipt_lot.deleted_at IS NULL
          AND receipt_status.code = ?
    ), 0) AS received,
    COALESCE((
        SELECT SUM(deliveries.quantity) FROM deliveries
        JOIN delivery_status ON delivery_status.id = deliveries.status_id
        WHERE deliveries.water_product_id = water_product.id
          AND deliveries.deleted_at IS NULL
          AND delivery_status.code = ?
    ), 0) AS delivered
FROM water_product
ORDER BY water_product.id`

func (r *masterRepository) InventoryTotals(ctx context.Context) ([]InventoryTotals, error) {
	var rows []InventoryTotals
	err := r.db.WithContext(ctx).
		Raw(inventoryTotalsSQL, model.ReceiptStatusCompleted, model.DeliveryStatusCompleted).
		Scan(&rows).Error
	return rows, err
}

// findProduct resolves a product by numeric id or, failing that, by exact name.
func findProduct(ctx context.Context, db *gorm.DB, identifier string) (*model.WaterProduct, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.ErrProductNotFound
	}
	var product model.WaterProduct
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		err := db.WithContext(ctx).First(&product, uint(id)).Error
		if err == nil {
			return &product, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	err := db.WithContext(ctx).Where("name = ?", identifier).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// findStatus resolves a status row by numeric id, code or case-insensitive name.
func findStatus(ctx context.Context, db *gorm.DB, dest interface{}, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return apperrors.ErrStatusNotFound
	}
	q := db.WithContext(ctx)
	var err error
	if id, convErr := strconv.ParseUint(identifier, 10, 64); convErr == nil {
		err = q.First(dest, uint(id)).Error
	} else {
		err = q.Where("code = ? OR LOWER(name) = ?", strings.ToUpper(identifier), strings.ToLower(identifier)).
			First(dest).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrStatusNotFound
	}
	return err
}
