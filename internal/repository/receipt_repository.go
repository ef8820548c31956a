package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/model"
)

// ReceiptFilter narrows a lot listing.
type ReceiptFilter struct {
	Search string
	Page   Page
}

// ReceiptRepository defines persistence operations for receipt lots.
type ReceiptRepository interface {
	UpsertSupplier(ctx context.Context, name string) (*model.Supplier, error)
	UpsertDeliveryPerson(ctx context.Context, fullName string, supplierID uint) (*model.DeliveryPerson, error)
	FindProduct(ctx context.Context, identifier string) (*model.WaterProduct, error)
	FindStatus(ctx context.Context, identifier string) (*model.ReceiptStatus, error)
	LotCodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, lot *model.ReceiptLot) error
	FindByID(ctx context.Context, id uint) (*model.ReceiptLot, error)
	List(ctx context.Context, filter ReceiptFilter) ([]model.ReceiptLot, int64, error)
	UpdateStatus(ctx context.Context, id, fromStatusID, toStatusID uint) error
	SetQRPayloadIfMissing(ctx context.Context, id uint, payload string) (int64, error)
	SoftDelete(ctx context.Context, id uint, at time.Time) (int64, error)
	Restore(ctx context.Context, id uint) error
	ListTrash(ctx context.Context) ([]model.ReceiptLot, error)
	DeletePermanent(ctx context.Context, id uint) (int64, error)
	CountDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ReceiptRepository) error) error
}

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository builds a GORM-backed repository.
func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Supplier").Preload("DeliveryPerson").Preload("WaterProduct").Preload("Status")
}

func (r *receiptRepository) UpsertSupplier(ctx context.Context, name string) (*model.Supplier, error) {
	supplier := model.Supplier{}
	err := r.db.WithContext(ctx).Where(model.Supplier{Name: name}).FirstOrCreate(&supplier).Error
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return &supplier, nil
}

func (r *receiptRepository) UpsertDeliveryPerson(ctx context.Context, fullName string, supplierID uint) (*model.DeliveryPerson, error) {
	person := model.DeliveryPerson{}
	err := r.db.WithContext(ctx).
		Where(model.DeliveryPerson{FullName: fullName, SupplierID: supplierID}).
		FirstOrCreate(&person).Error
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return &person, nil
}

func (r *receiptRepository) FindProduct(ctx context.Context, identifier string) (*model.WaterProduct, error) {
	return findProduct(ctx, r.db, identifier)
}

func (r *receiptRepository) FindStatus(ctx context.Context, identifier string) (*model.ReceiptStatus, error) {
	var status model.ReceiptStatus
	if err := findStatus(ctx, r.db, &status, identifier); err != nil {
		return nil, err
	}
	return &status, nil
}

// LotCodeExists checks live and trashed lots, since the unique index covers both.
func (r *receiptRepository) LotCodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.ReceiptLot{}).Where("lot_code = ?", code).Count(&n).Error
	return n > 0, err
}

// Create inserts the lot inside a savepoint so a duplicate code does not abort an outer transaction.
func (r *receiptRepository) Create(ctx context.Context, lot *model.ReceiptLot) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Supplier", "DeliveryPerson", "WaterProduct", "Status", "CreatedBy").Create(lot).Error
	})
	return apperrors.FromDB(err)
}

func (r *receiptRepository) FindByID(ctx context.Context, id uint) (*model.ReceiptLot, error) {
	var lot model.ReceiptLot
	err := r.withRelations(r.db.WithContext(ctx)).First(&lot, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrReceiptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

func receiptSearch(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		s := strings.TrimSpace(search)
		if s == "" {
			return db
		}
		like := likePattern(s)
		return db.
			Joins("JOIN app_supplier ON app_supplier.id = app_receipt_lot.supplier_id").
			Joins("JOIN app_delivery_person ON app_delivery_person.id = app_receipt_lot.delivery_person_id").
			Joins("JOIN water_product ON water_product.id = app_receipt_lot.water_product_id").
			Where(likeClause("app_receipt_lot.lot_code")+" OR "+likeClause("app_supplier.name")+" OR "+
				likeClause("app_delivery_person.full_name")+" OR "+likeClause("water_product.name"),
				like, like, like, like)
	}
}

func (r *receiptRepository) List(ctx context.Context, filter ReceiptFilter) ([]model.ReceiptLot, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.ReceiptLot{}).Scopes(receiptSearch(filter.Search)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lots []model.ReceiptLot
	err := r.withRelations(r.db.WithContext(ctx)).
		Select("app_receipt_lot.*").
		Scopes(receiptSearch(filter.Search), filter.Page.scope()).
		Order("app_receipt_lot.created_at DESC, app_receipt_lot.id DESC").
		Find(&lots).Error
	if err != nil {
		return nil, 0, err
	}
	return lots, total, nil
}

// UpdateStatus moves a live lot from fromStatusID to toStatusID. It returns
// ErrInvalidTransition when the lot no longer has fromStatusID.
func (r *receiptRepository) UpdateStatus(ctx context.Context, id, fromStatusID, toStatusID uint) error {
	res := r.db.WithContext(ctx).Model(&model.ReceiptLot{}).
		Where("id = ? AND status_id = ?", id, fromStatusID).
		Update("status_id", toStatusID)
	if res.Error != nil {
		return apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: status changed concurrently", apperrors.ErrInvalidTransition)
	}
	return nil
}

// SetQRPayloadIfMissing writes payload only when the stored one is still empty.
func (r *receiptRepository) SetQRPayloadIfMissing(ctx context.Context, id uint, payload string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.ReceiptLot{}).
		Where("id = ? AND (qr_payload = '' OR qr_payload IS NULL)", id).
		Update("qr_payload", payload)
	return res.RowsAffected, res.Error
}

func (r *receiptRepository) SoftDelete(ctx context.Context, id uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.ReceiptLot{}).Where("id = ?", id).Update("deleted_at", at)
	return res.RowsAffected, res.Error
}

func (r *receiptRepository) Restore(ctx context.Context, id uint) error {
	return restoreRow(ctx, r.db, &model.ReceiptLot{}, id, apperrors.ErrReceiptNotFound)
}

func (r *receiptRepository) ListTrash(ctx context.Context) ([]model.ReceiptLot, error) {
	var lots []model.ReceiptLot
	err := r.withRelations(r.db.WithContext(ctx).Unscoped()).
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC").
		Find(&lots).Error
	return lots, err
}

func (r *receiptRepository) DeletePermanent(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().Where("id = ? AND deleted_at IS NOT NULL", id).Delete(&model.ReceiptLot{})
	return res.RowsAffected, res.Error
}

func (r *receiptRepository) CountDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.ReceiptLot{}).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).Count(&n).Error
	return n, err
}

func (r *receiptRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&model.ReceiptLot{})
	return res.RowsAffected, res.Error
}

// WithTransaction executes fn within a database transaction.
func (r *receiptRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ReceiptRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &receiptRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
