package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/model"
)

// DeliveryFilter narrows a delivery listing.
type DeliveryFilter struct {
	Search string
	Page   Page
}

// DeliveryRepository defines persistence operations for the delivery ledger.
type DeliveryRepository interface {
	FindProduct(ctx context.Context, identifier string) (*model.WaterProduct, error)
	FindStatus(ctx context.Context, identifier string) (*model.DeliveryStatus, error)
	DepartmentExists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, delivery *model.Delivery) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	FindByID(ctx context.Context, id uint) (*model.Delivery, error)
	List(ctx context.Context, filter DeliveryFilter) ([]model.Delivery, int64, error)
	SoftDelete(ctx context.Context, id uint, at time.Time) (int64, error)
	Restore(ctx context.Context, id uint) error
	ListTrash(ctx context.Context) ([]model.Delivery, error)
	DeletePermanent(ctx context.Context, id uint) (int64, error)
	CountDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository builds a GORM-backed repository.
func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Department").Preload("WaterProduct").Preload("Status")
}

func (r *deliveryRepository) FindProduct(ctx context.Context, identifier string) (*model.WaterProduct, error) {
	return findProduct(ctx, r.db, identifier)
}

func (r *deliveryRepository) FindStatus(ctx context.Context, identifier string) (*model.DeliveryStatus, error) {
	var status model.DeliveryStatus
	if err := findStatus(ctx, r.db, &status, identifier); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *deliveryRepository) DepartmentExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Department{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *deliveryRepository) Create(ctx context.Context, delivery *model.Delivery) error {
	err := r.db.WithContext(ctx).Omit("Department", "WaterProduct", "Status", "CreatedBy").Create(delivery).Error
	return apperrors.FromDB(err)
}

func (r *deliveryRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Delivery{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrDeliveryNotFound
	}
	return nil
}

func (r *deliveryRepository) FindByID(ctx context.Context, id uint) (*model.Delivery, error) {
	var delivery model.Delivery
	err := r.withRelations(r.db.WithContext(ctx)).First(&delivery, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrDeliveryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func deliverySearch(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		s := strings.TrimSpace(search)
		if s == "" {
			return db
		}
		like := likePattern(s)
		return db.
			Joins("LEFT JOIN departments ON departments.id = deliveries.department_id").
			Joins("JOIN water_product ON water_product.id = deliveries.water_product_id").
			Where(likeClause("deliveries.delivery_code")+" OR "+likeClause("deliveries.recipient_name")+" OR "+
				likeClause("departments.name")+" OR "+likeClause("water_product.name"),
				like, like, like, like)
	}
}

func (r *deliveryRepository) List(ctx context.Context, filter DeliveryFilter) ([]model.Delivery, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Delivery{}).Scopes(deliverySearch(filter.Search)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var deliveries []model.Delivery
	err := r.withRelations(r.db.WithContext(ctx)).
		Select("deliveries.*").
		Scopes(deliverySearch(filter.Search), filter.Page.scope()).
		Order("deliveries.created_at DESC, deliveries.id DESC").
		Find(&deliveries).Error
	if err != nil {
		return nil, 0, err
	}
	return deliveries, total, nil
}

func (r *deliveryRepository) SoftDelete(ctx context.Context, id uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Delivery{}).Where("id = ?", id).Update("deleted_at", at)
	return res.RowsAffected, res.Error
}

func (r *deliveryRepository) Restore(ctx context.Context, id uint) error {
	return restoreRow(ctx, r.db, &model.Delivery{}, id, apperrors.ErrDeliveryNotFound)
}

func (r *deliveryRepository) ListTrash(ctx context.Context) ([]model.Delivery, error) {
	var deliveries []model.Delivery
	err := r.withRelations(r.db.WithContext(ctx).Unscoped()).
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC").
		Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepository) DeletePermanent(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().Where("id = ? AND deleted_at IS NOT NULL", id).Delete(&model.Delivery{})
	return res.RowsAffected, res.Error
}

func (r *deliveryRepository) CountDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Delivery{}).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).Count(&n).Error
	return n, err
}

func (r *deliveryRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&model.Delivery{})
	return res.RowsAffected, res.Error
}
