package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/model"
)

const memberCountSelect = `departments.*, (SELECT COUNT(*) FROM user_profiles
	JOIN users ON users.id = user_profiles.user_id
	WHERE user_profiles.department_id = departments.id AND users.deleted_at IS NULL) AS member_count`

// DepartmentRepository defines persistence operations for departments.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *model.Department) error
	Update(ctx context.Context, dept *model.Department) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Department, error)
	List(ctx context.Context, search string) ([]model.Department, error)
	CountReferences(ctx context.Context, id uint) (int64, error)
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository builds a GORM-backed repository.
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, dept *model.Department) error {
	return apperrors.FromDB(r.db.WithContext(ctx).Create(dept).Error)
}

func (r *departmentRepository) Update(ctx context.Context, dept *model.Department) error {
	res := r.db.WithContext(ctx).Model(&model.Department{}).Where("id = ?", dept.ID).
		Updates(map[string]interface{}{"name": dept.Name, "description": dept.Description})
	if res.Error != nil {
		return apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrDepartmentNotFound
	}
	return nil
}

func (r *departmentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Department{}, id)
	if res.Error != nil {
		return apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrDepartmentNotFound
	}
	return nil
}

func (r *departmentRepository) FindByID(ctx context.Context, id uint) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).Select(memberCountSelect).Where("departments.id = ?", id).First(&dept).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrDepartmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context, search string) ([]model.Department, error) {
	var depts []model.Department
	q := r.db.WithContext(ctx).Select(memberCountSelect)
	if search != "" {
		q = q.Where(likeClause("departments.name"), likePattern(search))
	}
	err := q.Order("departments.name ASC").Find(&depts).Error
	return depts, err
}

// CountReferences counts profiles and deliveries, trashed ones included, that point at the department.
func (r *departmentRepository) CountReferences(ctx context.Context, id uint) (int64, error) {
	var profiles, deliveries int64
	if err := r.db.WithContext(ctx).Model(&model.UserProfile{}).
		Where("department_id = ?", id).Count(&profiles).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Unscoped().Model(&model.Delivery{}).
		Where("department_id = ?", id).Count(&deliveries).Error; err != nil {
		return 0, err
	}
	return profiles + deliveries, nil
}
