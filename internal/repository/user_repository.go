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

// UserFilter narrows a user listing.
type UserFilter struct {
	Search       string
	Role         string
	DepartmentID *uint
	Active       *bool
	Page         Page
}

// UserReader is the read side used by authentication.
type UserReader interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// UserRepository defines persistence operations for users and their profiles.
type UserRepository interface {
	UserReader
	Create(ctx context.Context, user *model.User, profile *model.UserProfile) error
	SaveProfile(ctx context.Context, profile *model.UserProfile) error
	FindProfile(ctx context.Context, userID uint) (*model.UserProfile, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	List(ctx context.Context, filter UserFilter) ([]model.User, int64, error)
	SoftDelete(ctx context.Context, id uint, at time.Time) (int64, error)
	Restore(ctx context.Context, id uint) error
	ListTrash(ctx context.Context) ([]model.User, error)
	DeletePermanent(ctx context.Context, id uint) (int64, error)
	CountDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	FindRoleByCode(ctx context.Context, code string) (*model.Role, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Role").Preload("Profile").Preload("Profile.Department")
}

func (r *userRepository) Create(ctx context.Context, user *model.User, profile *model.UserProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Role", "Profile").Create(user).Error; err != nil {
			return apperrors.FromDB(err)
		}
		if profile == nil {
			profile = &model.UserProfile{}
		}
		profile.UserID = user.ID
		if err := tx.Omit("Department").Create(profile).Error; err != nil {
			return apperrors.FromDB(err)
		}
		user.Profile = profile
		return nil
	})
}

func (r *userRepository) SaveProfile(ctx context.Context, profile *model.UserProfile) error {
	return apperrors.FromDB(r.db.WithContext(ctx).Omit("Department").Save(profile).Error)
}

func (r *userRepository) FindProfile(ctx context.Context, userID uint) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.UserProfile{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.withRelations(r.db.WithContext(ctx)).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.withRelations(r.db.WithContext(ctx)).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func userSearch(filter UserFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Joins("LEFT JOIN user_profiles ON user_profiles.user_id = users.id")
		if s := strings.TrimSpace(filter.Search); s != "" {
			like := likePattern(s)
			db = db.Where(likeClause("users.username")+" OR "+likeClause("user_profiles.full_name"), like, like)
		}
		if filter.Role != "" {
			db = db.Joins("JOIN roles ON roles.id = users.role_id").
				Where("roles.code = ?", strings.ToUpper(filter.Role))
		}
		if filter.DepartmentID != nil {
			db = db.Where("user_profiles.department_id = ?", *filter.DepartmentID)
		}
		if filter.Active != nil {
			db = db.Where("users.is_active = ?", *filter.Active)
		}
		return db
	}
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]model.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Scopes(userSearch(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := r.withRelations(r.db.WithContext(ctx)).
		Select("users.*").
		Scopes(userSearch(filter), filter.Page.scope()).
		Order("users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) SoftDelete(ctx context.Context, id uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"deleted_at": at, "is_active": false})
	return res.RowsAffected, res.Error
}

func (r *userRepository) Restore(ctx context.Context, id uint) error {
	return restoreRow(ctx, r.db, &model.User{}, id, apperrors.ErrUserNotFound)
}

func (r *userRepository) ListTrash(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.withRelations(r.db.WithContext(ctx).Unscoped()).
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) DeletePermanent(ctx context.Context, id uint) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := purgeUsers(tx, "id = ? AND deleted_at IS NOT NULL", id)
		affected = n
		return err
	})
	return affected, err
}

func (r *userRepository) CountDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.User{}).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).Count(&n).Error
	return n, err
}

func (r *userRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := purgeUsers(tx, "deleted_at IS NOT NULL AND deleted_at < ?", cutoff)
		affected = n
		return err
	})
	return affected, err
}

// purgeUsers hard-deletes the users matched by query together with their
// profiles and detaches them from the lots and deliveries they created.
func purgeUsers(tx *gorm.DB, query string, args ...interface{}) (int64, error) {
	var ids []uint
	if err := tx.Unscoped().Model(&model.User{}).Where(query, args...).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := tx.Where("user_id IN ?", ids).Delete(&model.UserProfile{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Unscoped().Model(&model.ReceiptLot{}).Where("created_by IN ?", ids).
		Update("created_by", nil).Error; err != nil {
		return 0, err
	}
	if err := tx.Unscoped().Model(&model.Delivery{}).Where("created_by IN ?", ids).
		Update("created_by", nil).Error; err != nil {
		return 0, err
	}
	res := tx.Unscoped().Where("id IN ?", ids).Delete(&model.User{})
	return res.RowsAffected, apperrors.FromDB(res.Error)
}

func (r *userRepository) FindRoleByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *userRepository) ListRoles(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Order("level ASC").Find(&roles).Error
	return roles, err
}
