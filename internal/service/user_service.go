package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"wateradmin/internal/auth"
	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/model"
	"wateradmin/internal/repository"
)

const (
	defaultBcryptCost = 10
	minPasswordLength = 6
)

// CreateUserInput carries the fields of a new account.
type CreateUserInput struct {
	Username     string
	Password     string
	Role         string
	FullName     string
	Email        string
	Phone        string
	DepartmentID *uint
}

// ProfileInput updates descriptive fields. Nil pointers are left unchanged.
type ProfileInput struct {
	FullName *string
	Email    *string
	Phone    *string
}

// UserService exposes user directory operations.
type UserService interface {
	List(ctx context.Context, filter repository.UserFilter) (*PageResult[model.User], error)
	Get(ctx context.Context, id uint) (*model.User, error)
	Create(ctx context.Context, in CreateUserInput) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*model.User, error)
	ChangeRole(ctx context.Context, id uint, role string) (*model.User, error)
	ChangeDepartment(ctx context.Context, id uint, departmentID *uint) (*model.User, error)
	SetActive(ctx context.Context, actorID, id uint, active *bool) (*model.User, error)
	SoftDelete(ctx context.Context, actorID, id uint) (int64, error)
	ListTrash(ctx context.Context) ([]model.TrashEntry[model.User], error)
	Restore(ctx context.Context, id uint) (*model.User, error)
	DeletePermanent(ctx context.Context, actorID, id uint) error
	EnsureAdmin(ctx context.Context, username, password string) (*model.User, bool, error)
}

type userService struct {
	repo       repository.UserRepository
	depts      repository.DepartmentRepository
	sessions   auth.TokenStoreInterface
	tokenTTL   time.Duration
	bcryptCost int
	retention  time.Duration
	now        func() time.Time
}

// NewUserService builds a UserService. Tokens issued before a user is deleted,
// deactivated or given another role are revoked through sessions for tokenTTL.
func NewUserService(
	repo repository.UserRepository,
	depts repository.DepartmentRepository,
	sessions auth.TokenStoreInterface,
	tokenTTL time.Duration,
	bcryptCost int,
	retention time.Duration,
) UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = defaultBcryptCost
	}
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenExpiry
	}
	return &userService{
		repo:       repo,
		depts:      depts,
		sessions:   sessions,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		retention:  retention,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *userService) revokeSessions(ctx context.Context, id uint) error {
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.RevokeUserTokens(ctx, id, s.now(), s.tokenTTL); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

func (s *userService) findRole(ctx context.Context, code string) (*model.Role, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !model.ValidRole(code) {
		return nil, apperrors.ErrRoleNotFound
	}
	return s.repo.FindRoleByCode(ctx, code)
}

func (s *userService) List(ctx context.Context, filter repository.UserFilter) (*PageResult[model.User], error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return newPageResult(users, total, filter.Page), nil
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) checkDepartment(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	_, err := s.depts.FindByID(ctx, *id)
	return err
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return nil, apperrors.Validation("username is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperrors.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	role, err := s.findRole(ctx, in.Role)
	if err != nil {
		return nil, err
	}
	if err := s.checkDepartment(ctx, in.DepartmentID); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		PasswordHash: string(hashedPassword),
		RoleID:       role.ID,
		IsActive:     true,
	}
	profile := &model.UserProfile{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		DepartmentID: in.DepartmentID,
	}
	if err := s.repo.Create(ctx, user, profile); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, user.ID)
}

func (s *userService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*model.User, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	profile, err := s.repo.FindProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		profile.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Email != nil {
		profile.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		profile.Phone = strings.TrimSpace(*in.Phone)
	}
	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *userService) ChangeRole(ctx context.Context, id uint, code string) (*model.User, error) {
	role, err := s.findRole(ctx, code)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.RoleID == role.ID {
		return user, nil
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"role_id": role.ID}); err != nil {
		return nil, err
	}
	if err := s.revokeSessions(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// ChangeDepartment moves a user to departmentID, or out of any department when nil.
func (s *userService) ChangeDepartment(ctx context.Context, id uint, departmentID *uint) (*model.User, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.checkDepartment(ctx, departmentID); err != nil {
		return nil, err
	}
	profile, err := s.repo.FindProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	profile.DepartmentID = departmentID
	profile.Department = nil
	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// SetActive sets the active flag, or toggles it when active is nil.
func (s *userService) SetActive(ctx context.Context, actorID, id uint, active *bool) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := !user.IsActive
	if active != nil {
		next = *active
	}
	if !next && actorID == id {
		return nil, apperrors.ErrSelfModification
	}
	if next == user.IsActive {
		return user, nil
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"is_active": next}); err != nil {
		return nil, err
	}
	if !next {
		if err := s.revokeSessions(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, id)
}

func (s *userService) SoftDelete(ctx context.Context, actorID, id uint) (int64, error) {
	if actorID == id {
		return 0, apperrors.ErrSelfModification
	}
	affected, err := s.repo.SoftDelete(ctx, id, s.now())
	if err != nil {
		return 0, fmt.Errorf("soft delete user: %w", err)
	}
	if affected == 0 {
		return 0, apperrors.ErrUserNotFound
	}
	if err := s.revokeSessions(ctx, id); err != nil {
		return 0, err
	}
	return affected, nil
}

func (s *userService) ListTrash(ctx context.Context) ([]model.TrashEntry[model.User], error) {
	users, err := s.repo.ListTrash(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trashed users: %w", err)
	}
	return trashEntries(users, func(u model.User) time.Time { return u.DeletedAt.Time }, s.retention), nil
}

// Restore brings a user back from the trash. The account stays inactive until toggled.
func (s *userService) Restore(ctx context.Context, id uint) (*model.User, error) {
	if err := s.repo.Restore(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *userService) DeletePermanent(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return apperrors.ErrSelfModification
	}
	affected, err := s.repo.DeletePermanent(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}
	return s.revokeSessions(ctx, id)
}

// EnsureAdmin creates the bootstrap administrator unless the username is taken.
// It reports whether a new account was created.
func (s *userService) EnsureAdmin(ctx context.Context, username, password string) (*model.User, bool, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, err
	}
	user, err := s.Create(ctx, CreateUserInput{
		Username: username,
		Password: password,
		Role:     model.RoleAdmin,
		FullName: "Administrator",
	})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
