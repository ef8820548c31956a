package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/model"
	"wateradmin/internal/repository"
)

// DepartmentService manages organizational units.
type DepartmentService interface {
	List(ctx context.Context, search string) ([]model.Department, error)
	Get(ctx context.Context, id uint) (*model.Department, error)
	Create(ctx context.Context, name, description string) (*model.Department, error)
	Update(ctx context.Context, id uint, name, description *string) (*model.Department, error)
	Delete(ctx context.Context, id uint) error
}

type departmentService struct {
	repo repository.DepartmentRepository
}

// NewDepartmentService builds a DepartmentService.
func NewDepartmentService(repo repository.DepartmentRepository) DepartmentService {
	return &departmentService{repo: repo}
}

func (s *departmentService) List(ctx context.Context, search string) ([]model.Department, error) {
	depts, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return depts, nil
}

func (s *departmentService) Get(ctx context.Context, id uint) (*model.Department, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *departmentService) Create(ctx context.Context, name, description string) (*model.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}
	dept := &model.Department{Name: name, Description: strings.TrimSpace(description)}
	if err := s.repo.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) Update(ctx context.Context, id uint, name, description *string) (*model.Department, error) {
	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return nil, apperrors.Validation("name cannot be empty")
		}
		dept.Name = n
	}
	if description != nil {
		dept.Description = strings.TrimSpace(*description)
	}
	if err := s.repo.Update(ctx, dept); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Delete removes a department that no profile or delivery points at.
func (s *departmentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("count department references: %w", err)
	}
	if refs > 0 {
		return apperrors.ErrStillReferenced
	}
	return s.repo.Delete(ctx, id)
}
