package service

import (
	"context"
	"encoding/json"
	"time"

	"wateradmin/internal/cache"
	"wateradmin/internal/model"
	"wateradmin/internal/repository"
)

const masterCacheTTL = 10 * time.Minute

// Cache keys of the reference lists.
const (
	cacheKeyWaterTypes       = "master:water-types"
	cacheKeySuppliers        = "master:suppliers"
	cacheKeyReceiptStatuses  = "master:receipt-statuses"
	cacheKeyDeliveryStatuses = "master:delivery-statuses"
	cacheKeyRoles            = "master:roles"
)

// MasterService exposes cached reference data.
type MasterService interface {
	WaterTypes(ctx context.Context) ([]model.WaterProduct, error)
	Suppliers(ctx context.Context) ([]model.Supplier, error)
	ReceiptStatuses(ctx context.Context) ([]model.ReceiptStatus, error)
	DeliveryStatuses(ctx context.Context) ([]model.DeliveryStatus, error)
	Roles(ctx context.Context) ([]model.Role, error)
}

type masterService struct {
	repo  repository.MasterRepository
	users repository.UserRepository
	cache *cache.Client
}

// NewMasterService builds a MasterService with repository and cache.
func NewMasterService(repo repository.MasterRepository, users repository.UserRepository, cache *cache.Client) MasterService {
	return &masterService{repo: repo, users: users, cache: cache}
}

// cached reads key from redis or loads and stores it. Cache failures degrade to a direct read.
func cached[T any](ctx context.Context, c *cache.Client, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if data, _ := c.Get(ctx, key); data != nil {
		var hit []T
		if err := json.Unmarshal(data, &hit); err == nil {
			return hit, nil
		}
	}

	rows, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(rows); err == nil {
		_ = c.Set(ctx, key, payload, masterCacheTTL)
	}
	return rows, nil
}

func (s *masterService) WaterTypes(ctx context.Context) ([]model.WaterProduct, error) {
	return cached(ctx, s.cache, cacheKeyWaterTypes, s.repo.ListWaterProducts)
}

func (s *masterService) Suppliers(ctx context.Context) ([]model.Supplier, error) {
	return cached(ctx, s.cache, cacheKeySuppliers, s.repo.ListSuppliers)
}

func (s *masterService) ReceiptStatuses(ctx context.Context) ([]model.ReceiptStatus, error) {
	return cached(ctx, s.cache, cacheKeyReceiptStatuses, s.repo.ListReceiptStatuses)
}

func (s *masterService) DeliveryStatuses(ctx context.Context) ([]model.DeliveryStatus, error) {
	return cached(ctx, s.cache, cacheKeyDeliveryStatuses, s.repo.ListDeliveryStatuses)
}

func (s *masterService) Roles(ctx context.Context) ([]model.Role, error) {
	return cached(ctx, s.cache, cacheKeyRoles, s.users.ListRoles)
}
