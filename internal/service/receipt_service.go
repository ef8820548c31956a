package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"wateradmin/internal/cache"
	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/events"
	"wateradmin/internal/label"
	"wateradmin/internal/metrics"
	"wateradmin/internal/model"
	"wateradmin/internal/repository"
)

const (
	lotCodePrefix      = "RC"
	lotCodeDigits      = 10
	maxLotCodeAttempts = 5
)

// statusAliases maps semantic verbs to status codes.
var statusAliases = map[string]string{
	"confirm": model.ReceiptStatusCompleted,
	"cancel":  model.ReceiptStatusCancelled,
	"process": model.ReceiptStatusProcessing,
}

// CreateLotInput carries the fields of a new receipt lot.
type CreateLotInput struct {
	SupplierName       string
	DeliveryPersonName string
	Product            string
	Quantity           int
	ReceiptDate        *time.Time
	CreatedBy          uint
}

// ReceiptService implements the receipt lot lifecycle.
type ReceiptService interface {
	Create(ctx context.Context, in CreateLotInput) (*model.ReceiptLot, error)
	List(ctx context.Context, filter repository.ReceiptFilter) (*PageResult[model.ReceiptLot], error)
	Get(ctx context.Context, id uint) (*model.ReceiptLot, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*model.ReceiptLot, error)
	SoftDelete(ctx context.Context, id uint) (int64, error)
	Restore(ctx context.Context, id uint) (*model.ReceiptLot, error)
	ListTrash(ctx context.Context) ([]model.TrashEntry[model.ReceiptLot], error)
	DeletePermanent(ctx context.Context, id uint) error
	QRPayload(ctx context.Context, id uint) (string, error)
}

type receiptService struct {
	repo      repository.ReceiptRepository
	cache     *cache.Client
	metrics   *metrics.Metrics
	notifier  notifier
	retention time.Duration
	now       func() time.Time
	lotCode   func(t time.Time, attempt int) string
}

// NewReceiptService builds the lot lifecycle service.
func NewReceiptService(
	repo repository.ReceiptRepository,
	cache *cache.Client,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
	retention time.Duration,
) ReceiptService {
	return &receiptService{
		repo:      repo,
		cache:     cache,
		metrics:   m,
		notifier:  notifier{publisher: publisher, log: log},
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
		lotCode:   GenerateLotCode,
	}
}

// GenerateLotCode returns RC followed by the last ten digits of the Unix
// millisecond timestamp, shifted by attempt milliseconds.
func GenerateLotCode(t time.Time, attempt int) string {
	ms := strconv.FormatInt(t.UnixMilli()+int64(attempt), 10)
	if len(ms) > lotCodeDigits {
		ms = ms[len(ms)-lotCodeDigits:]
	}
	return lotCodePrefix + ms
}

func (s *receiptService) Create(ctx context.Context, in CreateLotInput) (*model.ReceiptLot, error) {
	in.SupplierName = strings.TrimSpace(in.SupplierName)
	in.DeliveryPersonName = strings.TrimSpace(in.DeliveryPersonName)
	if in.SupplierName == "" || in.DeliveryPersonName == "" {
		return nil, apperrors.Validation("supplier and delivery person are required")
	}
	if in.Quantity <= 0 {
		return nil, apperrors.ErrInvalidQuantity
	}

	var created *model.ReceiptLot
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.ReceiptRepository) error {
		supplier, err := repo.UpsertSupplier(ctx, in.SupplierName)
		if err != nil {
			return fmt.Errorf("upsert supplier: %w", err)
		}
		person, err := repo.UpsertDeliveryPerson(ctx, in.DeliveryPersonName, supplier.ID)
		if err != nil {
			return fmt.Errorf("upsert delivery person: %w", err)
		}
		product, err := repo.FindProduct(ctx, in.Product)
		if err != nil {
			return err
		}
		status, err := repo.FindStatus(ctx, model.ReceiptStatusProcessing)
		if err != nil {
			return fmt.Errorf("initial status: %w", err)
		}

		now := s.now()
		receiptDate := now
		if in.ReceiptDate != nil && !in.ReceiptDate.IsZero() {
			receiptDate = in.ReceiptDate.UTC()
		}

		for attempt := 0; attempt < maxLotCodeAttempts; attempt++ {
			code := s.lotCode(now, attempt)
			exists, err := repo.LotCodeExists(ctx, code)
			if err != nil {
				return fmt.Errorf("check lot code: %w", err)
			}
			if exists {
				continue
			}

			payload, err := label.ReceiptPayload(code, product.Name, in.Quantity, now)
			if err != nil {
				return fmt.Errorf("build qr payload: %w", err)
			}
			lot := &model.ReceiptLot{
				LotCode:          code,
				SupplierID:       supplier.ID,
				DeliveryPersonID: person.ID,
				WaterProductID:   product.ID,
				Quantity:         in.Quantity,
				ReceiptDate:      receiptDate,
				StatusID:         status.ID,
				QRPayload:        payload,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if in.CreatedBy != 0 {
				createdBy := in.CreatedBy
				lot.CreatedByID = &createdBy
			}

			err = repo.Create(ctx, lot)
			if errors.Is(err, apperrors.ErrAlreadyExists) {
				continue
			}
			if err != nil {
				return fmt.Errorf("insert lot: %w", err)
			}

			lot.Supplier = *supplier
			lot.DeliveryPerson = *person
			lot.WaterProduct = *product
			lot.Status = *status
			created = lot
			return nil
		}
		return apperrors.ErrLotCodeExhausted
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, cacheKeySuppliers)
	s.metrics.LotCreated()
	s.notifier.publish(ctx, events.LotCreated, map[string]interface{}{
		"id":       created.ID,
		"lot_code": created.LotCode,
		"product":  created.WaterProduct.Name,
		"quantity": created.Quantity,
		"supplier": created.Supplier.Name,
	})
	return created, nil
}

func (s *receiptService) List(ctx context.Context, filter repository.ReceiptFilter) (*PageResult[model.ReceiptLot], error) {
	lots, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	return newPageResult(lots, total, filter.Page), nil
}

func (s *receiptService) Get(ctx context.Context, id uint) (*model.ReceiptLot, error) {
	return s.repo.FindByID(ctx, id)
}

// resolveStatusIdentifier maps aliases to codes and leaves anything else for lookup.
func resolveStatusIdentifier(value string) string {
	v := strings.TrimSpace(value)
	if code, ok := statusAliases[strings.ToLower(v)]; ok {
		return code
	}
	return v
}

// canTransition reports whether a lot may move from one status to another.
// PROCESSING is the only non-terminal status.
func canTransition(from, to string) bool {
	if from == to {
		return true
	}
	return from == model.ReceiptStatusProcessing
}

func (s *receiptService) UpdateStatus(ctx context.Context, id uint, value string) (*model.ReceiptLot, error) {
	if strings.TrimSpace(value) == "" {
		return nil, apperrors.Validation("status is required")
	}
	lot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	status, err := s.repo.FindStatus(ctx, resolveStatusIdentifier(value))
	if err != nil {
		return nil, err
	}
	if lot.StatusID == status.ID {
		return lot, nil
	}
	if !canTransition(lot.Status.Code, status.Code) {
		return nil, fmt.Errorf("%w: %s to %s", apperrors.ErrInvalidTransition, lot.Status.Code, status.Code)
	}

	if err := s.repo.UpdateStatus(ctx, id, lot.StatusID, status.ID); err != nil {
		return nil, err
	}
	previous := lot.Status.Code
	lot.StatusID = status.ID
	lot.Status = *status

	s.metrics.StatusChanged("receipt", status.Code)
	s.notifier.publish(ctx, events.LotStatusChanged, map[string]interface{}{
		"id":       lot.ID,
		"lot_code": lot.LotCode,
		"from":     previous,
		"to":       status.Code,
	})
	return lot, nil
}

func (s *receiptService) SoftDelete(ctx context.Context, id uint) (int64, error) {
	affected, err := s.repo.SoftDelete(ctx, id, s.now())
	if err != nil {
		return 0, fmt.Errorf("soft delete lot: %w", err)
	}
	if affected == 0 {
		return 0, apperrors.ErrReceiptNotFound
	}
	return affected, nil
}

func (s *receiptService) Restore(ctx context.Context, id uint) (*model.ReceiptLot, error) {
	if err := s.repo.Restore(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *receiptService) ListTrash(ctx context.Context) ([]model.TrashEntry[model.ReceiptLot], error) {
	lots, err := s.repo.ListTrash(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trashed lots: %w", err)
	}
	return trashEntries(lots, func(l model.ReceiptLot) time.Time { return l.DeletedAt.Time }, s.retention), nil
}

func (s *receiptService) DeletePermanent(ctx context.Context, id uint) error {
	affected, err := s.repo.DeletePermanent(ctx, id)
	if err != nil {
		return fmt.Errorf("delete lot: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrReceiptNotFound
	}
	return nil
}

// QRPayload returns the stored label payload, regenerating and persisting it
// for rows that predate payload generation.
func (s *receiptService) QRPayload(ctx context.Context, id uint) (string, error) {
	lot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if lot.QRPayload != "" {
		return lot.QRPayload, nil
	}

	payload, err := label.ReceiptPayload(lot.LotCode, lot.WaterProduct.Name, lot.Quantity, lot.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("build qr payload: %w", err)
	}
	written, err := s.repo.SetQRPayloadIfMissing(ctx, id, payload)
	if err != nil {
		return "", fmt.Errorf("persist qr payload: %w", err)
	}
	if written == 0 {
		// another request stored one first
		if current, err := s.repo.FindByID(ctx, id); err == nil && current.QRPayload != "" {
			return current.QRPayload, nil
		}
	}
	return payload, nil
}
