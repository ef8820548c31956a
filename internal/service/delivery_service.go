package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/events"
	"wateradmin/internal/label"
	"wateradmin/internal/metrics"
	"wateradmin/internal/model"
	"wateradmin/internal/repository"
)

const deliveryCodePrefix = "DL-"

// DeliveryInput carries the writable fields of a delivery. Nil pointers are
// left unchanged on update.
type DeliveryInput struct {
	DeliveryCode  string
	RecipientName *string
	DepartmentID  *uint
	ClearDept     bool
	Product       *string
	Quantity      *int
	DeliveryTime  *time.Time
	Status        *string
	Note          *string
	CreatedBy     uint
}

// DeliveryService implements the delivery ledger.
type DeliveryService interface {
	Create(ctx context.Context, in DeliveryInput) (*model.Delivery, error)
	List(ctx context.Context, filter repository.DeliveryFilter) (*PageResult[model.Delivery], error)
	Get(ctx context.Context, id uint) (*model.Delivery, error)
	Update(ctx context.Context, id uint, in DeliveryInput) (*model.Delivery, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*model.Delivery, error)
	SoftDelete(ctx context.Context, id uint) (int64, error)
	Restore(ctx context.Context, id uint) (*model.Delivery, error)
	ListTrash(ctx context.Context) ([]model.TrashEntry[model.Delivery], error)
	DeletePermanent(ctx context.Context, id uint) error
	QRPayload(ctx context.Context, id uint) (string, error)
}

type deliveryService struct {
	repo      repository.DeliveryRepository
	metrics   *metrics.Metrics
	notifier  notifier
	retention time.Duration
	now       func() time.Time
}

// NewDeliveryService builds the delivery ledger service.
func NewDeliveryService(
	repo repository.DeliveryRepository,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
	retention time.Duration,
) DeliveryService {
	return &deliveryService{
		repo:      repo,
		metrics:   m,
		notifier:  notifier{publisher: publisher, log: log},
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GenerateDeliveryCode returns DL- followed by eight uppercase hex characters.
func GenerateDeliveryCode() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return deliveryCodePrefix + strings.ToUpper(token[:8])
}

func (s *deliveryService) checkDepartment(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	ok, err := s.repo.DepartmentExists(ctx, *id)
	if err != nil {
		return fmt.Errorf("check department: %w", err)
	}
	if !ok {
		return apperrors.ErrDepartmentNotFound
	}
	return nil
}

func (s *deliveryService) Create(ctx context.Context, in DeliveryInput) (*model.Delivery, error) {
	if in.RecipientName == nil || strings.TrimSpace(*in.RecipientName) == "" {
		return nil, apperrors.Validation("recipient_name is required")
	}
	if in.Product == nil {
		return nil, apperrors.Validation("water_product_id is required")
	}
	if in.Quantity == nil || *in.Quantity <= 0 {
		return nil, apperrors.ErrInvalidQuantity
	}
	if err := s.checkDepartment(ctx, in.DepartmentID); err != nil {
		return nil, err
	}
	product, err := s.repo.FindProduct(ctx, *in.Product)
	if err != nil {
		return nil, err
	}

	statusID := model.DefaultDeliveryStatusID
	if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		status, err := s.repo.FindStatus(ctx, *in.Status)
		if err != nil {
			return nil, err
		}
		statusID = status.ID
	}

	code := strings.TrimSpace(in.DeliveryCode)
	if code == "" {
		code = GenerateDeliveryCode()
	}
	deliveryTime := s.now()
	if in.DeliveryTime != nil && !in.DeliveryTime.IsZero() {
		deliveryTime = in.DeliveryTime.UTC()
	}

	delivery := &model.Delivery{
		DeliveryCode:   code,
		RecipientName:  strings.TrimSpace(*in.RecipientName),
		DepartmentID:   in.DepartmentID,
		WaterProductID: product.ID,
		Quantity:       *in.Quantity,
		DeliveryTime:   deliveryTime,
		StatusID:       statusID,
	}
	if in.Note != nil {
		delivery.Note = *in.Note
	}
	if in.CreatedBy != 0 {
		createdBy := in.CreatedBy
		delivery.CreatedByID = &createdBy
	}

	if err := s.repo.Create(ctx, delivery); err != nil {
		return nil, fmt.Errorf("create delivery: %w", err)
	}

	created, err := s.repo.FindByID(ctx, delivery.ID)
	if err != nil {
		return nil, err
	}
	s.notifier.publish(ctx, events.DeliveryCreated, map[string]interface{}{
		"id":            created.ID,
		"delivery_code": created.DeliveryCode,
		"product":       created.WaterProduct.Name,
		"quantity":      created.Quantity,
	})
	return created, nil
}

func (s *deliveryService) List(ctx context.Context, filter repository.DeliveryFilter) (*PageResult[model.Delivery], error) {
	deliveries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return newPageResult(deliveries, total, filter.Page), nil
}

func (s *deliveryService) Get(ctx context.Context, id uint) (*model.Delivery, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *deliveryService) Update(ctx context.Context, id uint, in DeliveryInput) (*model.Delivery, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.RecipientName != nil {
		name := strings.TrimSpace(*in.RecipientName)
		if name == "" {
			return nil, apperrors.Validation("recipient_name cannot be empty")
		}
		fields["recipient_name"] = name
	}
	if in.ClearDept {
		fields["department_id"] = nil
	} else if in.DepartmentID != nil {
		if err := s.checkDepartment(ctx, in.DepartmentID); err != nil {
			return nil, err
		}
		fields["department_id"] = *in.DepartmentID
	}
	if in.Product != nil {
		product, err := s.repo.FindProduct(ctx, *in.Product)
		if err != nil {
			return nil, err
		}
		fields["water_product_id"] = product.ID
	}
	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return nil, apperrors.ErrInvalidQuantity
		}
		fields["quantity"] = *in.Quantity
	}
	if in.DeliveryTime != nil && !in.DeliveryTime.IsZero() {
		fields["delivery_time"] = in.DeliveryTime.UTC()
	}
	if in.Note != nil {
		fields["note"] = *in.Note
	}

	if len(fields) > 0 {
		if err := s.repo.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, id)
}

// UpdateStatus sets any known delivery status; deliveries have no terminal states.
func (s *deliveryService) UpdateStatus(ctx context.Context, id uint, value string) (*model.Delivery, error) {
	if strings.TrimSpace(value) == "" {
		return nil, apperrors.Validation("status is required")
	}
	delivery, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	status, err := s.repo.FindStatus(ctx, value)
	if err != nil {
		return nil, err
	}
	if delivery.StatusID == status.ID {
		return delivery, nil
	}
	if err := s.repo.Update(ctx, id, map[string]interface{}{"status_id": status.ID}); err != nil {
		return nil, err
	}
	delivery.StatusID = status.ID
	delivery.Status = *status

	s.metrics.StatusChanged("delivery", status.Code)
	s.notifier.publish(ctx, events.DeliveryStatusSet, map[string]interface{}{
		"id":            delivery.ID,
		"delivery_code": delivery.DeliveryCode,
		"status":        status.Code,
	})
	return delivery, nil
}

func (s *deliveryService) SoftDelete(ctx context.Context, id uint) (int64, error) {
	affected, err := s.repo.SoftDelete(ctx, id, s.now())
	if err != nil {
		return 0, fmt.Errorf("soft delete delivery: %w", err)
	}
	if affected == 0 {
		return 0, apperrors.ErrDeliveryNotFound
	}
	return affected, nil
}

func (s *deliveryService) Restore(ctx context.Context, id uint) (*model.Delivery, error) {
	if err := s.repo.Restore(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *deliveryService) ListTrash(ctx context.Context) ([]model.TrashEntry[model.Delivery], error) {
	deliveries, err := s.repo.ListTrash(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trashed deliveries: %w", err)
	}
	return trashEntries(deliveries, func(d model.Delivery) time.Time { return d.DeletedAt.Time }, s.retention), nil
}

func (s *deliveryService) DeletePermanent(ctx context.Context, id uint) error {
	affected, err := s.repo.DeletePermanent(ctx, id)
	if err != nil {
		return fmt.Errorf("delete delivery: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrDeliveryNotFound
	}
	return nil
}

// QRPayload renders a label payload on demand; it is not stored.
func (s *deliveryService) QRPayload(ctx context.Context, id uint) (string, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return label.DeliveryPayload(d.DeliveryCode, d.RecipientName, d.WaterProduct.Name, d.Quantity, d.DeliveryTime)
}
