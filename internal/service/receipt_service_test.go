package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/label"
	"wateradmin/internal/model"
	"wateradmin/internal/repository"
)

func TestGenerateLotCode(t *testing.T) {
	at := time.UnixMilli(1712345678901)
	assert.Equal(t, "RC2345678901", GenerateLotCode(at, 0))
	assert.Equal(t, "RC2345678903", GenerateLotCode(at, 2))
	assert.Len(t, GenerateLotCode(time.Now(), 0), 12)
}

func TestResolveStatusIdentifier(t *testing.T) {
	tests := map[string]string{
		"confirm":    model.ReceiptStatusCompleted,
		" Cancel ":   model.ReceiptStatusCancelled,
		"PROCESS":    model.ReceiptStatusProcessing,
		"COMPLETED":  "COMPLETED",
		"2":          "2",
		"processing": "processing",
	}
	for in, want := range tests {
		assert.Equal(t, want, resolveStatusIdentifier(in), in)
	}
}

func TestReceiptService_Create(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	lot, err := s.receipts.Create(ctx, CreateLotInput{
		SupplierName:       "  Aqua Co ",
		DeliveryPersonName: "Sam",
		Product:            "1",
		Quantity:           10,
		CreatedBy:          0,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(lot.LotCode, "RC"))
	assert.Len(t, lot.LotCode, 12)
	assert.Equal(t, model.ReceiptStatusProcessing, lot.Status.Code)
	assert.Equal(t, "Aqua Co", lot.Supplier.Name)
	assert.Equal(t, "Bottled water 19L", lot.WaterProduct.Name)
	assert.Nil(t, lot.CreatedByID)

	want, err := label.ReceiptPayload(lot.LotCode, lot.WaterProduct.Name, 10, lot.CreatedAt)
	require.NoError(t, err)
	assert.Equal(t, want, lot.QRPayload)
}

func TestReceiptService_CreateReusesSupplier(t *testing.T) {
	s := newStack(t)

	first := s.createLot(t, "Aqua Co", "1", 5)
	second := s.createLot(t, "Aqua Co", "Bottled water 500ml (case of 24)", 3)

	assert.Equal(t, first.SupplierID, second.SupplierID)
	assert.Equal(t, first.DeliveryPersonID, second.DeliveryPersonID)
	assert.Equal(t, uint(2), second.WaterProductID)

	var suppliers int64
	require.NoError(t, s.db.Model(&model.Supplier{}).Count(&suppliers).Error)
	assert.Equal(t, int64(1), suppliers)
}

func TestReceiptService_CreateRollsBackOnUnknownProduct(t *testing.T) {
	s := newStack(t)

	_, err := s.receipts.Create(context.Background(), CreateLotInput{
		SupplierName:       "Ghost Supplier",
		DeliveryPersonName: "Nobody",
		Product:            "Sparkling 2L",
		Quantity:           1,
	})
	require.ErrorIs(t, err, apperrors.ErrProductNotFound)

	var suppliers, people int64
	require.NoError(t, s.db.Model(&model.Supplier{}).Count(&suppliers).Error)
	require.NoError(t, s.db.Model(&model.DeliveryPerson{}).Count(&people).Error)
	assert.Zero(t, suppliers)
	assert.Zero(t, people)
}

func TestReceiptService_CreateValidation(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.receipts.Create(ctx, CreateLotInput{SupplierName: "A", DeliveryPersonName: "B", Product: "1", Quantity: 0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)

	_, err = s.receipts.Create(ctx, CreateLotInput{SupplierName: " ", DeliveryPersonName: "B", Product: "1", Quantity: 1})
	var httpErr *apperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.StatusCode)
}

func TestReceiptService_LotCodeCollisionRetries(t *testing.T) {
	s := newStack(t)
	s.receipts.lotCode = func(_ time.Time, attempt int) string {
		if attempt < 2 {
			return "RC0000000001"
		}
		return fmt.Sprintf("RC%010d", attempt)
	}

	first := s.createLot(t, "Aqua Co", "1", 1)
	second := s.createLot(t, "Aqua Co", "1", 1)
	assert.Equal(t, "RC0000000001", first.LotCode)
	assert.Equal(t, "RC0000000002", second.LotCode)

	s.receipts.lotCode = func(time.Time, int) string { return "RC0000000001" }
	_, err := s.receipts.Create(context.Background(), CreateLotInput{
		SupplierName: "Aqua Co", DeliveryPersonName: "Sam", Product: "1", Quantity: 1,
	})
	assert.ErrorIs(t, err, apperrors.ErrLotCodeExhausted)
}

func TestReceiptService_UpdateStatus(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	lot := s.createLot(t, "Aqua Co", "1", 10)

	same, err := s.receipts.UpdateStatus(ctx, lot.ID, "process")
	require.NoError(t, err)
	assert.Equal(t, model.ReceiptStatusProcessing, same.Status.Code)

	confirmed, err := s.receipts.UpdateStatus(ctx, lot.ID, "confirm")
	require.NoError(t, err)
	assert.Equal(t, model.ReceiptStatusCompleted, confirmed.Status.Code)

	again, err := s.receipts.UpdateStatus(ctx, lot.ID, "2")
	require.NoError(t, err)
	assert.Equal(t, model.ReceiptStatusCompleted, again.Status.Code)

	_, err = s.receipts.UpdateStatus(ctx, lot.ID, "cancel")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = s.receipts.UpdateStatus(ctx, lot.ID, "shipped")
	assert.ErrorIs(t, err, apperrors.ErrStatusNotFound)

	_, err = s.receipts.UpdateStatus(ctx, 9999, "confirm")
	assert.ErrorIs(t, err, apperrors.ErrReceiptNotFound)

	other := s.createLot(t, "Blue Spring", "1", 1)
	cancelled, err := s.receipts.UpdateStatus(ctx, other.ID, "Cancelled")
	require.NoError(t, err)
	assert.Equal(t, model.ReceiptStatusCancelled, cancelled.Status.Code)
}

// statusRaceRepo runs before once, right after the service has read the lot.
type statusRaceRepo struct {
	repository.ReceiptRepository
	before func()
}

func (r *statusRaceRepo) FindStatus(ctx context.Context, identifier string) (*model.ReceiptStatus, error) {
	if before := r.before; before != nil {
		r.before = nil
		before()
	}
	return r.ReceiptRepository.FindStatus(ctx, identifier)
}

func TestReceiptService_UpdateStatusConcurrentChange(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	lot := s.createLot(t, "Aqua Co", "1", 10)

	s.receipts.repo = &statusRaceRepo{
		ReceiptRepository: s.receipts.repo,
		before: func() {
			_, err := s.receipts.UpdateStatus(ctx, lot.ID, "confirm")
			require.NoError(t, err)
		},
	}

	_, err := s.receipts.UpdateStatus(ctx, lot.ID, "cancel")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	stored, err := s.receipts.Get(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReceiptStatusCompleted, stored.Status.Code)
}

func TestReceiptService_ListSearch(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.createLot(t, "Aqua Co", "1", 1)
	s.createLot(t, "Blue Spring", "2", 1)
	s.createLot(t, "Blue Spring", "3", 1)

	all, err := s.receipts.List(ctx, repository.ReceiptFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Len(t, all.Items, 3)

	filtered, err := s.receipts.List(ctx, repository.ReceiptFilter{Search: "blue"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), filtered.Total)

	for _, wildcard := range []string{"%", "_", "!"} {
		literal, err := s.receipts.List(ctx, repository.ReceiptFilter{Search: wildcard})
		require.NoError(t, err)
		assert.Equal(t, int64(0), literal.Total, wildcard)
	}

	paged, err := s.receipts.List(ctx, repository.ReceiptFilter{Page: repository.Page{Number: 2, Size: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), paged.Total)
	assert.Len(t, paged.Items, 1)
	assert.Equal(t, 2, paged.Page)

	s.createLot(t, "100% Pure_Water", "1", 1)
	exact, err := s.receipts.List(ctx, repository.ReceiptFilter{Search: "100% pure_"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), exact.Total)
}

func TestReceiptService_TrashLifecycle(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	lot := s.createLot(t, "Aqua Co", "1", 10)
	_, err := s.receipts.UpdateStatus(ctx, lot.ID, "confirm")
	require.NoError(t, err)

	err = s.receipts.DeletePermanent(ctx, lot.ID)
	assert.ErrorIs(t, err, apperrors.ErrReceiptNotFound, "only trashed lots can be hard deleted")

	affected, err := s.receipts.SoftDelete(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, err = s.receipts.SoftDelete(ctx, lot.ID)
	assert.ErrorIs(t, err, apperrors.ErrReceiptNotFound)
	_, err = s.receipts.Get(ctx, lot.ID)
	assert.ErrorIs(t, err, apperrors.ErrReceiptNotFound)
	_, err = s.receipts.UpdateStatus(ctx, lot.ID, "cancel")
	assert.ErrorIs(t, err, apperrors.ErrReceiptNotFound)

	list, err := s.receipts.List(ctx, repository.ReceiptFilter{})
	require.NoError(t, err)
	assert.Zero(t, list.Total)

	trash, err := s.receipts.ListTrash(ctx)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, lot.ID, trash[0].Item.ID)
	assert.Equal(t, trash[0].DeletedAt.Add(testRetention), trash[0].ExpiresAt)

	restored, err := s.receipts.Restore(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReceiptStatusCompleted, restored.Status.Code)

	_, err = s.receipts.SoftDelete(ctx, lot.ID)
	require.NoError(t, err)
	require.NoError(t, s.receipts.DeletePermanent(ctx, lot.ID))

	_, err = s.receipts.Restore(ctx, lot.ID)
	assert.ErrorIs(t, err, apperrors.ErrReceiptNotFound)
}

func TestReceiptService_QRPayload(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	lot := s.createLot(t, "Aqua Co", "1", 10)

	payload, err := s.receipts.QRPayload(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, lot.QRPayload, payload)

	require.NoError(t, s.db.Model(&model.ReceiptLot{}).Where("id = ?", lot.ID).Update("qr_payload", "").Error)

	regenerated, err := s.receipts.QRPayload(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, regenerated)

	stored, err := s.receipts.Get(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, stored.QRPayload)
}
