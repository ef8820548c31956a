package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wateradmin/internal/auth"
	"wateradmin/internal/db/dbtest"
	"wateradmin/internal/events"
	"wateradmin/internal/model"
	"wateradmin/internal/repository"
)

const testRetention = 30 * 24 * time.Hour

// stack bundles services over one in-memory database.
type stack struct {
	db         *gorm.DB
	receipts   *receiptService
	deliveries *deliveryService
	users      *userService
	depts      DepartmentService
	inventory  InventoryService
	trash      *trashService
}

func newStack(t *testing.T) *stack {
	t.Helper()
	gormDB := dbtest.New(t)

	receiptRepo := repository.NewReceiptRepository(gormDB)
	deliveryRepo := repository.NewDeliveryRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	deptRepo := repository.NewDepartmentRepository(gormDB)
	masterRepo := repository.NewMasterRepository(gormDB)
	log := zap.NewNop()

	return &stack{
		db:         gormDB,
		receipts:   NewReceiptService(receiptRepo, nil, events.Noop{}, nil, log, testRetention).(*receiptService),
		deliveries: NewDeliveryService(deliveryRepo, events.Noop{}, nil, log, testRetention).(*deliveryService),
		users:      NewUserService(userRepo, deptRepo, auth.NewTokenStore(nil), time.Hour, 4, testRetention).(*userService),
		depts:      NewDepartmentService(deptRepo),
		inventory:  NewInventoryService(masterRepo),
		trash:      NewTrashService(receiptRepo, deliveryRepo, userRepo, nil, events.Noop{}, nil, log, testRetention).(*trashService),
	}
}

func (s *stack) createLot(t *testing.T, supplier, product string, qty int) *model.ReceiptLot {
	t.Helper()
	lot, err := s.receipts.Create(context.Background(), CreateLotInput{
		SupplierName:       supplier,
		DeliveryPersonName: "Driver " + supplier,
		Product:            product,
		Quantity:           qty,
	})
	require.NoError(t, err)
	return lot
}

func (s *stack) createUser(t *testing.T, username, role string, dept *uint) *model.User {
	t.Helper()
	user, err := s.users.Create(context.Background(), CreateUserInput{
		Username:     username,
		Password:     "secret123",
		Role:         role,
		FullName:     username,
		DepartmentID: dept,
	})
	require.NoError(t, err)
	return user
}

func ptr[T any](v T) *T {
	return &v
}
