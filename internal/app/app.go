package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wateradmin/internal/auth"
	"wateradmin/internal/cache"
	"wateradmin/internal/config"
	"wateradmin/internal/db"
	"wateradmin/internal/events"
	"wateradmin/internal/handler"
	"wateradmin/internal/metrics"
	"wateradmin/internal/repository"
	"wateradmin/internal/router"
	"wateradmin/internal/service"
)

// App holds the wired dependencies shared by the server and the CLI.
type App struct {
	Config    *config.Config
	Log       *zap.Logger
	DB        *gorm.DB
	Cache     *cache.Client
	Publisher events.Publisher
	Metrics   *metrics.Metrics

	JWT        *auth.JWTService
	TokenStore *auth.TokenStore

	Auth        service.AuthService
	Users       service.UserService
	Departments service.DepartmentService
	Master      service.MasterService
	Inventory   service.InventoryService
	Receipts    service.ReceiptService
	Deliveries  service.DeliveryService
	Trash       service.TrashService
}

// New opens the database and builds every service. The caller owns Close.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	return Wire(cfg, log, gormDB, cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB), newPublisher(cfg, log)), nil
}

// Wire builds services and handlers over already opened infrastructure.
func Wire(cfg *config.Config, log *zap.Logger, gormDB *gorm.DB, cacheClient *cache.Client, publisher events.Publisher) *App {
	if log == nil {
		log = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	m := metrics.New()

	userRepo := repository.NewUserRepository(gormDB)
	deptRepo := repository.NewDepartmentRepository(gormDB)
	masterRepo := repository.NewMasterRepository(gormDB)
	receiptRepo := repository.NewReceiptRepository(gormDB)
	deliveryRepo := repository.NewDeliveryRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	return &App{
		Config:    cfg,
		Log:       log,
		DB:        gormDB,
		Cache:     cacheClient,
		Publisher: publisher,
		Metrics:   m,

		JWT:        jwtService,
		TokenStore: tokenStore,

		Auth:        service.NewAuthService(userRepo, jwtService, tokenStore),
		Users:       service.NewUserService(userRepo, deptRepo, tokenStore, cfg.JWTTTL, cfg.BcryptCost, cfg.TrashRetention),
		Departments: service.NewDepartmentService(deptRepo),
		Master:      service.NewMasterService(masterRepo, userRepo, cacheClient),
		Inventory:   service.NewInventoryService(masterRepo),
		Receipts:    service.NewReceiptService(receiptRepo, cacheClient, publisher, m, log, cfg.TrashRetention),
		Deliveries:  service.NewDeliveryService(deliveryRepo, publisher, m, log, cfg.TrashRetention),
		Trash:       service.NewTrashService(receiptRepo, deliveryRepo, userRepo, cacheClient, publisher, m, log, cfg.TrashRetention),
	}
}

func newPublisher(cfg *config.Config, log *zap.Logger) events.Publisher {
	if cfg.RabbitMQURL == "" {
		return events.Noop{}
	}
	publisher, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.EventsQueue)
	if err != nil {
		log.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
		return events.Noop{}
	}
	return publisher
}

// Routes builds the handlers and mounts them on the router deps.
func (a *App) Routes() router.Deps {
	return router.Deps{
		Log:        a.Log,
		Metrics:    a.Metrics,
		JWT:        a.JWT,
		TokenStore: a.TokenStore,

		Auth:        handler.NewAuthHandler(a.Auth),
		Users:       handler.NewUserHandler(a.Users),
		Departments: handler.NewDepartmentHandler(a.Departments),
		Master:      handler.NewMasterHandler(a.Master, a.Inventory),
		Receipts:    handler.NewReceiptHandler(a.Receipts),
		Deliveries:  handler.NewDeliveryHandler(a.Deliveries),
		Trash:       handler.NewTrashHandler(a.Trash),
	}
}

// Bootstrap migrates the schema, seeds reference rows and, when a password is
// configured, makes sure the admin account exists.
func (a *App) Bootstrap(ctx context.Context) error {
	if err := db.Migrate(a.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := db.SeedReferenceData(ctx, a.DB); err != nil {
		return fmt.Errorf("seed reference data: %w", err)
	}
	if a.Config.SeedAdminPassword == "" {
		return nil
	}
	user, created, err := a.Users.EnsureAdmin(ctx, a.Config.SeedAdminUsername, a.Config.SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if created {
		a.Log.Info("admin account created", zap.String("username", user.Username))
	}
	return nil
}

// Close releases the broker, cache and database connections.
func (a *App) Close() error {
	return errors.Join(a.Publisher.Close(), a.Cache.Close(), db.Close(a.DB))
}
