package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"wateradmin/internal/app"
	"wateradmin/internal/config"
	"wateradmin/internal/logger"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.SeedAdminPassword == "" {
		zlog.Warn("SEED_ADMIN_PASSWORD is empty, admin account will not be created")
	}

	a, err := app.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("connect", zap.Error(err))
	}
	defer func() { _ = a.Close() }()

	if err := a.Bootstrap(context.Background()); err != nil {
		zlog.Fatal("seed failed", zap.Error(err))
	}
	zlog.Info("seed completed")
}
