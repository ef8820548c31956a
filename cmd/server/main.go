package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"wateradmin/docs" // swagger docs
	"wateradmin/internal/app"
	"wateradmin/internal/config"
	"wateradmin/internal/logger"
	"wateradmin/internal/router"
)

const shutdownTimeout = 10 * time.Second

// @title Water Admin API
// @version 1.0
// @description Company administration and water inventory API: users, departments, receipt lots, deliveries and QR labels.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	a, err := app.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("startup failed", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			zlog.Warn("close resources", zap.Error(err))
		}
	}()

	if err := a.Bootstrap(context.Background()); err != nil {
		zlog.Fatal("bootstrap failed", zap.Error(err))
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	e := echo.New()
	router.Register(e, cfg, a.Routes())

	addr := ":" + cfg.ServerPort
	go func() {
		zlog.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.AppEnv), zap.String("db_driver", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	zlog.Info("shutting down")
	if err := e.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown", zap.Error(err))
	}
}
