package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wateradmin/internal/app"
	"wateradmin/internal/config"
	"wateradmin/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "wateradmin",
	Short:         "Maintenance commands for the water admin service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// withApp loads configuration, connects and runs fn with the wired app.
func withApp(fn func(a *app.App) error) error {
	cfg := config.Load()
	zlog, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = zlog.Sync() }()

	a, err := app.New(cfg, zlog)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			zlog.Warn("close resources", zap.Error(err))
		}
	}()
	return fn(a)
}
