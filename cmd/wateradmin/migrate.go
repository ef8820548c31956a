package main

import (
	"github.com/spf13/cobra"

	"wateradmin/internal/app"
	"wateradmin/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			if err := db.Migrate(a.DB); err != nil {
				return err
			}
			return db.SeedReferenceData(cmd.Context(), a.DB)
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate, seed reference data and ensure the admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			return a.Bootstrap(cmd.Context())
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
