package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"wateradmin/internal/app"
)

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Trash retention commands",
}

var trashPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Hard-delete rows whose retention window has expired",
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return err
		}
		return withApp(func(a *app.App) error {
			result, err := a.Trash.Purge(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dry_run=%t cutoff=%s receipts=%d deliveries=%d users=%d\n",
				result.DryRun, result.Cutoff.Format(time.RFC3339),
				result.Receipts, result.Deliveries, result.Users)
			return nil
		})
	},
}

func init() {
	trashPurgeCmd.Flags().Bool("dry-run", false, "only count rows that would be deleted")
	trashCmd.AddCommand(trashPurgeCmd)
	rootCmd.AddCommand(trashCmd)
}
