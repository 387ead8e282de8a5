package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remoteindex/remoteindex/internal/services"
)

func init() {
	pruneCmd.Flags().Bool("dry-run", false, "Report what would be deleted without deleting")
	pruneCmd.Flags().Bool("stale", false, "Delete stale postings at the default threshold instead of live-checking")
	pruneCmd.Flags().Int("stale-days", 0, "Delete postings not updated in this many days; 0 runs the live orphan check unless --stale is set")
	pruneCmd.Flags().StringSliceP("sources", "s", nil, "Restrict pruning to the named sources")
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove orphaned or stale postings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		stale, _ := cmd.Flags().GetBool("stale")
		staleDays, _ := cmd.Flags().GetInt("stale-days")
		srcs, _ := cmd.Flags().GetStringSlice("sources")

		result, err := engine.Prune.Run(context.Background(), services.PruneOptions{
			DryRun:    dryRun,
			Sources:   srcs,
			Stale:     stale,
			StaleDays: staleDays,
		})
		if err != nil {
			return fmt.Errorf("prune failed: %w", err)
		}
		return printJSON(result)
	},
}
