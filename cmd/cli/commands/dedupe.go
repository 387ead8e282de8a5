package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remoteindex/remoteindex/internal/services"
)

func init() {
	dedupeCmd.Flags().Bool("dry-run", false, "Report duplicate clusters without deleting anything")
	dedupeCmd.Flags().StringSliceP("criteria", "c", nil, "Criteria to gate on (title, company, description, salary)")
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Find and remove near-duplicate postings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		criteria, _ := cmd.Flags().GetStringSlice("criteria")

		result, err := engine.Dedupe.Run(context.Background(), services.DedupeOptions{
			DryRun:   dryRun,
			Criteria: criteria,
		})
		if err != nil {
			return fmt.Errorf("dedupe failed: %w", err)
		}
		return printJSON(result)
	},
}
