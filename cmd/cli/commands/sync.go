package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remoteindex/remoteindex/internal/services"
)

func init() {
	syncCmd.Flags().IntP("max-jobs", "m", services.DefaultMaxJobsPerCompany, "Max postings fetched per company this tick")
	syncCmd.Flags().Bool("no-update", false, "Do not update postings already stored")
	syncCmd.Flags().Bool("no-add", false, "Do not insert new postings")
	syncCmd.Flags().StringSliceP("sources", "s", nil, "Restrict the tick to the named sources")
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one bounded sync tick",
	RunE: func(cmd *cobra.Command, _ []string) error {
		maxJobs, _ := cmd.Flags().GetInt("max-jobs")
		noUpdate, _ := cmd.Flags().GetBool("no-update")
		noAdd, _ := cmd.Flags().GetBool("no-add")
		srcs, _ := cmd.Flags().GetStringSlice("sources")

		opts := services.SyncOptions{
			Sources:           srcs,
			UpdateExisting:    !noUpdate,
			AddNew:            !noAdd,
			MaxJobsPerCompany: maxJobs,
		}

		result, err := engine.Sync.RunTick(context.Background(), opts)
		if err != nil {
			return fmt.Errorf("sync tick failed: %w", err)
		}
		return printJSON(result)
	},
}
