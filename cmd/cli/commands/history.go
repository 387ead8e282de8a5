package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remoteindex/remoteindex/internal/db/models"
)

// runOutput represents the filtered output for one run
type runOutput struct {
	ID        uint   `json:"id"`
	RunID     string `json:"run_id"`
	SyncType  string `json:"sync_type"`
	Status    string `json:"status"`
	StartedAt string `json:"started_at"`
	Added     int    `json:"added"`
	Updated   int    `json:"updated"`
	Deleted   int    `json:"deleted"`
}

func init() {
	historyCmd.Flags().IntP("limit", "l", models.DefaultLimit, "Limit the number of runs returned")
	historyCmd.Flags().StringP("type", "t", "", "Filter runs by sync type (jobs, discovery, dedupe, prune)")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent engine runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		syncType, _ := cmd.Flags().GetString("type")

		runs, err := engine.Stores.History.List(context.Background(), syncType, &models.ListOptions{Limit: limit})
		if err != nil {
			return fmt.Errorf("error fetching runs: %w", err)
		}

		output := make([]runOutput, len(runs))
		for i, run := range runs {
			output[i] = runOutput{
				ID:        run.ID,
				RunID:     run.RunID,
				SyncType:  run.SyncType,
				Status:    run.Status.String(),
				StartedAt: run.StartedAt.Format("2006-01-02 15:04:05"),
				Added:     run.Stats.Added,
				Updated:   run.Stats.Updated,
				Deleted:   run.Stats.Deleted,
			}
		}
		return printJSON(output)
	},
}
