package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Probe one window of the company candidate queue",
	RunE: func(_ *cobra.Command, _ []string) error {
		result, err := engine.Discovery.RunTick(context.Background())
		if err != nil {
			return fmt.Errorf("discovery tick failed: %w", err)
		}
		return printJSON(result)
	},
}
