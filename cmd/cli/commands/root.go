// Package commands implements the one-shot CLI invocations of the engine.
// Every subcommand opens the database, runs a single bounded invocation and
// exits, which is the same execution model an external scheduler uses.
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remoteindex/remoteindex/internal/app"
)

// engine is the shared engine instance, initialized before any subcommand
// runs
var engine *app.Engine

func init() {
	RootCmd.AddCommand(syncCmd)
	RootCmd.AddCommand(discoverCmd)
	RootCmd.AddCommand(dedupeCmd)
	RootCmd.AddCommand(pruneCmd)
	RootCmd.AddCommand(historyCmd)
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "remoteindex",
	Short: "remoteindex - job posting synchronization and discovery engine",
	Long: `remoteindex keeps a local store of job postings in sync with external
sources, discovers new source companies from a candidate queue, and removes
duplicate and stale postings. Each subcommand runs one bounded invocation.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		engine, err = app.NewEngine()
		if err != nil {
			return fmt.Errorf("failed to initialize engine: %w", err)
		}
		return nil
	},
}

// printJSON pretty-prints a command result to stdout.
func printJSON(v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Println(string(prettyJSON))
	return nil
}
