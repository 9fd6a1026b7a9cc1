// validate.go analogue: standalone subcommands that read a config or
// history file without starting the agent, matching cmd/niac/validate.go's
// one-shot read-and-report shape.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/krisarmstrong/cdp-go/pkg/config"
	"github.com/krisarmstrong/cdp-go/pkg/history"
	"github.com/krisarmstrong/cdp-go/pkg/logging"
)

var validateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate a cdpd configuration file",
	Long: `validate parses and checks a cdpd configuration file without
starting the agent, reporting any errors or warnings found.

Exit codes:
  0 - configuration is valid
  1 - configuration has errors`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var historyCmd = &cobra.Command{
	Use:   "history <history-db>",
	Short: "Print the most recent discovery events from a history log",
	Long: `history opens a bbolt discovery-event log written by a running
agent's history collaborator and prints its most recent entries,
newest first.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

var (
	validateJSON bool
	historyLimit int
)

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(historyCmd)

	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output validation results as JSON")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of events to print")
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	cfg, err := config.Parse(data, args[0])
	if err != nil {
		if errList, ok := err.(*config.ConfigErrorList); ok {
			if validateJSON {
				return json.NewEncoder(os.Stdout).Encode(errList)
			}
			for _, e := range errList.Errors {
				logging.Error("%s: %s", e.Field, e.Message)
			}
			for _, w := range errList.Warnings {
				logging.Warning("%s: %s", w.Field, w.Message)
			}
			os.Exit(1)
		}
		return err
	}

	if validateJSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{"valid": true, "config": cfg})
	}
	logging.Success("configuration is valid: %s", args[0])
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	log, err := history.Open(args[0], 0, nil)
	if err != nil {
		return fmt.Errorf("failed to open history log: %w", err)
	}
	defer log.Close()

	records, err := log.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history log: %w", err)
	}
	return json.NewEncoder(os.Stdout).Encode(records)
}
