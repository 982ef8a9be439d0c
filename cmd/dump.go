package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/jira-report/internal/config"
)

var (
	dumpOut      string
	dumpTemplate string
	dumpHistory  bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Save raw tickets to a JSON file for offline processing",
	Long: `Runs a JQL template (all_tickets by default) and writes the raw ticket records as JSON.
The file is the input of 'jira-report legacy'. Writes to stdout by default, or to a file with --out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(true); err != nil {
			return err
		}
		ctx := cmd.Context()
		src := newSource(appConfig)

		records, err := src.Tickets(ctx, dumpTemplate)
		if err != nil {
			return fmt.Errorf("fetching tickets: %w", err)
		}
		if dumpHistory {
			records = src.WithHistory(ctx, records)
		}

		return writeTo(dumpOut, func(w io.Writer) error {
			encoder := json.NewEncoder(w)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(records); err != nil {
				return fmt.Errorf("failed to encode JSON: %w", err)
			}
			return nil
		})
	},
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpOut, "out", "o", "", "write the dump to this file instead of stdout")
	dumpCmd.Flags().StringVar(&dumpTemplate, "template", config.TemplateAllTickets, "JQL template to run")
	dumpCmd.Flags().BoolVar(&dumpHistory, "history", false, "attach each ticket's change history")
	rootCmd.AddCommand(dumpCmd)
}
