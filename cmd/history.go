package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/jira-report/internal/history"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history <issue-key>...",
	Short: "Show the priority changes of specific tickets",
	Long: `Fetches the change history of each ticket and prints its priority transitions in time
order. Changes made by ignored authors (rules.ignored_authors) are skipped. A ticket whose
history cannot be fetched is logged and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(true); err != nil {
			return err
		}

		keys := make([]string, len(args))
		for i, a := range args {
			keys[i] = strings.ToUpper(a)
		}

		tracker := history.NewTracker(appConfig.Rules.IgnoredAuthors, logger)
		transcripts := tracker.Collect(cmd.Context(), keys, newSource(appConfig))

		if historyJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(transcripts)
		}
		for _, key := range keys {
			transitions, ok := transcripts[key]
			if !ok {
				fmt.Printf("%s: no priority changes\n", key)
				continue
			}
			fmt.Printf("%s:\n", key)
			for _, tr := range transitions {
				fmt.Printf("  %s  %s\n", tr.Timestamp.Format("2006-01-02 15:04"), tr.Priority)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print the transcripts as JSON")
	rootCmd.AddCommand(historyCmd)
}
