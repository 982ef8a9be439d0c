package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	postmortemDays int
	postmortemJSON bool
)

var postmortemsCmd = &cobra.Command{
	Use:   "postmortems",
	Short: "List recent post-mortem pages from Confluence",
	Long: `Searches the configured Confluence space for pages under the post-mortem parent page
created in the last --days days (report_days by default).

  jira-report postmortems
  jira-report postmortems --days 30 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(true); err != nil {
			return err
		}

		days := appConfig.ReportDays
		if postmortemDays > 0 {
			days = postmortemDays
		}
		pages := newSource(appConfig).Postmortems(cmd.Context(), time.Now().AddDate(0, 0, -days))

		if postmortemJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(pages)
		}
		if len(pages) == 0 {
			fmt.Printf("No Post Mortems created in the last %d days.\n", days)
			return nil
		}
		for _, pm := range pages {
			fmt.Printf("%s  %s\n  %s\n", pm.Created.Format("2006-01-02"), pm.Title, pm.URL)
		}
		return nil
	},
}

func init() {
	postmortemsCmd.Flags().IntVar(&postmortemDays, "days", 0, "look back this many days (default report_days)")
	postmortemsCmd.Flags().BoolVar(&postmortemJSON, "json", false, "print the pages as JSON")
	rootCmd.AddCommand(postmortemsCmd)
}
