package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dt-pm-tools/jira-report/internal/config"
	"github.com/dt-pm-tools/jira-report/internal/history"
	"github.com/dt-pm-tools/jira-report/internal/report"
	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

var (
	reportFormat    string
	reportOutputDir string
	reportWeeks     int
	reportHistory   bool
	reportPrevious  string
	reportParquet   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the weekly operations report",
	Long: `Fetches the recent tickets, classifies them and prints the weekly report: executive
summary, triage ratio, priority/cluster/namespace/alert-type distributions, weekly valid and
cancelled counts per cluster, P1 alerts, untriaged alerts per cluster and namespace, and
recent post-mortems.

  jira-report report
  jira-report report --format md --output-dir reports --previous reports/weekly_report_w40.md
  jira-report report --history --parquet reports/tickets.parquet`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportOutputDir != "" && reportFormat == formatTable {
			return fmt.Errorf("--output-dir needs --format %s or %s", formatJSON, formatMD)
		}
		if err := loadConfig(true); err != nil {
			return err
		}
		ctx := cmd.Context()
		now := time.Now()

		pipeline, err := ticket.NewPipeline(pipelineRules(appConfig), logger)
		if err != nil {
			return fmt.Errorf("building pipeline: %w", err)
		}
		src := newSource(appConfig)

		records, err := src.Tickets(ctx, config.TemplateAllTickets)
		if err != nil {
			return fmt.Errorf("fetching tickets: %w", err)
		}
		res := pipeline.Process(records)
		logger.Info("tickets processed",
			zap.Int("fetched", len(records)),
			zap.Int("tickets", len(res.Tickets)),
			zap.Int("duplicates", res.DuplicatesDropped))

		triage, err := src.TriageCounts(ctx)
		if err != nil {
			return err
		}
		clusterAlerts, err := src.GroupCounts(ctx, config.TemplateClusterAlerts, "cluster", appConfig.Rules.Clusters)
		if err != nil {
			return err
		}
		namespaceAlerts, err := src.GroupCounts(ctx, config.TemplateNamespaceAlerts, "namespace", appConfig.Rules.Namespaces)
		if err != nil {
			return err
		}
		postmortems := src.Postmortems(ctx, now.AddDate(0, 0, -appConfig.ReportDays))

		var transcripts history.Transcripts
		if reportHistory {
			keys := make([]string, 0, len(res.Tickets))
			for _, t := range res.Tickets {
				keys = append(keys, t.Key)
			}
			transcripts = history.NewTracker(appConfig.Rules.IgnoredAuthors, logger).Collect(ctx, keys, src)
		}

		weeks := appConfig.Report.Weeks
		if reportWeeks > 0 {
			weeks = reportWeeks
		}

		r := report.Build(report.Input{
			Now:                now,
			Title:              appConfig.Report.Title,
			Tickets:            res.Tickets,
			Filter:             pipeline.Filter(),
			Names:              appConfig.Rules.Clusters,
			Weeks:              weeks,
			WeekDays:           appConfig.Report.WeekDays,
			UserRequestTypes:   appConfig.Rules.UserRequestTypes,
			Triage:             triage,
			ClusterAlerts:      clusterAlerts,
			NamespaceAlerts:    namespaceAlerts,
			Postmortems:        postmortems,
			Transcripts:        transcripts,
			UnmappedPriorities: res.UnmappedPriorities,
		})
		if err := applyPrevious(&r, reportPrevious); err != nil {
			return err
		}

		if err := exportParquet(reportParquet, r, res.Tickets, pipeline.Filter()); err != nil {
			return err
		}
		return renderReport(r, reportFormat, reportOutputDir)
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", formatTable, "output format: table, json or md")
	reportCmd.Flags().StringVar(&reportOutputDir, "output-dir", "", "write the md or json report to <dir>/weekly_report_w<N>.<ext> instead of stdout")
	reportCmd.Flags().IntVar(&reportWeeks, "weeks", 0, "number of weekly windows (default from config)")
	reportCmd.Flags().BoolVar(&reportHistory, "history", false, "fetch change history and include priority transcripts")
	reportCmd.Flags().StringVar(&reportPrevious, "previous", "", "previous markdown report to compute week-over-week deltas from")
	reportCmd.Flags().StringVar(&reportParquet, "parquet", "", "also export the processed tickets to this Parquet file")
	rootCmd.AddCommand(reportCmd)
}
