package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dt-pm-tools/jira-report/internal/history"
	"github.com/dt-pm-tools/jira-report/internal/metrics"
	"github.com/dt-pm-tools/jira-report/internal/report"
	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

var (
	legacyDump    string
	legacyOutDir  string
	legacyReasons string
)

var legacyCmd = &cobra.Command{
	Use:   "legacy",
	Short: "Build the report offline from a ticket dump",
	Long: `Runs the classification pipeline over a JSON dump written by 'jira-report dump' and
writes three files to --outdir: the markdown report, the processed tickets as Parquet, and
canceled_tickets.tsv listing the excluded tickets with a Reason column to fill in by hand.

Reasons already entered in an existing canceled_tickets.tsv (or the file given with --reasons)
are kept when the list is rewritten and counted in the report's Cancellation Reasons section.

No JIRA credentials are needed. Triage is derived from assignees since board counts are not
part of a dump.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(false); err != nil {
			return err
		}

		records, err := readDump(legacyDump)
		if err != nil {
			return err
		}

		pipeline, err := ticket.NewPipeline(pipelineRules(appConfig), logger)
		if err != nil {
			return fmt.Errorf("building pipeline: %w", err)
		}
		res := pipeline.Process(records)
		filter := pipeline.Filter()
		logger.Info("dump processed", zap.String("dump", legacyDump), zap.Int("tickets", len(res.Tickets)))

		listPath := filepath.Join(legacyOutDir, report.CancellationsFile)
		previous, err := readCancellations(listPath, legacyReasons)
		if err != nil {
			return err
		}
		cancellations := report.Cancellations(filter.Excluded(res.Tickets), previous)

		r := report.Build(report.Input{
			Now:                time.Now(),
			Title:              appConfig.Report.Title,
			Tickets:            res.Tickets,
			Filter:             filter,
			Names:              appConfig.Rules.Clusters,
			Weeks:              appConfig.Report.Weeks,
			WeekDays:           appConfig.Report.WeekDays,
			UserRequestTypes:   appConfig.Rules.UserRequestTypes,
			Triage:             metrics.TriageFromAssignees(filter.Valid(res.Tickets)),
			Transcripts:        history.NewTracker(appConfig.Rules.IgnoredAuthors, logger).FromRecords(records),
			UnmappedPriorities: res.UnmappedPriorities,
			Cancellations:      cancellations,
		})

		if err := os.MkdirAll(legacyOutDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		if err := renderReport(r, formatMD, legacyOutDir); err != nil {
			return err
		}
		if err := exportParquet(filepath.Join(legacyOutDir, "tickets.parquet"), r, res.Tickets, filter); err != nil {
			return err
		}

		if len(cancellations) == 0 {
			fmt.Fprintln(os.Stderr, "No cancelled tickets; skipping cancellation list")
			return nil
		}
		return writeTo(listPath, func(w io.Writer) error {
			return report.WriteCancellations(w, cancellations)
		})
	},
}

func readDump(path string) ([]ticket.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dump: %w", err)
	}
	var records []ticket.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing dump %s: %w", path, err)
	}
	return records, nil
}

// readCancellations loads reasons entered by hand. An explicit path must
// exist; the default list in the output directory is optional.
func readCancellations(defaultPath, explicitPath string) ([]report.Cancellation, error) {
	path := explicitPath
	if path == "" {
		path = defaultPath
	}
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) && explicitPath == "" {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening cancellation list: %w", err)
	}
	defer file.Close()

	entries, err := report.ReadCancellations(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, nil
}

func init() {
	legacyCmd.Flags().StringVar(&legacyDump, "dump", "dump.json", "ticket dump written by 'jira-report dump'")
	legacyCmd.Flags().StringVar(&legacyOutDir, "outdir", "reports", "directory for the generated files")
	legacyCmd.Flags().StringVar(&legacyReasons, "reasons", "", "hand-edited cancellation list to take reasons from (default <outdir>/canceled_tickets.tsv)")
	rootCmd.AddCommand(legacyCmd)
}
