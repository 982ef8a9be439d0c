package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dt-pm-tools/jira-report/internal/markdown"
	"github.com/dt-pm-tools/jira-report/internal/report"
	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatMD    = "md"
)

func reportFilename(r report.Report, ext string) string {
	return fmt.Sprintf("weekly_report_w%d.%s", r.Week, ext)
}

// createFile opens files for writeTo.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeTo writes to path, or to stdout when path is empty.
func writeTo(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	file, err := createFile(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Written to %s\n", path)
	return nil
}

// renderReport writes r in the requested format. Markdown and JSON go to
// <outputDir>/weekly_report_w<N>.<ext> when outputDir is set; tables are
// terminal-only.
func renderReport(r report.Report, format, outputDir string) error {
	outputPath := func(ext string) string {
		if outputDir == "" {
			return ""
		}
		return filepath.Join(outputDir, reportFilename(r, ext))
	}

	switch format {
	case formatTable:
		if outputDir != "" {
			return fmt.Errorf("--output-dir needs --format %s or %s", formatJSON, formatMD)
		}
		return report.WriteTable(os.Stdout, r)
	case formatJSON:
		return writeTo(outputPath("json"), func(w io.Writer) error {
			return report.WriteJSON(w, r)
		})
	case formatMD:
		md, err := markdown.Marshal(r)
		if err != nil {
			return fmt.Errorf("converting to markdown: %w", err)
		}
		return writeTo(outputPath("md"), func(w io.Writer) error {
			_, err := io.WriteString(w, md)
			return err
		})
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatTable, formatJSON, formatMD)
	}
}

// applyPrevious attaches week-over-week deltas read from a previous markdown report.
func applyPrevious(r *report.Report, previousPath string) error {
	if previousPath == "" {
		return nil
	}
	content, err := os.ReadFile(previousPath)
	if err != nil {
		return fmt.Errorf("reading previous report: %w", err)
	}
	prev, err := markdown.ReadSummary(string(content))
	if err != nil {
		return fmt.Errorf("parsing previous report %s: %w", previousPath, err)
	}
	r.Deltas = report.Compare(prev.Summary, r.Summary)
	return nil
}

func exportParquet(path string, r report.Report, tickets []ticket.Ticket, filter *ticket.Filter) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := report.WriteParquet(report.TicketRows(r.RunID, tickets, filter), path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Written to %s\n", path)
	return nil
}
