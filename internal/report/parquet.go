package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

// TicketRow is one processed ticket in the Parquet export.
type TicketRow struct {
	RunID       string    `parquet:"run_id,snappy"`
	Key         string    `parquet:"key,snappy"`
	Summary     string    `parquet:"summary,snappy"`
	RawPriority string    `parquet:"raw_priority,snappy"`
	Priority    string    `parquet:"priority,snappy"`
	Status      string    `parquet:"status,snappy"`
	Cancelled   bool      `parquet:"cancelled"`
	Excluded    bool      `parquet:"excluded"`
	Created     time.Time `parquet:"created,snappy"`
	Updated     time.Time `parquet:"updated,snappy"`
	Assignee    string    `parquet:"assignee,snappy"`
	Resolution  *string   `parquet:"resolution,optional,snappy"`
	Cluster     string    `parquet:"cluster,snappy"`
	Namespace   string    `parquet:"namespace,snappy"`
	AlertType   string    `parquet:"alert_type,snappy"`
}

// TicketRows converts a processed batch for export, marking tickets the
// filter excludes.
func TicketRows(runID string, tickets []ticket.Ticket, filter *ticket.Filter) []TicketRow {
	rows := make([]TicketRow, 0, len(tickets))
	for _, t := range tickets {
		row := TicketRow{
			RunID:       runID,
			Key:         t.Key,
			Summary:     t.Summary,
			RawPriority: t.RawPriority,
			Priority:    string(t.Priority),
			Status:      t.Status,
			Cancelled:   t.Cancelled,
			Excluded:    filter.IsExcluded(t),
			Created:     t.Created,
			Updated:     t.Updated,
			Assignee:    t.Assignee,
			Cluster:     t.Cluster,
			Namespace:   t.Namespace,
			AlertType:   t.AlertType,
		}
		if t.Resolution != "" {
			resolution := t.Resolution
			row.Resolution = &resolution
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteParquet writes rows to a Parquet file at outputPath.
func WriteParquet(rows []TicketRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := EncodeParquet(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// EncodeParquet writes rows as Parquet to w.
func EncodeParquet(w io.Writer, rows []TicketRow) error {
	writer := parquet.NewGenericWriter[TicketRow](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
