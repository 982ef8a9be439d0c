package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dt-pm-tools/jira-report/internal/metrics"
	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

// CancellationsFile is the file name of the cancellation list.
const CancellationsFile = "canceled_tickets.tsv"

// NoReason fills the Reason column until someone edits the file by hand.
const NoReason = "No Reason Provided"

const (
	columnKey     = "Ticket ID"
	columnSummary = "Summary"
	columnReason  = "Reason"
)

// ErrNoReasonColumn is returned when a cancellation list has no Reason column.
var ErrNoReasonColumn = errors.New("cancellation list has no Reason column")

// Cancellation is one row of the cancellation list.
type Cancellation struct {
	Key     string
	Summary string
	Reason  string
}

// Cancellations lists excluded tickets, carrying over reasons already entered
// for the same keys. Tickets without one get NoReason.
func Cancellations(excluded []ticket.Ticket, previous []Cancellation) []Cancellation {
	reasons := make(map[string]string, len(previous))
	for _, c := range previous {
		if r := strings.TrimSpace(c.Reason); r != "" {
			reasons[c.Key] = r
		}
	}

	out := make([]Cancellation, 0, len(excluded))
	for _, t := range excluded {
		reason, ok := reasons[t.Key]
		if !ok {
			reason = NoReason
		}
		out = append(out, Cancellation{Key: t.Key, Summary: t.Summary, Reason: reason})
	}
	return out
}

// CancellationReasons counts the Reason column. Blank reasons are skipped.
func CancellationReasons(entries []Cancellation) metrics.Distribution {
	reasons := make([]string, len(entries))
	for i, c := range entries {
		reasons[i] = c.Reason
	}
	return metrics.Tally(reasons)
}

// WriteCancellations writes entries as a tab-separated list with a Reason
// column for manual input.
func WriteCancellations(w io.Writer, entries []Cancellation) error {
	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'

	if err := tsv.Write([]string{columnKey, columnSummary, columnReason}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, c := range entries {
		if err := tsv.Write([]string{c.Key, c.Summary, c.Reason}); err != nil {
			return fmt.Errorf("writing %s: %w", c.Key, err)
		}
	}
	tsv.Flush()
	return tsv.Error()
}

// ReadCancellations parses a cancellation list, typically after its Reason
// column was edited by hand. Columns are located by header name. An empty
// input yields no entries.
func ReadCancellations(r io.Reader) ([]Cancellation, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.FieldsPerRecord = -1
	tsv.LazyQuotes = true

	header, err := tsv.Read()
	if errors.Is(err, io.EOF) {
		return []Cancellation{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := map[string]int{columnKey: -1, columnSummary: -1, columnReason: -1}
	for i, name := range header {
		if _, ok := index[strings.TrimSpace(name)]; ok {
			index[strings.TrimSpace(name)] = i
		}
	}
	if index[columnReason] < 0 {
		return nil, ErrNoReasonColumn
	}

	field := func(record []string, column string) string {
		i := index[column]
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	out := make([]Cancellation, 0)
	for {
		record, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading cancellation list: %w", err)
		}
		out = append(out, Cancellation{
			Key:     field(record, columnKey),
			Summary: field(record, columnSummary),
			Reason:  field(record, columnReason),
		})
	}
	return out, nil
}
