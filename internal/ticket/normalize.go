package ticket

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalizer maps raw priorities onto the closed scale and derives the cancelled flag.
type Normalizer struct {
	table    map[string]Priority
	keywords []string
}

// NewNormalizer builds a Normalizer. Keys of priorityMap are matched after
// trimming and title-casing, so "HIGHEST", "highest" and "Highest" are equal.
// Values outside the closed set map to PriorityUnknown.
func NewNormalizer(priorityMap map[string]string, cancelledKeywords []string) *Normalizer {
	table := make(map[string]Priority, len(priorityMap))
	for raw, p := range priorityMap {
		table[canonicalPriority(raw)] = ParsePriority(p)
	}

	var keywords []string
	for _, kw := range cancelledKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return &Normalizer{table: table, keywords: keywords}
}

func canonicalPriority(raw string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(raw))
}

// Priority maps a raw priority. ok is false when raw is not in the table;
// the result is then PriorityUnknown. Blank input counts as mapped.
func (n *Normalizer) Priority(raw string) (p Priority, ok bool) {
	key := canonicalPriority(raw)
	if key == "" {
		return PriorityUnknown, true
	}
	p, ok = n.table[key]
	if !ok {
		return PriorityUnknown, false
	}
	return p, true
}

// Cancelled reports whether any keyword is a substring of the lower-cased summary or status.
func (n *Normalizer) Cancelled(summary, status string) bool {
	summary = strings.ToLower(summary)
	status = strings.ToLower(status)
	for _, kw := range n.keywords {
		if strings.Contains(summary, kw) || strings.Contains(status, kw) {
			return true
		}
	}
	return false
}

// NormalizeAll returns normalized copies of tickets and the sorted distinct
// raw priorities that had no mapping.
func (n *Normalizer) NormalizeAll(tickets []Ticket) ([]Ticket, []string) {
	out := make([]Ticket, len(tickets))
	unmapped := make(map[string]struct{})
	for i, t := range tickets {
		p, ok := n.Priority(t.RawPriority)
		if !ok {
			unmapped[t.RawPriority] = struct{}{}
		}
		t.Priority = p
		t.Cancelled = n.Cancelled(t.Summary, t.Status)
		out[i] = t
	}

	values := make([]string, 0, len(unmapped))
	for v := range unmapped {
		values = append(values, v)
	}
	sort.Strings(values)
	return out, values
}
