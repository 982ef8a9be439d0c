package ticket

import (
	"fmt"
	"regexp"
	"strings"
)

// Extractor flattens a Record and pulls cluster/namespace tokens out of its summary.
type Extractor struct {
	cluster   *regexp.Regexp
	namespace *regexp.Regexp
}

// NewExtractor compiles the two extraction patterns. Matching is always
// case-insensitive. An empty pattern disables that extraction.
func NewExtractor(clusterPattern, namespacePattern string) (*Extractor, error) {
	cluster, err := compilePattern(clusterPattern)
	if err != nil {
		return nil, fmt.Errorf("cluster pattern: %w", err)
	}
	namespace, err := compilePattern(namespacePattern)
	if err != nil {
		return nil, fmt.Errorf("namespace pattern: %w", err)
	}
	return &Extractor{cluster: cluster, namespace: namespace}, nil
}

func compilePattern(p string) (*regexp.Regexp, error) {
	if p == "" {
		return nil, nil
	}
	if !strings.HasPrefix(p, "(?i)") {
		p = "(?i)" + p
	}
	return regexp.Compile(p)
}

// Extract builds a Ticket from r. Derived fields other than cluster and
// namespace are left for later stages. It never fails.
func (e *Extractor) Extract(r Record) Ticket {
	t := Ticket{
		Key:         r.Key,
		Summary:     r.Summary,
		RawPriority: orDefault(r.Priority, Unassigned),
		Priority:    PriorityUnknown,
		Status:      orDefault(r.Status, Unknown),
		Created:     ParseTime(r.Created),
		Updated:     ParseTime(r.Updated),
		Assignee:    orDefault(r.Assignee, Unassigned),
		Resolution:  r.Resolution,
	}
	t.Cluster = firstGroup(e.cluster, r.Summary)
	t.Namespace = firstGroup(e.namespace, r.Summary)
	return t
}

// ExtractAll applies Extract to every record.
func (e *Extractor) ExtractAll(records []Record) []Ticket {
	out := make([]Ticket, 0, len(records))
	for _, r := range records {
		out = append(out, e.Extract(r))
	}
	return out
}

// firstGroup returns the first capture group of the leftmost match, the whole
// match when the pattern has no groups, or Unknown.
func firstGroup(re *regexp.Regexp, s string) string {
	if re == nil {
		return Unknown
	}
	m := re.FindStringSubmatch(s)
	if m == nil {
		return Unknown
	}
	token := m[0]
	if len(m) > 1 {
		token = m[1]
	}
	if token == "" {
		return Unknown
	}
	return token
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
