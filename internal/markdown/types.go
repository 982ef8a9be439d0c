package markdown

import "github.com/dt-pm-tools/jira-report/internal/metrics"

// Frontmatter is the YAML header of a rendered report. It is the part a later
// run reads back to compute week-over-week deltas.
type Frontmatter struct {
	RunID     string          `yaml:"runId"`
	Title     string          `yaml:"title"`
	Week      int             `yaml:"week"`
	Generated string          `yaml:"generated"`
	Summary   metrics.Summary `yaml:"summary"`
	Triage    metrics.Triage  `yaml:"triage"`
}
