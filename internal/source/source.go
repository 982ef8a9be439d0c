// Package source adapts the JIRA and Confluence client to the record shapes the
// report pipeline consumes, running named JQL templates through an optional TTL cache.
package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dt-pm-tools/jira-report/internal/cache"
	"github.com/dt-pm-tools/jira-report/internal/config"
	"github.com/dt-pm-tools/jira-report/internal/jira"
	"github.com/dt-pm-tools/jira-report/internal/logging"
	"github.com/dt-pm-tools/jira-report/internal/metrics"
	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

// API is the subset of *jira.Client the source needs.
type API interface {
	SearchIssues(ctx context.Context, jql string, pageSize int) ([]jira.Issue, error)
	GetChangelog(ctx context.Context, key string) ([]jira.History, error)
	SearchContent(ctx context.Context, cql string, limit int) ([]jira.Content, error)
}

// Options configures a Source.
type Options struct {
	Project   string
	Days      int
	PageSize  int
	Templates jira.Templates

	SiteURL          string
	Space            string
	PostmortemParent string
	PostmortemLimit  int
}

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Project:          cfg.Project,
		Days:             cfg.ReportDays,
		PageSize:         cfg.PageSize,
		Templates:        jira.Templates(cfg.Templates),
		SiteURL:          strings.TrimRight(cfg.URL, "/"),
		Space:            cfg.Confluence.Space,
		PostmortemParent: cfg.Confluence.PostmortemParent,
		PostmortemLimit:  cfg.Confluence.Limit,
	}
}

// Source executes report queries.
type Source struct {
	api    API
	opts   Options
	cache  *cache.Cache[[]ticket.Record]
	logger *zap.Logger
}

// New creates a Source. A nil cache disables caching.
func New(api API, opts Options, c *cache.Cache[[]ticket.Record], logger *zap.Logger) *Source {
	return &Source{api: api, opts: opts, cache: c, logger: logging.OrNop(logger)}
}

// Render expands a template with the project, the lookback and any extra placeholders.
func (s *Source) Render(template string, extra map[string]string) (string, error) {
	vars := map[string]string{
		"project": s.opts.Project,
		"days":    strconv.Itoa(s.opts.Days),
	}
	for k, v := range extra {
		vars[k] = v
	}
	return s.opts.Templates.Render(template, vars)
}

// Tickets runs a template and returns its records.
func (s *Source) Tickets(ctx context.Context, template string) ([]ticket.Record, error) {
	return s.query(ctx, template, nil)
}

// Count returns the number of tickets a template matches.
func (s *Source) Count(ctx context.Context, template string) (int, error) {
	records, err := s.query(ctx, template, nil)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// GroupCounts runs template once per name, substituting it for placeholder.
// Counts keep the order of names. A failed group counts as zero; only an
// unknown template is returned as an error.
func (s *Source) GroupCounts(ctx context.Context, template, placeholder string, names []string) ([]metrics.Count, error) {
	counts := make([]metrics.Count, 0, len(names))
	for _, name := range names {
		records, err := s.query(ctx, template, map[string]string{placeholder: name})
		if errors.Is(err, jira.ErrUnknownTemplate) {
			return nil, err
		}
		if err != nil {
			s.logger.Warn("group query failed, counting zero",
				zap.String("template", template), zap.String("group", name), zap.Error(err))
		}
		counts = append(counts, metrics.Count{Name: name, Count: len(records)})
	}
	return counts, nil
}

// TriageCounts returns the triage ratio of the service-desk board. A failed
// board query counts as zero.
func (s *Source) TriageCounts(ctx context.Context) (metrics.Triage, error) {
	counts := make([]int, 2)
	for i, template := range []string{config.TemplateBoardTotal, config.TemplateBoardUntriaged} {
		n, err := s.Count(ctx, template)
		if errors.Is(err, jira.ErrUnknownTemplate) {
			return metrics.Triage{}, err
		}
		if err != nil {
			s.logger.Warn("board query failed, counting zero", zap.String("template", template), zap.Error(err))
		}
		counts[i] = n
	}
	return metrics.TriageRatio(counts[0], counts[1]), nil
}

// Changes fetches one ticket's change history, one Change per changed field.
func (s *Source) Changes(ctx context.Context, key string) ([]ticket.Change, error) {
	histories, err := s.api.GetChangelog(ctx, key)
	if err != nil {
		return nil, err
	}
	return ConvertHistories(histories), nil
}

// WithHistory returns copies of records with their change history attached.
// A failed fetch is logged and leaves that record without history.
func (s *Source) WithHistory(ctx context.Context, records []ticket.Record) []ticket.Record {
	out := make([]ticket.Record, len(records))
	for i, r := range records {
		out[i] = r
		changes, err := s.Changes(ctx, r.Key)
		if err != nil {
			s.logger.Warn("failed to fetch change history", zap.String("ticket", r.Key), zap.Error(err))
			continue
		}
		out[i].History = changes
	}
	return out
}

func (s *Source) query(ctx context.Context, template string, extra map[string]string) ([]ticket.Record, error) {
	jql, err := s.Render(template, extra)
	if err != nil {
		return nil, err
	}
	if records, ok := s.cache.Get(jql); ok {
		s.logger.Debug("cache hit", zap.String("template", template))
		return records, nil
	}

	issues, err := s.api.SearchIssues(ctx, jql, s.opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", template, err)
	}
	records := ConvertIssues(issues)
	s.cache.Set(jql, records)
	s.logger.Debug("query complete", zap.String("template", template), zap.Int("tickets", len(records)))
	return records, nil
}

// Postmortem is a post-mortem page from the wiki.
type Postmortem struct {
	ID      string    `json:"id" yaml:"id"`
	Title   string    `json:"title" yaml:"title"`
	Created time.Time `json:"created" yaml:"created"`
	URL     string    `json:"url" yaml:"url"`
}

// PostmortemCQL builds the search for post-mortem pages created after since.
func (s *Source) PostmortemCQL(since time.Time) string {
	return fmt.Sprintf(`space = "%s" AND type = page AND ancestor = %s AND created > "%s" ORDER BY created DESC`,
		s.opts.Space, s.opts.PostmortemParent, since.Format("2006-01-02"))
}

// Postmortems lists post-mortem pages created after since. A failed search is
// logged and yields an empty list.
func (s *Source) Postmortems(ctx context.Context, since time.Time) []Postmortem {
	pages, err := s.api.SearchContent(ctx, s.PostmortemCQL(since), s.opts.PostmortemLimit)
	if err != nil {
		s.logger.Warn("post-mortem search failed", zap.Error(err))
		return []Postmortem{}
	}

	out := make([]Postmortem, 0, len(pages))
	for _, p := range pages {
		base := p.Links.Base
		if base == "" {
			base = s.opts.SiteURL + "/wiki"
		}
		out = append(out, Postmortem{
			ID:      p.ID,
			Title:   p.Title,
			Created: ticket.ParseTime(p.History.CreatedDate),
			URL:     base + p.Links.WebUI,
		})
	}
	return out
}
