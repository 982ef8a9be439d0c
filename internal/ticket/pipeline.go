package ticket

import (
	"go.uber.org/zap"

	"github.com/dt-pm-tools/jira-report/internal/logging"
)

// Rules is the rule data a Pipeline is built from.
type Rules struct {
	ClusterPattern    string
	NamespacePattern  string
	PriorityMap       map[string]string
	CancelledKeywords []string
	AlertKeywords     []Keyword
	ExcludedStatuses  []string
	DuplicateAssignee string
}

// Result is the output of one Pipeline run.
type Result struct {
	Tickets            []Ticket
	UnmappedPriorities []string
	DuplicatesDropped  int
}

// Pipeline runs extraction, normalization, deduplication and classification
// over a whole batch, one stage at a time.
type Pipeline struct {
	extractor  *Extractor
	normalizer *Normalizer
	classifier *Classifier
	filter     *Filter
	logger     *zap.Logger
}

// NewPipeline builds every stage from rules.
func NewPipeline(rules Rules, logger *zap.Logger) (*Pipeline, error) {
	extractor, err := NewExtractor(rules.ClusterPattern, rules.NamespacePattern)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		extractor:  extractor,
		normalizer: NewNormalizer(rules.PriorityMap, rules.CancelledKeywords),
		classifier: NewClassifier(DefaultRules(rules.AlertKeywords)...),
		filter:     NewFilter(rules.ExcludedStatuses, rules.DuplicateAssignee),
		logger:     logging.OrNop(logger),
	}, nil
}

// Filter returns the exclusion filter built from the same rules.
func (p *Pipeline) Filter() *Filter {
	return p.filter
}

// Process turns raw records into the cleaned, classified batch. Unmapped raw
// priorities are reported in a single warning for the batch.
func (p *Pipeline) Process(records []Record) Result {
	if len(records) == 0 {
		return Result{Tickets: []Ticket{}}
	}

	extracted := p.extractor.ExtractAll(records)
	normalized, unmapped := p.normalizer.NormalizeAll(extracted)
	if len(unmapped) > 0 {
		p.logger.Warn("unmapped priority values fell back to Unknown",
			zap.Strings("values", unmapped),
			zap.Int("batch_size", len(records)))
	}

	deduped := Dedupe(normalized)
	classified := p.classifier.ClassifyAll(deduped)

	p.logger.Debug("processed ticket batch",
		zap.Int("records", len(records)),
		zap.Int("tickets", len(classified)))

	return Result{
		Tickets:            classified,
		UnmappedPriorities: unmapped,
		DuplicatesDropped:  len(normalized) - len(deduped),
	}
}
