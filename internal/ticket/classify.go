package ticket

import "strings"

// Other is the alert type of a ticket that no rule could label.
const Other = "Other"

// Rule is one step of the alert-type cascade.
type Rule struct {
	Name  string
	Match func(t Ticket) bool
	Label func(t Ticket) string
}

// Keyword maps a summary substring to a fixed alert type label.
type Keyword struct {
	Match string
	Label string
}

// Classifier assigns alert types by evaluating rules in order; the first match wins.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a Classifier over an explicit rule list.
func NewClassifier(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

// DefaultRules is the three-tier cascade: namespace attribution, then keyword
// rules in the given order, then the cluster fallback.
func DefaultRules(keywords []Keyword) []Rule {
	rules := []Rule{NamespaceRule()}
	for _, kw := range keywords {
		rules = append(rules, KeywordRule(kw))
	}
	return append(rules, ClusterFallbackRule())
}

// NamespaceRule labels any ticket with a known namespace as "{cluster},namespace:{namespace}".
// The cluster part may itself be Unknown.
func NamespaceRule() Rule {
	return Rule{
		Name:  "namespace",
		Match: func(t Ticket) bool { return t.Namespace != Unknown && t.Namespace != "" },
		Label: func(t Ticket) string { return t.Cluster + ",namespace:" + t.Namespace },
	}
}

// KeywordRule labels tickets whose lower-cased summary contains kw.Match.
func KeywordRule(kw Keyword) Rule {
	match := strings.ToLower(kw.Match)
	return Rule{
		Name:  "keyword:" + match,
		Match: func(t Ticket) bool { return strings.Contains(strings.ToLower(t.Summary), match) },
		Label: func(Ticket) string { return kw.Label },
	}
}

// ClusterFallbackRule always matches and labels with the cluster, or Other when it is empty.
func ClusterFallbackRule() Rule {
	return Rule{
		Name:  "cluster",
		Match: func(Ticket) bool { return true },
		Label: func(t Ticket) string {
			if t.Cluster == "" {
				return Other
			}
			return t.Cluster
		},
	}
}

// Classify returns the alert type for t.
func (c *Classifier) Classify(t Ticket) string {
	for _, r := range c.rules {
		if r.Match(t) {
			return r.Label(t)
		}
	}
	return Other
}

// ClassifyAll returns copies of tickets with AlertType set.
func (c *Classifier) ClassifyAll(tickets []Ticket) []Ticket {
	out := make([]Ticket, len(tickets))
	for i, t := range tickets {
		t.AlertType = c.Classify(t)
		out[i] = t
	}
	return out
}
