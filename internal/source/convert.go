package source

import (
	"github.com/dt-pm-tools/jira-report/internal/jira"
	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

// ConvertIssue flattens an API issue into a raw record. Absent nested
// fields become empty strings.
func ConvertIssue(issue jira.Issue) ticket.Record {
	f := issue.Fields
	r := ticket.Record{
		Key:     issue.Key,
		Summary: f.Summary,
		Created: f.Created,
		Updated: f.Updated,
	}
	if f.Status != nil {
		r.Status = f.Status.Name
	}
	if f.Priority != nil {
		r.Priority = f.Priority.Name
	}
	if f.Assignee != nil {
		r.Assignee = f.Assignee.DisplayName
	}
	if f.Resolution != nil {
		r.Resolution = f.Resolution.Name
	}
	if issue.Changelog != nil {
		r.History = ConvertHistories(issue.Changelog.Histories)
	}
	return r
}

// ConvertIssues converts a page set of issues in order.
func ConvertIssues(issues []jira.Issue) []ticket.Record {
	records := make([]ticket.Record, 0, len(issues))
	for _, issue := range issues {
		records = append(records, ConvertIssue(issue))
	}
	return records
}

// ConvertHistories expands change-history entries into one Change per item.
func ConvertHistories(histories []jira.History) []ticket.Change {
	changes := make([]ticket.Change, 0, len(histories))
	for _, h := range histories {
		var authorID, authorName string
		if h.Author != nil {
			authorID, authorName = h.Author.AccountID, h.Author.DisplayName
		}
		ts := ticket.ParseTime(h.Created)
		for _, item := range h.Items {
			changes = append(changes, ticket.Change{
				AuthorID:   authorID,
				AuthorName: authorName,
				Field:      item.Field,
				From:       item.FromString,
				To:         item.ToString,
				Timestamp:  ts,
			})
		}
	}
	return changes
}
