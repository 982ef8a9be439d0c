package jira

// Issue represents a JIRA issue from the REST API v3.
type Issue struct {
	Key       string     `json:"key"`
	Fields    Fields     `json:"fields"`
	Changelog *Changelog `json:"changelog,omitempty"`
}

// Fields contains the issue fields the report pipeline reads.
type Fields struct {
	Summary    string      `json:"summary"`
	Status     *Status     `json:"status,omitempty"`
	IssueType  *IssueType  `json:"issuetype,omitempty"`
	Priority   *Priority   `json:"priority,omitempty"`
	Assignee   *User       `json:"assignee,omitempty"`
	Resolution *Resolution `json:"resolution,omitempty"`
	Created    string      `json:"created,omitempty"`
	Updated    string      `json:"updated,omitempty"`
}

// Status represents a JIRA status.
type Status struct {
	Name           string          `json:"name"`
	StatusCategory *StatusCategory `json:"statusCategory,omitempty"`
}

// StatusCategory represents the high-level category of a JIRA status.
type StatusCategory struct {
	Key  string `json:"key"`  // "new", "indeterminate", "done"
	Name string `json:"name"` // "To Do", "In Progress", "Done"
}

// IssueType represents a JIRA issue type.
type IssueType struct {
	Name string `json:"name"`
}

// Priority represents a JIRA priority.
type Priority struct {
	Name string `json:"name"`
}

// Resolution represents a JIRA resolution.
type Resolution struct {
	Name string `json:"name"`
}

// User represents a JIRA user.
type User struct {
	AccountID    string `json:"accountId,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	DisplayName  string `json:"displayName"`
}

// SearchResponse is one page of GET /rest/api/3/search.
type SearchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Changelog wraps the histories returned with expand=changelog.
type Changelog struct {
	Histories []History `json:"histories"`
}

// History is one change-history entry; a single edit can touch several fields.
type History struct {
	ID      string        `json:"id"`
	Author  *User         `json:"author,omitempty"`
	Created string        `json:"created"`
	Items   []HistoryItem `json:"items"`
}

// HistoryItem is a single field change inside a History entry.
type HistoryItem struct {
	Field      string `json:"field"`
	FieldType  string `json:"fieldtype,omitempty"`
	From       string `json:"from,omitempty"`
	FromString string `json:"fromString"`
	To         string `json:"to,omitempty"`
	ToString   string `json:"toString"`
}

// ContentSearchResponse is the response of GET /wiki/rest/api/content/search.
type ContentSearchResponse struct {
	Results []Content `json:"results"`
}

// Content is a Confluence page returned by a CQL search.
type Content struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	History ContentHistory `json:"history"`
	Links   PageLinks      `json:"_links"`
}

// ContentHistory carries the page creation date (expand=history).
type ContentHistory struct {
	CreatedDate string `json:"createdDate"`
}

// PageLinks contains the _links object from the Confluence API.
type PageLinks struct {
	WebUI string `json:"webui"`
	Base  string `json:"base,omitempty"`
}
