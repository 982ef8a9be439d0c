package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dt-pm-tools/jira-report/internal/config"
)

// ErrAPI is matched by every non-2xx response.
var ErrAPI = errors.New("api error")

// APIError carries the status and body of a failed JIRA or Confluence call.
type APIError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API returned %d: %s", e.Service, e.StatusCode, e.Body)
}

func (e *APIError) Is(target error) bool { return target == ErrAPI }

const searchFields = "summary,status,issuetype,priority,assignee,resolution,created,updated"

// Client is a JIRA REST API v3 client that also reaches Confluence on the same site.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

// NewClient creates a new JIRA client from the given config.
func NewClient(cfg config.Config) *Client {
	creds := base64.StdEncoding.EncodeToString([]byte(cfg.Email + ":" + cfg.Token))
	baseURL := strings.TrimRight(cfg.URL, "/")
	return &Client{
		baseURL:    baseURL,
		authHeader: "Basic " + creds,
		httpClient: &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second},
	}
}

// BaseURL returns the site root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SearchIssues runs a JQL query and follows pagination until an empty or short page.
func (c *Client) SearchIssues(ctx context.Context, jql string, pageSize int) ([]Issue, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	var all []Issue
	for startAt := 0; ; startAt += pageSize {
		q := url.Values{}
		q.Set("jql", jql)
		q.Set("startAt", strconv.Itoa(startAt))
		q.Set("maxResults", strconv.Itoa(pageSize))
		q.Set("fields", searchFields)

		var page SearchResponse
		if err := c.getJSON(ctx, "JIRA", "/rest/api/3/search?"+q.Encode(), &page); err != nil {
			return nil, fmt.Errorf("searching issues at %d: %w", startAt, err)
		}
		if len(page.Issues) == 0 {
			break
		}
		all = append(all, page.Issues...)
		if len(page.Issues) < pageSize {
			break
		}
	}
	return all, nil
}

// GetChangelog fetches the change history of a single issue.
func (c *Client) GetChangelog(ctx context.Context, key string) ([]History, error) {
	path := fmt.Sprintf("/rest/api/3/issue/%s?expand=changelog&fields=priority", url.PathEscape(key))

	var issue Issue
	if err := c.getJSON(ctx, "JIRA", path, &issue); err != nil {
		return nil, fmt.Errorf("fetching changelog for %s: %w", key, err)
	}
	if issue.Changelog == nil {
		return nil, nil
	}
	return issue.Changelog.Histories, nil
}

// SearchContent runs a CQL query against Confluence.
func (c *Client) SearchContent(ctx context.Context, cql string, limit int) ([]Content, error) {
	q := url.Values{}
	q.Set("cql", cql)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("expand", "history")

	var resp ContentSearchResponse
	if err := c.getJSON(ctx, "Confluence", "/wiki/rest/api/content/search?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("searching content: %w", err)
	}
	return resp.Results, nil
}

func (c *Client) getJSON(ctx context.Context, service, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{Service: service, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
