package clockify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/clockheat/clockheat/internal/config"
	"github.com/clockheat/clockheat/internal/utils"
	log "github.com/sirupsen/logrus"
)

const (
	apiKeyHeader     = "X-Api-Key"
	projectsPageSize = 500
	timestampLayout  = "2006-01-02T15:04:05.000Z"
)

type Client interface {
	GetCurrentUser(ctx context.Context) (User, error)                            // /user
	GetWorkspaces(ctx context.Context) ([]Workspace, error)                      // /workspaces
	GetProjects(ctx context.Context, workspaceId string) ([]Project, error)      // /workspaces/{workspaceId}/projects
	GetTimeEntries(ctx context.Context, q TimeEntriesQuery) ([]TimeEntry, error) // /workspaces/{workspaceId}/user/{userId}/time-entries
}

type ClientImpl struct {
	session    *Session
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

func NewClient(session *Session, cfg config.Clockify) *ClientImpl {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &ClientImpl{
		session:    session,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *ClientImpl) GetCurrentUser(ctx context.Context) (User, error) {
	var u User
	if err := c.get(ctx, "/user", nil, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (c *ClientImpl) GetWorkspaces(ctx context.Context) ([]Workspace, error) {
	var workspaces []Workspace
	if err := c.get(ctx, "/workspaces", nil, &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (c *ClientImpl) GetProjects(ctx context.Context, workspaceId string) ([]Project, error) {
	query := url.Values{}
	query.Set("page-size", strconv.Itoa(projectsPageSize))
	query.Set("archived", "false")

	var projects []Project
	endpoint := fmt.Sprintf("/workspaces/%s/projects", url.PathEscape(workspaceId))
	if err := c.get(ctx, endpoint, query, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetTimeEntries walks the pages one after another until a page comes back
// shorter than the page size. The end day is covered up to its last millisecond.
func (c *ClientImpl) GetTimeEntries(ctx context.Context, q TimeEntriesQuery) ([]TimeEntry, error) {
	endpoint := fmt.Sprintf("/workspaces/%s/user/%s/time-entries", url.PathEscape(q.WorkspaceId), url.PathEscape(q.UserId))

	start := utils.StartOfDay(q.Start).UTC().Format(timestampLayout)
	end := utils.EndOfDay(q.End).UTC().Format(timestampLayout)

	all := make([]TimeEntry, 0)
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("start", start)
		query.Set("end", end)
		query.Set("page", strconv.Itoa(page))
		query.Set("page-size", strconv.Itoa(c.pageSize))
		query.Set("hydrated", "true")
		if !IsAllProjects(q.ProjectId) {
			query.Set("project", q.ProjectId)
		}

		var entries []TimeEntry
		if err := c.get(ctx, endpoint, query, &entries); err != nil {
			return nil, err
		}
		log.Tracef("Fetched %d time entries from page %d", len(entries), page)
		all = append(all, entries...)

		if len(entries) < c.pageSize {
			break
		}
	}

	log.Debugf("Fetched %d time entries for workspace %s between %s and %s", len(all), q.WorkspaceId, start, end)
	return all, nil
}

func (c *ClientImpl) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	apiKey := c.session.APIKey()
	if apiKey == "" {
		log.Debug("Clockify API key is not set, request skipped")
		return ErrNoCredential
	}

	requestURL := c.baseURL + endpoint
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return err
	}
	req.Header.Set(apiKeyHeader, apiKey)
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request to %s: %v", endpoint, err)
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()
	log.Tracef("GET %s returned %d in %s", endpoint, resp.StatusCode, time.Since(started))

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := readAPIError(resp, endpoint)
		if apiErr.IsAuthError() {
			c.session.Invalidate(apiKey)
		}
		log.Error(apiErr)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Errorf("Failed to decode response from %s: %v", endpoint, err)
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	return nil
}

func readAPIError(resp *http.Response, endpoint string) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
