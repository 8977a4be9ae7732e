package clockify

import (
	"context"
	"sync"

	"github.com/clockheat/clockheat/internal/utils"
)

type ClientStub struct {
	mu         sync.RWMutex
	user       User
	workspaces []Workspace
	projects   map[string][]Project   // workspaceId -> projects
	entries    map[string][]TimeEntry // workspaceId -> entries

	getCurrentUserErr error
	getWorkspacesErr  error
	getProjectsErr    error
	// timeEntriesErr decides per query whether the fetch fails.
	timeEntriesErr func(q TimeEntriesQuery) error

	timeEntriesCalls []TimeEntriesQuery
	// beforeTimeEntries runs before entries are returned, letting tests interleave other calls.
	beforeTimeEntries func(q TimeEntriesQuery)
}

func NewClientStub() *ClientStub {
	return &ClientStub{
		projects: make(map[string][]Project),
		entries:  make(map[string][]TimeEntry),
	}
}

func (c *ClientStub) GetCurrentUser(ctx context.Context) (User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.getCurrentUserErr != nil {
		return User{}, c.getCurrentUserErr
	}
	return c.user, nil
}

func (c *ClientStub) GetWorkspaces(ctx context.Context) ([]Workspace, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.getWorkspacesErr != nil {
		return nil, c.getWorkspacesErr
	}
	result := make([]Workspace, len(c.workspaces))
	copy(result, c.workspaces)
	return result, nil
}

func (c *ClientStub) GetProjects(ctx context.Context, workspaceId string) ([]Project, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.getProjectsErr != nil {
		return nil, c.getProjectsErr
	}
	result := make([]Project, len(c.projects[workspaceId]))
	copy(result, c.projects[workspaceId])
	return result, nil
}

// GetTimeEntries mimics the API: entries whose start falls on a day in
// [q.Start, q.End], optionally narrowed to one project.
func (c *ClientStub) GetTimeEntries(ctx context.Context, q TimeEntriesQuery) ([]TimeEntry, error) {
	c.mu.Lock()
	c.timeEntriesCalls = append(c.timeEntriesCalls, q)
	hook := c.beforeTimeEntries
	errFn := c.timeEntriesErr
	c.mu.Unlock()

	if hook != nil {
		hook(q)
	}
	if errFn != nil {
		if err := errFn(q); err != nil {
			return nil, err
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	from := utils.StartOfDay(q.Start)
	to := utils.StartOfDay(q.End).AddDate(0, 0, 1)
	result := make([]TimeEntry, 0)
	for _, e := range c.entries[q.WorkspaceId] {
		start := e.TimeInterval.Start
		if start.Before(from) || !start.Before(to) {
			continue
		}
		if !IsAllProjects(q.ProjectId) && e.ProjectKey() != q.ProjectId {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (c *ClientStub) SetUser(u User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = u
}

func (c *ClientStub) SetWorkspaces(workspaces ...Workspace) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.workspaces = workspaces
}

func (c *ClientStub) SetProjects(workspaceId string, projects ...Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects[workspaceId] = projects
}

func (c *ClientStub) AddEntries(workspaceId string, entries ...TimeEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[workspaceId] = append(c.entries[workspaceId], entries...)
}

func (c *ClientStub) SetCurrentUserError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getCurrentUserErr = err
}

func (c *ClientStub) SetWorkspacesError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getWorkspacesErr = err
}

func (c *ClientStub) SetProjectsError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getProjectsErr = err
}

func (c *ClientStub) SetTimeEntriesError(fn func(q TimeEntriesQuery) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeEntriesErr = fn
}

func (c *ClientStub) BeforeTimeEntries(hook func(q TimeEntriesQuery)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beforeTimeEntries = hook
}

func (c *ClientStub) TimeEntriesCalls() []TimeEntriesQuery {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]TimeEntriesQuery, len(c.timeEntriesCalls))
	copy(result, c.timeEntriesCalls)
	return result
}

func (c *ClientStub) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = User{}
	c.workspaces = nil
	c.projects = make(map[string][]Project)
	c.entries = make(map[string][]TimeEntry)
	c.getCurrentUserErr = nil
	c.getWorkspacesErr = nil
	c.getProjectsErr = nil
	c.timeEntriesErr = nil
	c.timeEntriesCalls = nil
	c.beforeTimeEntries = nil
}
