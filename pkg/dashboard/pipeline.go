// Package dashboard loads the Clockify data behind the dashboard as an
// explicit pipeline: user, workspaces, projects, then time entries.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/clockheat/clockheat/internal/event_bus"
	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/clockify"
	"github.com/clockheat/clockheat/pkg/summary"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrStale is returned by a refresh that was overtaken by a newer one.
	ErrStale        = errors.New("dashboard refresh superseded by a newer one")
	ErrNoWorkspaces = errors.New("no workspaces found for this Clockify user")
	ErrNoScope      = errors.New("no Clockify user and workspace loaded yet")
)

// Snapshot is an immutable view of the pipeline. Slices are shared between
// snapshots and must not be modified.
type Snapshot struct {
	Generation uint64
	State      State
	Filters    Filters
	User       *clockify.User
	Workspaces []clockify.Workspace
	Projects   []clockify.Project
	Entries    []clockify.TimeEntry
	Days       []summary.DailySummary
	Err        error
	// NeedsCredential is set when the API key is missing or was rejected.
	NeedsCredential bool
}

// Scope returns the user and workspace the snapshot was loaded for.
func (s Snapshot) Scope() (clockify.Scope, bool) {
	if s.User == nil || s.Filters.WorkspaceId == "" {
		return clockify.Scope{}, false
	}
	return clockify.Scope{WorkspaceId: s.Filters.WorkspaceId, UserId: s.User.Id}, true
}

type Pipeline struct {
	client  clockify.Client
	session *clockify.Session
	filters *FilterStore
	bus     *event_bus.EventBus
	clock   utils.Clock
	loc     *time.Location

	mu         sync.RWMutex
	generation uint64
	snapshot   Snapshot
}

func NewPipeline(client clockify.Client, session *clockify.Session, filters *FilterStore, bus *event_bus.EventBus, clock utils.Clock, loc *time.Location) *Pipeline {
	return &Pipeline{
		client:   client,
		session:  session,
		filters:  filters,
		bus:      bus,
		clock:    clock,
		loc:      loc,
		snapshot: Snapshot{State: Idle, Filters: DefaultFilters(clock.Now().In(loc))},
	}
}

func (p *Pipeline) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

func (p *Pipeline) Location() *time.Location {
	return p.loc
}

// Start loads the filters saved by the previous run and performs the first refresh.
func (p *Pipeline) Start(ctx context.Context) (Snapshot, error) {
	stored, err := p.filters.Load(ctx)
	if err != nil {
		log.Warnf("Failed to load stored filters, using defaults: %v", err)
		stored = Filters{}
	}
	return p.Refresh(ctx, stored)
}

// Retry refreshes with the filters currently shown.
func (p *Pipeline) Retry(ctx context.Context) (Snapshot, error) {
	return p.Refresh(ctx, p.Snapshot().Filters)
}

// WatchSession refreshes the dashboard whenever the API key changes.
func (p *Pipeline) WatchSession() {
	p.session.OnChange(func(apiKey string) {
		if err := p.bus.Publish(event_bus.NewEvent(context.Background(), event_bus.CredentialChangedType,
			event_bus.CredentialChanged{Present: apiKey != ""})); err != nil {
			log.Warnf("Failed to publish credential change: %v", err)
		}
		// runs outside the caller, which may be a fetch that just got a 401
		go func() {
			if _, err := p.Retry(context.Background()); err != nil && !errors.Is(err, ErrStale) {
				log.Debugf("Refresh after credential change failed: %v", err)
			}
		}()
	})
}

// Refresh reloads everything for filters. A refresh started later wins: this
// one then stops publishing and returns ErrStale.
func (p *Pipeline) Refresh(ctx context.Context, filters Filters) (Snapshot, error) {
	filters = filters.Normalize(p.clock.Now(), p.loc)

	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.mu.Unlock()
	log.Debugf("Dashboard refresh %d started for %s..%s", gen, utils.DayKey(filters.From), utils.DayKey(filters.To))

	if !p.session.HasCredential() {
		snapshot, err := p.transition(gen, func(s *Snapshot) {
			*s = Snapshot{State: Idle, Filters: filters, NeedsCredential: true}
		})
		if err != nil {
			return snapshot, err
		}
		return snapshot, clockify.ErrNoCredential
	}

	if _, err := p.transition(gen, func(s *Snapshot) {
		*s = Snapshot{State: LoadingUser, Filters: filters}
	}); err != nil {
		return p.Snapshot(), err
	}
	user, err := p.client.GetCurrentUser(ctx)
	if err != nil {
		return p.fail(gen, fmt.Errorf("failed to load user: %w", err))
	}

	if _, err := p.transition(gen, func(s *Snapshot) {
		s.State = LoadingWorkspaces
		s.User = &user
	}); err != nil {
		return p.Snapshot(), err
	}
	workspaces, err := p.client.GetWorkspaces(ctx)
	if err != nil {
		return p.fail(gen, fmt.Errorf("failed to load workspaces: %w", err))
	}
	workspaceId, ok := ResolveWorkspace(filters.WorkspaceId, user, workspaces)
	if !ok {
		return p.fail(gen, ErrNoWorkspaces)
	}
	if workspaceId != filters.WorkspaceId {
		if filters.WorkspaceId != "" {
			log.Infof("Workspace %s is not available anymore, switching to %s", filters.WorkspaceId, workspaceId)
		}
		filters.WorkspaceId = workspaceId
		filters.ProjectId = clockify.AllProjects
	}

	if _, err := p.transition(gen, func(s *Snapshot) {
		s.State = LoadingProjects
		s.Workspaces = workspaces
		s.Filters = filters
	}); err != nil {
		return p.Snapshot(), err
	}
	projects, err := p.client.GetProjects(ctx, workspaceId)
	if err != nil {
		return p.fail(gen, fmt.Errorf("failed to load projects: %w", err))
	}
	if !clockify.IsAllProjects(filters.ProjectId) && !containsProject(projects, filters.ProjectId) {
		log.Infof("Project %s not found in workspace %s, showing all projects", filters.ProjectId, workspaceId)
		filters.ProjectId = clockify.AllProjects
	}

	if _, err := p.transition(gen, func(s *Snapshot) {
		s.State = LoadingEntries
		s.Projects = projects
		s.Filters = filters
	}); err != nil {
		return p.Snapshot(), err
	}
	entries, err := p.client.GetTimeEntries(ctx, clockify.TimeEntriesQuery{
		Scope:     clockify.Scope{WorkspaceId: workspaceId, UserId: user.Id},
		Start:     filters.From,
		End:       filters.To,
		ProjectId: filters.ProjectId,
	})
	if err != nil {
		return p.fail(gen, fmt.Errorf("failed to load time entries: %w", err))
	}
	entries = clockify.FilterByProject(entries, filters.ProjectId)
	days, err := summary.Aggregate(entries, filters.From, filters.To)
	if err != nil {
		return p.fail(gen, err)
	}

	snapshot, err := p.transition(gen, func(s *Snapshot) {
		s.State = Ready
		s.Entries = entries
		s.Days = days
	})
	if err != nil {
		return snapshot, err
	}
	if err := p.filters.Save(ctx, filters); err != nil {
		log.Warnf("Failed to persist dashboard filters: %v", err)
	}
	log.Debugf("Dashboard refresh %d ready with %d entries", gen, len(entries))
	return snapshot, nil
}

func (p *Pipeline) fail(gen uint64, cause error) (Snapshot, error) {
	snapshot, err := p.transition(gen, func(s *Snapshot) {
		s.State = Failed
		s.Err = cause
		s.NeedsCredential = clockify.IsAuthError(cause)
	})
	if err != nil {
		return snapshot, err
	}
	log.Errorf("Dashboard refresh %d failed: %v", gen, cause)
	return snapshot, cause
}

// transition applies update when gen is still the latest refresh and
// publishes the resulting snapshot.
func (p *Pipeline) transition(gen uint64, update func(s *Snapshot)) (Snapshot, error) {
	p.mu.Lock()
	if gen != p.generation {
		current, latest := p.snapshot, p.generation
		p.mu.Unlock()
		log.Warnf("Discarding dashboard refresh %d, refresh %d is newer", gen, latest)
		return current, ErrStale
	}
	next := p.snapshot
	update(&next)
	next.Generation = gen
	p.snapshot = next
	p.mu.Unlock()

	p.publish(next)
	return next, nil
}

func (p *Pipeline) publish(s Snapshot) {
	event := event_bus.DashboardStateChanged{
		Generation:      s.Generation,
		State:           s.State.String(),
		WorkspaceId:     s.Filters.WorkspaceId,
		ProjectId:       s.Filters.ProjectId,
		From:            s.Filters.From,
		To:              s.Filters.To,
		NeedsCredential: s.NeedsCredential,
	}
	if s.Err != nil {
		event.Error = s.Err.Error()
	}
	if err := p.bus.Publish(event_bus.NewEvent(context.Background(), event_bus.DashboardStateChangedType, event)); err != nil {
		log.Warnf("Failed to publish dashboard state: %v", err)
	}
}

// ResolveScope returns the loaded user and workspace, refreshing first when
// nothing has been loaded yet.
func (p *Pipeline) ResolveScope(ctx context.Context) (clockify.Scope, error) {
	if scope, ok := p.Snapshot().Scope(); ok {
		return scope, nil
	}
	snapshot, err := p.Retry(ctx)
	if scope, ok := snapshot.Scope(); ok {
		return scope, nil
	}
	if err != nil {
		return clockify.Scope{}, err
	}
	return clockify.Scope{}, ErrNoScope
}

// ResolveWorkspace picks the workspace to show: the requested one when it
// still exists, then the user's default, the active one, and finally the first.
func ResolveWorkspace(requested string, user clockify.User, workspaces []clockify.Workspace) (string, bool) {
	if len(workspaces) == 0 {
		return "", false
	}
	for _, candidate := range []string{requested, user.DefaultWorkspace, user.ActiveWorkspace} {
		if candidate != "" && containsWorkspace(workspaces, candidate) {
			return candidate, true
		}
	}
	return workspaces[0].Id, true
}

func containsWorkspace(workspaces []clockify.Workspace, id string) bool {
	for _, w := range workspaces {
		if w.Id == id {
			return true
		}
	}
	return false
}

func containsProject(projects []clockify.Project, id string) bool {
	for _, p := range projects {
		if p.Id == id {
			return true
		}
	}
	return false
}
