package goal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/clockheat/clockheat/internal/event_bus"
	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/clockify"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const MissingScope = "User/workspace info missing."

type ScopeResolver interface {
	ResolveScope(ctx context.Context) (clockify.Scope, error)
}

// ProgressTracker measures every goal against the entries tracked in its period.
type ProgressTracker struct {
	repo        Repository
	client      clockify.Client
	scopes      ScopeResolver
	bus         *event_bus.EventBus
	clock       utils.Clock
	loc         *time.Location
	// concurrency caps simultaneous fetches; 0 starts one fetch per goal at once.
	concurrency int

	mu        sync.Mutex
	announced map[string]bool
}

func NewProgressTracker(repo Repository, client clockify.Client, scopes ScopeResolver, bus *event_bus.EventBus, clock utils.Clock, loc *time.Location, concurrency int) *ProgressTracker {
	if concurrency < 0 {
		concurrency = 0
	}
	return &ProgressTracker{
		repo:        repo,
		client:      client,
		scopes:      scopes,
		bus:         bus,
		clock:       clock,
		loc:         loc,
		concurrency: concurrency,
		announced:   make(map[string]bool),
	}
}

// Track computes the progress of all goals. Goals are fetched concurrently and
// independently: a goal whose fetch fails carries its own error and zero hours.
// The result keeps the stored order and is only returned once every goal is done.
func (t *ProgressTracker) Track(ctx context.Context) ([]Progress, error) {
	goals, err := t.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return []Progress{}, nil
	}

	now := t.clock.Now().In(t.loc)
	results := make([]Progress, len(goals))
	for i, g := range goals {
		results[i] = Progress{Goal: g, Period: ResolvePeriod(g, now)}
	}

	scope, err := t.scopes.ResolveScope(ctx)
	if err != nil {
		log.Warnf("Cannot track goals without a user and workspace: %v", err)
		for i := range results {
			results[i].Error = MissingScope
		}
		return results, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	if t.concurrency > 0 {
		group.SetLimit(t.concurrency)
	}
	for i := range results {
		group.Go(func() error {
			hours, err := t.trackedHours(groupCtx, scope, results[i].Period)
			if err != nil {
				log.Errorf("Failed to compute progress of goal %s: %v", results[i].Goal.Id, err)
				results[i].Error = err.Error()
				return nil
			}
			results[i].TrackedHours = hours
			return nil
		})
	}
	// goroutines never return an error, failures stay on their own goal
	_ = group.Wait()

	t.announce(ctx, results)
	return results, nil
}

func (t *ProgressTracker) trackedHours(ctx context.Context, scope clockify.Scope, period Period) (float64, error) {
	entries, err := t.client.GetTimeEntries(ctx, clockify.TimeEntriesQuery{
		Scope: scope,
		Start: period.Start,
		End:   period.End,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load entries: %w", err)
	}

	var seconds int64
	for _, e := range entries {
		if !period.Contains(e.TimeInterval.Start) {
			continue
		}
		if elapsed := e.ElapsedSeconds(); elapsed > 0 {
			seconds += elapsed
		}
	}
	return utils.RoundHours(utils.SecondsToHours(seconds)), nil
}

// announce publishes goal.achieved once per goal and period.
func (t *ProgressTracker) announce(ctx context.Context, results []Progress) {
	for _, p := range results {
		if !p.Achieved() {
			continue
		}
		key := p.Goal.Id + "|" + utils.DayKey(p.Period.Start) + "|" + utils.DayKey(p.Period.End)
		t.mu.Lock()
		seen := t.announced[key]
		t.announced[key] = true
		t.mu.Unlock()
		if seen {
			continue
		}

		err := t.bus.Publish(event_bus.NewEvent(ctx, event_bus.GoalAchievedType, event_bus.GoalAchieved{
			GoalId:       p.Goal.Id,
			Name:         p.Goal.Name,
			TargetHours:  p.Goal.Hours,
			TrackedHours: p.TrackedHours,
			PeriodStart:  p.Period.Start,
			PeriodEnd:    p.Period.End,
		}))
		if err != nil {
			log.Warnf("Failed to publish achievement of goal %s: %v", p.Goal.Id, err)
		}
	}
}
