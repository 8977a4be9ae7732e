package goal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/clockheat/clockheat/pkg/settings"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	List(ctx context.Context) ([]Goal, error)
	// Modify replaces the stored goals with what fn returns. Calls are serialized.
	Modify(ctx context.Context, fn func(goals []Goal) ([]Goal, error)) error
}

type goalRecord struct {
	Id                string  `json:"id"`
	Name              string  `json:"name"`
	Type              Type    `json:"type"`
	Hours             float64 `json:"hours"`
	CustomPeriodStart *string `json:"customPeriodStart"`
	CustomPeriodEnd   *string `json:"customPeriodEnd"`
}

// RepositoryImpl keeps every goal in one JSON array under the goals setting.
type RepositoryImpl struct {
	store settings.Store
	mu    sync.Mutex
}

func NewRepository(store settings.Store) *RepositoryImpl {
	return &RepositoryImpl{store: store}
}

func (r *RepositoryImpl) List(ctx context.Context) ([]Goal, error) {
	value, err := r.store.Get(ctx, settings.KeyGoals)
	if errors.Is(err, settings.ErrSettingNotFound) {
		return []Goal{}, nil
	}
	if err != nil {
		return nil, err
	}

	var records []goalRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		log.Errorf("Stored goals are not valid JSON: %v", err)
		return nil, fmt.Errorf("could not read stored goals: %w", err)
	}

	goals := make([]Goal, 0, len(records))
	for _, rec := range records {
		goals = append(goals, Goal(rec))
	}
	return goals, nil
}

func (r *RepositoryImpl) Save(ctx context.Context, goals []Goal) error {
	records := make([]goalRecord, 0, len(goals))
	for _, g := range goals {
		records = append(records, goalRecord(g))
	}
	value, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, settings.KeyGoals, string(value))
}

func (r *RepositoryImpl) Modify(ctx context.Context, fn func(goals []Goal) ([]Goal, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	goals, err := r.List(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(goals)
	if err != nil {
		return err
	}
	return r.Save(ctx, updated)
}
