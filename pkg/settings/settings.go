// Package settings persists the small key/value state the dashboard keeps
// between runs: the Clockify API key, goals and the last used filters.
package settings

import (
	"context"
	"errors"
)

const (
	KeyApiKey        = "clockify_user_api_key"
	KeyGoals         = "timeflow_goals_list"
	KeyWorkspaceId   = "timeflow_filters_workspaceId"
	KeyProjectId     = "timeflow_filters_projectId"
	KeyDateRangeFrom = "timeflow_filters_dateRange_from"
	KeyDateRangeTo   = "timeflow_filters_dateRange_to"
)

var ErrSettingNotFound = errors.New("setting not found")

type Store interface {
	// Get returns ErrSettingNotFound for keys never set or deleted.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// GetOrDefault hides ErrSettingNotFound behind a fallback value.
func GetOrDefault(ctx context.Context, store Store, key string, fallback string) (string, error) {
	value, err := store.Get(ctx, key)
	if errors.Is(err, ErrSettingNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
