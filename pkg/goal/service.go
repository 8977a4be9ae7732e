package goal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context) ([]Goal, error)
	Create(ctx context.Context, goal Goal) (Goal, error)
	Update(ctx context.Context, goal Goal) (Goal, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Goal, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) Create(ctx context.Context, goal Goal) (Goal, error) {
	goal = normalize(goal)
	if err := goal.Validate(); err != nil {
		return Goal{}, err
	}
	goal.Id = uuid.NewString()

	err := s.repo.Modify(ctx, func(goals []Goal) ([]Goal, error) {
		return append(goals, goal), nil
	})
	if err != nil {
		return Goal{}, err
	}
	log.Debugf("Created goal %s (%s)", goal.Id, goal.Name)
	return goal, nil
}

func (s *ServiceImpl) Update(ctx context.Context, goal Goal) (Goal, error) {
	goal = normalize(goal)
	if err := goal.Validate(); err != nil {
		return Goal{}, err
	}

	err := s.repo.Modify(ctx, func(goals []Goal) ([]Goal, error) {
		for i := range goals {
			if goals[i].Id == goal.Id {
				goals[i] = goal
				return goals, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrGoalNotFound, goal.Id)
	})
	if err != nil {
		return Goal{}, err
	}
	return goal, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Modify(ctx, func(goals []Goal) ([]Goal, error) {
		for i := range goals {
			if goals[i].Id == id {
				return append(goals[:i], goals[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrGoalNotFound, id)
	})
}

// normalize trims the name and drops empty custom dates.
func normalize(g Goal) Goal {
	g.Name = strings.TrimSpace(g.Name)
	if g.CustomPeriodStart != nil && strings.TrimSpace(*g.CustomPeriodStart) == "" {
		g.CustomPeriodStart = nil
	}
	if g.CustomPeriodEnd != nil && strings.TrimSpace(*g.CustomPeriodEnd) == "" {
		g.CustomPeriodEnd = nil
	}
	return g
}
