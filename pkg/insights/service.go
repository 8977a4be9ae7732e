package insights

import (
	"context"
	"time"

	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/clockify"
	"github.com/clockheat/clockheat/pkg/dashboard"
	log "github.com/sirupsen/logrus"
)

type SnapshotSource interface {
	Snapshot() dashboard.Snapshot
}

type Service struct {
	source    SnapshotSource
	generator Generator
	clock     utils.Clock
	loc       *time.Location
}

func NewService(source SnapshotSource, generator Generator, clock utils.Clock, loc *time.Location) *Service {
	return &Service{source: source, generator: generator, clock: clock, loc: loc}
}

// Payload formats the loaded dashboard data for the generator. projectId
// overrides the dashboard's project filter when set. A dashboard that is not
// ready yields the sample week.
func (s *Service) Payload(ctx context.Context, projectId string) ([]byte, error) {
	snapshot := s.source.Snapshot()
	now := s.clock.Now().In(s.loc)
	if snapshot.State != dashboard.Ready {
		log.Debugf("Dashboard is %s, using sample insight data", snapshot.State)
		return FormatPayload(nil, nil, "", now)
	}

	if projectId == "" {
		projectId = snapshot.Filters.ProjectId
	}
	entries := snapshot.Entries
	if entries == nil {
		entries = []clockify.TimeEntry{}
	}
	return FormatPayload(entries, &Range{From: snapshot.Filters.From, To: snapshot.Filters.To}, projectId, now)
}

// Generate validates payload and hands it to the generator.
func (s *Service) Generate(ctx context.Context, payload string) (Insights, error) {
	if err := ValidatePayload(payload); err != nil {
		log.Debugf("Rejected insight payload: %v", err)
		return Insights{}, err
	}
	return s.generator.Generate(ctx, payload)
}
