package stats

import (
	"sync"

	"github.com/clockheat/clockheat/pkg/dashboard"
)

type snapshotSourceStub struct {
	mu       sync.RWMutex
	snapshot dashboard.Snapshot
}

func newSnapshotSourceStub(snapshot dashboard.Snapshot) *snapshotSourceStub {
	return &snapshotSourceStub{snapshot: snapshot}
}

func (s *snapshotSourceStub) Snapshot() dashboard.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *snapshotSourceStub) Set(snapshot dashboard.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
}
