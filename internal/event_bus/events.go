package event_bus

import "time"

const (
	DashboardStateChangedType EventType = "dashboard.state.changed"
	GoalAchievedType          EventType = "goal.achieved"
	CredentialChangedType     EventType = "credential.changed"
)

// DashboardStateChanged is published on every transition of the dashboard pipeline.
type DashboardStateChanged struct {
	Generation  uint64
	State       string
	WorkspaceId string
	ProjectId   string
	From        time.Time
	To          time.Time
	// Error is set only when State is "failed".
	Error           string
	NeedsCredential bool
}

type GoalAchieved struct {
	GoalId       string
	Name         string
	TargetHours  float64
	TrackedHours float64
	PeriodStart  time.Time
	PeriodEnd    time.Time
}

type CredentialChanged struct {
	Present bool
}
