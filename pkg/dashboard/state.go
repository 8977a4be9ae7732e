package dashboard

import "fmt"

// State is a step of the dashboard load pipeline.
type State int

const (
	Idle State = iota
	LoadingUser
	LoadingWorkspaces
	LoadingProjects
	LoadingEntries
	Ready
	Failed
)

var stateNames = map[State]string{
	Idle:              "idle",
	LoadingUser:       "loading_user",
	LoadingWorkspaces: "loading_workspaces",
	LoadingProjects:   "loading_projects",
	LoadingEntries:    "loading_entries",
	Ready:             "ready",
	Failed:            "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown dashboard state %q", text)
}

// Loading reports whether a refresh is in flight.
func (s State) Loading() bool {
	return s >= LoadingUser && s <= LoadingEntries
}
