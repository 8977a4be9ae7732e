package clockify

import (
	"time"

	"github.com/clockheat/clockheat/pkg/duration"
)

type User struct {
	Id               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	ActiveWorkspace  string `json:"activeWorkspace"`
	DefaultWorkspace string `json:"defaultWorkspace"`
	ProfilePicture   string `json:"profilePicture"`
}

type Workspace struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	ImageUrl string `json:"imageUrl,omitempty"`
}

type Project struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	ClientId    string `json:"clientId"`
	ClientName  string `json:"clientName,omitempty"`
	WorkspaceId string `json:"workspaceId"`
	Billable    bool   `json:"billable"`
	Color       string `json:"color"`
	Archived    bool   `json:"archived"`
	Public      bool   `json:"public"`
}

type ProjectRef struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type TimeInterval struct {
	Start time.Time `json:"start"`
	// End is nil while the timer is still running.
	End      *time.Time `json:"end"`
	Duration *string    `json:"duration"`
}

type TimeEntry struct {
	Id           string       `json:"id"`
	Description  string       `json:"description"`
	UserId       string       `json:"userId"`
	WorkspaceId  string       `json:"workspaceId"`
	Billable     bool         `json:"billable"`
	ProjectId    *string      `json:"projectId"`
	Project      *ProjectRef  `json:"project,omitempty"`
	TaskId       *string      `json:"taskId"`
	TimeInterval TimeInterval `json:"timeInterval"`
}

func (e TimeEntry) ElapsedSeconds() int64 {
	token := ""
	if e.TimeInterval.Duration != nil {
		token = *e.TimeInterval.Duration
	}
	return duration.Elapsed(e.TimeInterval.Start, e.TimeInterval.End, token)
}

// ProjectKey returns the project id or "" for unassigned entries.
func (e TimeEntry) ProjectKey() string {
	if e.ProjectId == nil {
		return ""
	}
	return *e.ProjectId
}

// AllProjects is the filter value meaning no single project is selected.
const AllProjects = "_all_"

func IsAllProjects(projectId string) bool {
	return projectId == "" || projectId == AllProjects
}

// Scope identifies whose entries are fetched.
type Scope struct {
	WorkspaceId string
	UserId      string
}

type TimeEntriesQuery struct {
	Scope
	Start time.Time
	End   time.Time
	// ProjectId narrows the result to one project; "" or AllProjects means every project.
	ProjectId string
}

// FilterByProject keeps the entries of one project. All entries are returned
// for the all-projects filter.
func FilterByProject(entries []TimeEntry, projectId string) []TimeEntry {
	if IsAllProjects(projectId) {
		return entries
	}
	filtered := make([]TimeEntry, 0, len(entries))
	for _, e := range entries {
		if e.ProjectKey() == projectId {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func ProjectNames(projects []Project) map[string]string {
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.Id] = p.Name
	}
	return names
}
