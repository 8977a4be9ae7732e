package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/clockheat/clockheat/internal/app"
	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/clockify"
	"github.com/clockheat/clockheat/pkg/dashboard"
	"github.com/clockheat/clockheat/pkg/stats"
	"github.com/clockheat/clockheat/pkg/summary"
	"github.com/spf13/cobra"
)

type rangeFlags struct {
	from      string
	to        string
	project   string
	workspace string
}

func (f *rangeFlags) register(cmd *cobra.Command, withProject bool) {
	cmd.Flags().StringVar(&f.from, "from", "", "First day (YYYY-MM-DD), defaults to January 1st of this year")
	cmd.Flags().StringVar(&f.to, "to", "", "Last day (YYYY-MM-DD), defaults to December 31st of this year")
	cmd.Flags().StringVar(&f.workspace, "workspace", "", "Workspace ID, defaults to the user's default workspace")
	if withProject {
		cmd.Flags().StringVar(&f.project, "project", clockify.AllProjects, "Project ID")
	}
}

// filters turns the flags into dashboard filters; empty dates keep the current year.
func (f *rangeFlags) filters(now time.Time, loc *time.Location) (dashboard.Filters, error) {
	filters := dashboard.DefaultFilters(now.In(loc))
	filters.WorkspaceId = f.workspace
	if f.project != "" {
		filters.ProjectId = f.project
	}
	if f.from != "" {
		from, err := utils.ParseDate(f.from, loc)
		if err != nil {
			return dashboard.Filters{}, fmt.Errorf("invalid --from %q, expected YYYY-MM-DD", f.from)
		}
		filters.From = from
	}
	if f.to != "" {
		to, err := utils.ParseDate(f.to, loc)
		if err != nil {
			return dashboard.Filters{}, fmt.Errorf("invalid --to %q, expected YYYY-MM-DD", f.to)
		}
		filters.To = to
	}
	if filters.To.Before(filters.From) {
		return dashboard.Filters{}, fmt.Errorf("--to %s is before --from %s", utils.DayKey(filters.To), utils.DayKey(filters.From))
	}
	return filters, nil
}

// loadReport fetches the entries selected by filters straight from Clockify,
// leaving the dashboard's saved filters untouched.
func loadReport(ctx context.Context, deps *app.Dependencies, filters dashboard.Filters) (stats.StatsReport, error) {
	client := deps.ClockifyClient
	if !deps.Session.HasCredential() {
		return stats.StatsReport{}, clockify.ErrNoCredential
	}

	user, err := client.GetCurrentUser(ctx)
	if err != nil {
		return stats.StatsReport{}, err
	}
	workspaces, err := client.GetWorkspaces(ctx)
	if err != nil {
		return stats.StatsReport{}, err
	}
	workspaceId, ok := dashboard.ResolveWorkspace(filters.WorkspaceId, user, workspaces)
	if !ok {
		return stats.StatsReport{}, dashboard.ErrNoWorkspaces
	}
	projects, err := client.GetProjects(ctx, workspaceId)
	if err != nil {
		return stats.StatsReport{}, err
	}
	entries, err := client.GetTimeEntries(ctx, clockify.TimeEntriesQuery{
		Scope:     clockify.Scope{WorkspaceId: workspaceId, UserId: user.Id},
		Start:     filters.From,
		End:       filters.To,
		ProjectId: filters.ProjectId,
	})
	if err != nil {
		return stats.StatsReport{}, err
	}

	days, err := summary.Aggregate(entries, filters.From, filters.To)
	if err != nil {
		return stats.StatsReport{}, err
	}
	active := stats.Range{From: filters.From, To: filters.To}
	return stats.Report(days, entries, projects, active, filters.ProjectId), nil
}
