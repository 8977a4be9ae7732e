package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/clockheat/clockheat/internal/rest"
	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/clockify"
	"github.com/clockheat/clockheat/pkg/heatmap"
	"github.com/clockheat/clockheat/pkg/summary"
	log "github.com/sirupsen/logrus"
)

type FiltersDTO struct {
	WorkspaceId string `json:"workspaceId"`
	ProjectId   string `json:"projectId"`
	From        string `json:"from"`
	To          string `json:"to"`
}

type UserDTO struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type WorkspaceDTO struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type ProjectDTO struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type DailySummaryDTO struct {
	Date       string  `json:"date"`
	TotalHours float64 `json:"totalHours"`
}

type SnapshotDTO struct {
	Generation      uint64            `json:"generation"`
	State           State             `json:"state"`
	Filters         FiltersDTO        `json:"filters"`
	User            *UserDTO          `json:"user,omitempty"`
	Workspaces      []WorkspaceDTO    `json:"workspaces"`
	Projects        []ProjectDTO      `json:"projects"`
	Days            []DailySummaryDTO `json:"days"`
	TotalHours      float64           `json:"totalHours"`
	Error           string            `json:"error,omitempty"`
	NeedsCredential bool              `json:"needsCredential"`
}

type DayEntryDTO struct {
	Id           string  `json:"id"`
	Description  string  `json:"description"`
	ProjectId    string  `json:"projectId,omitempty"`
	ProjectName  string  `json:"projectName"`
	ProjectColor string  `json:"projectColor"`
	Start        string  `json:"start"`
	End          *string `json:"end"`
	Duration     string  `json:"duration"`
}

type CellDTO struct {
	Date   string            `json:"date"`
	Value  float64           `json:"value"`
	State  heatmap.CellState `json:"state"`
	Bucket int               `json:"bucket"`
}

type MonthLabelDTO struct {
	WeekIndex int    `json:"weekIndex"`
	Year      int    `json:"year"`
	Label     string `json:"label"`
}

type HeatmapDTO struct {
	Start       string          `json:"start"`
	End         string          `json:"end"`
	Weeks       [][]CellDTO     `json:"weeks"`
	MonthLabels []MonthLabelDTO `json:"monthLabels"`
}

type Handler struct {
	pipeline *Pipeline
}

func NewHandler(pipeline *Pipeline) *Handler {
	return &Handler{pipeline: pipeline}
}

// GetDashboard godoc
// @Summary Current dashboard state
// @Description Returns the last loaded dashboard snapshot without fetching anything
// @Tags Dashboard
// @Produce json
// @Success 200 {object} SnapshotDTO
// @Router /api/dashboard [get]
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, SnapshotToDTO(h.pipeline.Snapshot()))
}

// Refresh godoc
// @Summary Reload the dashboard
// @Description Reloads user, workspaces, projects and entries with the current filters
// @Tags Dashboard
// @Produce json
// @Success 200 {object} SnapshotDTO
// @Failure 401 {object} rest.ErrorResponse "Clockify API key missing or rejected"
// @Failure 409 {object} rest.ErrorResponse "Superseded by a newer refresh"
// @Failure 502 {object} rest.ErrorResponse "Clockify request failed"
// @Router /api/dashboard/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	log.Debug("Manual dashboard refresh")
	snapshot, err := h.pipeline.Retry(r.Context())
	h.writeRefreshResult(w, snapshot, err)
}

// UpdateFilters godoc
// @Summary Change dashboard filters
// @Description Applies new filters and reloads. Empty fields keep their current value;
// @Description changing the workspace without naming a project resets the project filter.
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param filters body FiltersDTO true "Filters"
// @Success 200 {object} SnapshotDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid filters"
// @Router /api/dashboard/filters [put]
func (h *Handler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	var dto FiltersDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	filters, err := MergeFilters(h.pipeline.Snapshot().Filters, dto, h.pipeline.Location())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid filters", err.Error())
		return
	}
	log.Debugf("Updating dashboard filters: %+v", dto)

	snapshot, err := h.pipeline.Refresh(r.Context(), filters)
	h.writeRefreshResult(w, snapshot, err)
}

func (h *Handler) writeRefreshResult(w http.ResponseWriter, snapshot Snapshot, err error) {
	switch {
	case err == nil:
		rest.WriteJSON(w, http.StatusOK, SnapshotToDTO(snapshot))
	case errors.Is(err, ErrStale):
		rest.WriteError(w, http.StatusConflict, "Refresh superseded by a newer one", "")
	case errors.Is(err, ErrNoWorkspaces):
		rest.WriteError(w, http.StatusNotFound, "No workspaces available", err.Error())
	default:
		rest.WriteError(w, clockify.HTTPStatus(err), "Failed to load dashboard", err.Error())
	}
}

// GetDayEntries godoc
// @Summary Entries of one day
// @Description Lists the time entries that started on the given day, honoring the project filter
// @Tags Dashboard
// @Produce json
// @Param date query string true "Day (YYYY-MM-DD)"
// @Success 200 {array} DayEntryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date"
// @Failure 401 {object} rest.ErrorResponse "Clockify API key missing or rejected"
// @Router /api/entries/day [get]
func (h *Handler) GetDayEntries(w http.ResponseWriter, r *http.Request) {
	date, err := utils.ParseDate(r.URL.Query().Get("date"), h.pipeline.Location())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", "expected YYYY-MM-DD")
		return
	}

	entries, err := h.pipeline.EntriesForDay(r.Context(), date)
	if err != nil {
		rest.WriteError(w, clockify.HTTPStatus(err), "Failed to load entries", err.Error())
		return
	}

	result := make([]DayEntryDTO, 0, len(entries))
	for _, e := range entries {
		result = append(result, DayEntryToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

// GetHeatmap godoc
// @Summary Calendar heatmap
// @Description Lays out the loaded daily totals as week rows, padded to at least ten months
// @Tags Dashboard
// @Produce json
// @Success 200 {object} HeatmapDTO
// @Failure 503 {object} rest.ErrorResponse "Dashboard not loaded"
// @Router /api/heatmap [get]
func (h *Handler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	snapshot := h.pipeline.Snapshot()
	if snapshot.State != Ready {
		rest.WriteError(w, http.StatusServiceUnavailable, "Dashboard data is not loaded", snapshot.State.String())
		return
	}

	grid, err := BuildHeatmap(snapshot)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to build heatmap", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, GridToDTO(grid))
}

// BuildHeatmap renders the snapshot's days with the selected range as the
// active window.
func BuildHeatmap(snapshot Snapshot) (heatmap.Grid, error) {
	from, to := snapshot.Filters.From, snapshot.Filters.To
	displayStart, displayEnd := heatmap.DisplayRange(from, to)
	return heatmap.BuildGrid(summary.ToHeatmapPoints(snapshot.Days), displayStart, displayEnd, from, to)
}

// MergeFilters applies the non-empty fields of dto on top of current.
func MergeFilters(current Filters, dto FiltersDTO, loc *time.Location) (Filters, error) {
	next := current
	if dto.WorkspaceId != "" && dto.WorkspaceId != current.WorkspaceId {
		next.WorkspaceId = dto.WorkspaceId
		next.ProjectId = clockify.AllProjects
	}
	if dto.ProjectId != "" {
		next.ProjectId = dto.ProjectId
	}
	if dto.From != "" {
		from, err := utils.ParseDate(dto.From, loc)
		if err != nil {
			return Filters{}, errors.New("from must be YYYY-MM-DD")
		}
		next.From = from
	}
	if dto.To != "" {
		to, err := utils.ParseDate(dto.To, loc)
		if err != nil {
			return Filters{}, errors.New("to must be YYYY-MM-DD")
		}
		next.To = to
	}
	if next.To.Before(next.From) {
		return Filters{}, errors.New("to is before from")
	}
	return next, nil
}

func SnapshotToDTO(s Snapshot) SnapshotDTO {
	dto := SnapshotDTO{
		Generation: s.Generation,
		State:      s.State,
		Filters: FiltersDTO{
			WorkspaceId: s.Filters.WorkspaceId,
			ProjectId:   s.Filters.ProjectId,
			From:        utils.DayKey(s.Filters.From),
			To:          utils.DayKey(s.Filters.To),
		},
		Workspaces:      make([]WorkspaceDTO, 0, len(s.Workspaces)),
		Projects:        make([]ProjectDTO, 0, len(s.Projects)),
		Days:            DaysToDTO(s.Days),
		TotalHours:      summary.TotalHours(s.Days),
		NeedsCredential: s.NeedsCredential,
	}
	if s.User != nil {
		dto.User = &UserDTO{Id: s.User.Id, Name: s.User.Name, Email: s.User.Email}
	}
	for _, w := range s.Workspaces {
		dto.Workspaces = append(dto.Workspaces, WorkspaceDTO{Id: w.Id, Name: w.Name})
	}
	for _, p := range s.Projects {
		dto.Projects = append(dto.Projects, ProjectDTO{Id: p.Id, Name: p.Name, Color: p.Color})
	}
	if s.Err != nil {
		dto.Error = s.Err.Error()
	}
	return dto
}

func DaysToDTO(days []summary.DailySummary) []DailySummaryDTO {
	result := make([]DailySummaryDTO, 0, len(days))
	for _, d := range days {
		result = append(result, DailySummaryDTO{Date: utils.DayKey(d.Date), TotalHours: d.TotalHours})
	}
	return result
}

func DayEntryToDTO(e DayEntry) DayEntryDTO {
	dto := DayEntryDTO{
		Id:           e.Id,
		Description:  e.Description,
		ProjectId:    e.ProjectId,
		ProjectName:  e.ProjectName,
		ProjectColor: e.ProjectColor,
		Start:        e.Start.Format(time.RFC3339),
		Duration:     e.Duration,
	}
	if e.End != nil {
		end := e.End.Format(time.RFC3339)
		dto.End = &end
	}
	return dto
}

func GridToDTO(g heatmap.Grid) HeatmapDTO {
	dto := HeatmapDTO{
		Start:       utils.DayKey(g.Start),
		End:         utils.DayKey(g.End),
		Weeks:       make([][]CellDTO, 0, len(g.Weeks)),
		MonthLabels: make([]MonthLabelDTO, 0, len(g.MonthLabels)),
	}
	for _, week := range g.Weeks {
		cells := make([]CellDTO, 0, len(week))
		for _, c := range week {
			cells = append(cells, CellDTO{Date: utils.DayKey(c.Date), Value: c.Value, State: c.State, Bucket: c.Bucket})
		}
		dto.Weeks = append(dto.Weeks, cells)
	}
	for _, l := range g.MonthLabels {
		dto.MonthLabels = append(dto.MonthLabels, MonthLabelDTO{WeekIndex: l.WeekIndex, Year: l.Year, Label: l.Name()})
	}
	return dto
}
