package stats

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/clockheat/clockheat/internal/rest"
	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/dashboard"
	log "github.com/sirupsen/logrus"
)

type ProjectHoursDTO struct {
	ProjectId   string  `json:"projectId,omitempty"`
	ProjectName string  `json:"projectName"`
	TotalHours  float64 `json:"totalHours"`
	Other       bool    `json:"other,omitempty"`
}

type SummaryStatsDTO struct {
	TotalHours            float64           `json:"totalHours"`
	AverageDailyHours     float64           `json:"averageDailyHours"`
	MostProductiveDay     string            `json:"mostProductiveDay"`
	ProjectHoursBreakdown []ProjectHoursDTO `json:"projectHoursBreakdown,omitempty"`
}

type StatsReportDTO struct {
	From        string                      `json:"from"`
	To          string                      `json:"to"`
	Summary     SummaryStatsDTO             `json:"summary"`
	TopProjects []ProjectHoursDTO           `json:"topProjects,omitempty"`
	Days        []dashboard.DailySummaryDTO `json:"days"`
}

type StatsHandler struct {
	statsService     StatsService
	csvStatsRenderer StatsRenderer
	clock            utils.Clock
}

func NewStatsHandler(statsService StatsService, csvStatsRenderer StatsRenderer, clock utils.Clock) *StatsHandler {
	return &StatsHandler{statsService, csvStatsRenderer, clock}
}

// GetStats godoc
// @Summary Summary statistics
// @Description Totals, daily average, most productive weekday and project breakdown for the loaded range
// @Tags Stats
// @Produce json
// @Success 200 {object} StatsReportDTO
// @Failure 503 {object} rest.ErrorResponse "Dashboard not loaded"
// @Router /api/stats [get]
func (handler *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	report, ok := handler.report(w, r)
	if !ok {
		return
	}
	rest.WriteJSON(w, http.StatusOK, ReportToDTO(report))
}

// GetDailySummary godoc
// @Summary Daily totals
// @Description One row per day of the loaded range. Sends a CSV attachment when Accept is text/csv.
// @Tags Stats
// @Produce json
// @Produce text/csv
// @Success 200 {array} dashboard.DailySummaryDTO
// @Failure 503 {object} rest.ErrorResponse "Dashboard not loaded"
// @Router /api/summary/daily [get]
func (handler *StatsHandler) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	report, ok := handler.report(w, r)
	if !ok {
		return
	}

	if r.Header.Get("Accept") != "text/csv" {
		rest.WriteJSON(w, http.StatusOK, dashboard.DaysToDTO(report.Days))
		return
	}

	csv, err := handler.csvStatsRenderer.RenderDays(report.Days)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to render CSV", err.Error())
		return
	}
	filename := ExportFilename(utils.DayKey(handler.clock.Now()))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		log.Errorf("Failed to write CSV export: %v", err)
	}
}

func (handler *StatsHandler) report(w http.ResponseWriter, r *http.Request) (StatsReport, bool) {
	report, err := handler.statsService.GetStats(r.Context())
	if err != nil {
		if errors.Is(err, ErrNotReady) {
			rest.WriteError(w, http.StatusServiceUnavailable, "Dashboard data is not loaded", err.Error())
			return StatsReport{}, false
		}
		rest.WriteError(w, http.StatusInternalServerError, "Failed to compute stats", err.Error())
		return StatsReport{}, false
	}
	return report, true
}

func ReportToDTO(report StatsReport) StatsReportDTO {
	dto := StatsReportDTO{
		From: utils.DayKey(report.Range.From),
		To:   utils.DayKey(report.Range.To),
		Summary: SummaryStatsDTO{
			TotalHours:            report.Summary.TotalHours,
			AverageDailyHours:     report.Summary.AverageDailyHours,
			MostProductiveDay:     report.Summary.MostProductiveDay,
			ProjectHoursBreakdown: projectsToDTO(report.Summary.ProjectHoursBreakdown),
		},
		TopProjects: projectsToDTO(report.TopProjects),
		Days:        dashboard.DaysToDTO(report.Days),
	}
	return dto
}

func projectsToDTO(projects []ProjectHours) []ProjectHoursDTO {
	if projects == nil {
		return nil
	}
	result := make([]ProjectHoursDTO, 0, len(projects))
	for _, p := range projects {
		result = append(result, ProjectHoursDTO{
			ProjectId:   p.ProjectId,
			ProjectName: p.ProjectName,
			TotalHours:  p.TotalHours,
			Other:       p.Other,
		})
	}
	return result
}
