package goal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clockheat/clockheat/internal/rest"
	"github.com/clockheat/clockheat/internal/utils"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type GoalDTO struct {
	Id                string  `json:"id"`
	Name              string  `json:"name"`
	Type              Type    `json:"type"`
	Hours             float64 `json:"hours"`
	CustomPeriodStart *string `json:"customPeriodStart,omitempty"`
	CustomPeriodEnd   *string `json:"customPeriodEnd,omitempty"`
}

type ProgressDTO struct {
	Goal         GoalDTO `json:"goal"`
	PeriodStart  string  `json:"periodStart"`
	PeriodEnd    string  `json:"periodEnd"`
	TrackedHours float64 `json:"trackedHours"`
	Percent      float64 `json:"percent"`
	Achieved     bool    `json:"achieved"`
	Error        string  `json:"error,omitempty"`
}

type Handler struct {
	service Service
	tracker *ProgressTracker
}

func NewHandler(service Service, tracker *ProgressTracker) *Handler {
	return &Handler{service: service, tracker: tracker}
}

// GetGoals godoc
// @Summary List goals
// @Tags Goals
// @Produce json
// @Success 200 {array} GoalDTO
// @Router /api/goals [get]
func (h *Handler) GetGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.service.List(r.Context())
	if err != nil {
		log.Errorf("Failed to list goals: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to list goals", err.Error())
		return
	}

	result := make([]GoalDTO, 0, len(goals))
	for _, g := range goals {
		result = append(result, ToDTO(g))
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

// CreateGoal godoc
// @Summary Create a goal
// @Tags Goals
// @Accept json
// @Produce json
// @Param goal body GoalDTO true "Goal"
// @Success 201 {object} GoalDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid goal"
// @Router /api/goals [post]
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var dto GoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), FromDTO(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ToDTO(created))
}

// UpdateGoal godoc
// @Summary Update a goal
// @Tags Goals
// @Accept json
// @Produce json
// @Param goalId path string true "Goal ID"
// @Param goal body GoalDTO true "Goal"
// @Success 200 {object} GoalDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid goal"
// @Failure 404 {object} rest.ErrorResponse "Goal not found"
// @Router /api/goals/{goalId} [put]
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	goalId := mux.Vars(r)["goalId"]

	var dto GoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	goal := FromDTO(dto)
	goal.Id = goalId

	updated, err := h.service.Update(r.Context(), goal)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(updated))
}

// DeleteGoal godoc
// @Summary Delete a goal
// @Tags Goals
// @Param goalId path string true "Goal ID"
// @Success 204
// @Failure 404 {object} rest.ErrorResponse "Goal not found"
// @Router /api/goals/{goalId} [delete]
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["goalId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProgress godoc
// @Summary Progress of every goal
// @Description Measures each goal against the entries of its current period. A goal whose
// @Description entries could not be loaded carries an error instead of failing the request.
// @Tags Goals
// @Produce json
// @Success 200 {array} ProgressDTO
// @Router /api/goals/progress [get]
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.tracker.Track(r.Context())
	if err != nil {
		log.Errorf("Failed to track goals: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to track goals", err.Error())
		return
	}

	result := make([]ProgressDTO, 0, len(progress))
	for _, p := range progress {
		result = append(result, ProgressToDTO(p))
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidGoal):
		rest.WriteError(w, http.StatusBadRequest, "Invalid goal", err.Error())
	case errors.Is(err, ErrGoalNotFound):
		rest.WriteError(w, http.StatusNotFound, "Goal not found", err.Error())
	default:
		log.Errorf("Goal operation failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to store goal", err.Error())
	}
}

func ToDTO(g Goal) GoalDTO {
	return GoalDTO(g)
}

func FromDTO(dto GoalDTO) Goal {
	return Goal(dto)
}

func ProgressToDTO(p Progress) ProgressDTO {
	return ProgressDTO{
		Goal:         ToDTO(p.Goal),
		PeriodStart:  utils.DayKey(p.Period.Start),
		PeriodEnd:    utils.DayKey(p.Period.End),
		TrackedHours: p.TrackedHours,
		Percent:      utils.RoundHours(p.Percent()),
		Achieved:     p.Achieved(),
		Error:        p.Error,
	}
}
