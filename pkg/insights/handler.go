package insights

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clockheat/clockheat/internal/rest"
	log "github.com/sirupsen/logrus"
)

type InsightsRequestDTO struct {
	// TimeTrackingData is the JSON array produced by the payload endpoint, possibly edited by the user.
	TimeTrackingData string `json:"timeTrackingData"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetPayload godoc
// @Summary Data for the insight generator
// @Description Daily totals of the loaded range, optionally narrowed to one project.
// @Description Returns a sample week when the dashboard is not loaded.
// @Tags Insights
// @Produce json
// @Param projectId query string false "Project ID"
// @Success 200 {array} DailyHours
// @Router /api/insights/payload [get]
func (h *Handler) GetPayload(w http.ResponseWriter, r *http.Request) {
	payload, err := h.service.Payload(r.Context(), r.URL.Query().Get("projectId"))
	if err != nil {
		log.Errorf("Failed to format insight payload: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to prepare data", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		log.Errorf("failed to write payload: %v", err)
	}
}

// Generate godoc
// @Summary Work pattern insights
// @Tags Insights
// @Accept json
// @Produce json
// @Param request body InsightsRequestDTO true "Time tracking data"
// @Success 200 {object} Insights
// @Failure 400 {object} rest.ErrorResponse "Invalid time tracking data"
// @Failure 503 {object} rest.ErrorResponse "Insights disabled"
// @Failure 502 {object} rest.ErrorResponse "Generator failed"
// @Router /api/insights [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var dto InsightsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	insights, err := h.service.Generate(r.Context(), dto.TimeTrackingData)
	switch {
	case err == nil:
		rest.WriteJSON(w, http.StatusOK, insights)
	case errors.Is(err, ErrInvalidPayload):
		rest.WriteError(w, http.StatusBadRequest, "Invalid JSON data", err.Error())
	case errors.Is(err, ErrDisabled):
		rest.WriteError(w, http.StatusServiceUnavailable, "Insights are disabled", "")
	default:
		rest.WriteError(w, http.StatusBadGateway, "Failed to generate insights", err.Error())
	}
}
