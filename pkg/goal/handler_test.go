package goal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	t.Run("should create and list goals", func(t *testing.T) {
		// given
		f := setupTracker(t)
		handler := NewHandler(f.service, f.tracker)
		body := `{"name":"Deep work","type":"weekly","hours":12}`

		// when
		rr := httptest.NewRecorder()
		handler.CreateGoal(rr, httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(body)))

		// then
		require.Equal(t, http.StatusCreated, rr.Code)
		var created GoalDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
		assert.NotEmpty(t, created.Id)
		assert.Equal(t, Weekly, created.Type)

		rr = httptest.NewRecorder()
		handler.GetGoals(rr, httptest.NewRequest(http.MethodGet, "/api/goals", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var goals []GoalDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&goals))
		assert.Equal(t, []GoalDTO{created}, goals)
	})

	t.Run("should answer 400 for an invalid goal", func(t *testing.T) {
		f := setupTracker(t)
		handler := NewHandler(f.service, f.tracker)
		rr := httptest.NewRecorder()

		handler.CreateGoal(rr, httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(`{"name":"x","type":"weekly","hours":0}`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should answer 400 for malformed JSON", func(t *testing.T) {
		f := setupTracker(t)
		handler := NewHandler(f.service, f.tracker)
		rr := httptest.NewRecorder()

		handler.CreateGoal(rr, httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(`{`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should update the goal named in the path", func(t *testing.T) {
		// given
		f := setupTracker(t)
		handler := NewHandler(f.service, f.tracker)
		goal, err := f.service.Create(t.Context(), Goal{Name: "Write", Type: Weekly, Hours: 5})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPut, "/api/goals/"+goal.Id, strings.NewReader(`{"id":"ignored","name":"Write more","type":"monthly","hours":30}`))
		req = mux.SetURLVars(req, map[string]string{"goalId": goal.Id})
		rr := httptest.NewRecorder()

		// when
		handler.UpdateGoal(rr, req)

		// then
		require.Equal(t, http.StatusOK, rr.Code)
		goals, err := f.service.List(t.Context())
		require.NoError(t, err)
		require.Len(t, goals, 1)
		assert.Equal(t, goal.Id, goals[0].Id)
		assert.Equal(t, "Write more", goals[0].Name)
		assert.Equal(t, Monthly, goals[0].Type)
	})

	t.Run("should answer 404 for an unknown goal", func(t *testing.T) {
		f := setupTracker(t)
		handler := NewHandler(f.service, f.tracker)
		req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/goals/nope", nil), map[string]string{"goalId": "nope"})
		rr := httptest.NewRecorder()

		handler.DeleteGoal(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("should delete a goal", func(t *testing.T) {
		f := setupTracker(t)
		handler := NewHandler(f.service, f.tracker)
		goal, err := f.service.Create(t.Context(), Goal{Name: "Write", Type: Weekly, Hours: 5})
		require.NoError(t, err)
		req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/goals/"+goal.Id, nil), map[string]string{"goalId": goal.Id})
		rr := httptest.NewRecorder()

		handler.DeleteGoal(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("should report progress", func(t *testing.T) {
		// given
		f := setupTracker(t)
		handler := NewHandler(f.service, f.tracker)
		_, err := f.service.Create(t.Context(), Goal{Name: "Write", Type: Weekly, Hours: 4})
		require.NoError(t, err)
		f.client.AddEntries("ws1", worked("e1", at(time.June, 13, 9), time.Hour))
		rr := httptest.NewRecorder()

		// when
		handler.GetProgress(rr, httptest.NewRequest(http.MethodGet, "/api/goals/progress", nil))

		// then
		require.Equal(t, http.StatusOK, rr.Code)
		var progress []ProgressDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&progress))
		require.Len(t, progress, 1)
		assert.Equal(t, "2024-06-10", progress[0].PeriodStart)
		assert.Equal(t, "2024-06-16", progress[0].PeriodEnd)
		assert.Equal(t, 1.0, progress[0].TrackedHours)
		assert.Equal(t, 25.0, progress[0].Percent)
		assert.False(t, progress[0].Achieved)
	})
}
