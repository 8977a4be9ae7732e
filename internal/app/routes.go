package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Dashboard
	r.HandleFunc("/api/dashboard", deps.DashboardHandler.GetDashboard).Methods("GET")
	r.HandleFunc("/api/dashboard/refresh", deps.DashboardHandler.Refresh).Methods("POST")
	r.HandleFunc("/api/dashboard/filters", deps.DashboardHandler.UpdateFilters).Methods("PUT")
	r.HandleFunc("/api/dashboard/ws", deps.StreamHandler.Stream).Methods("GET")
	r.HandleFunc("/api/heatmap", deps.DashboardHandler.GetHeatmap).Methods("GET")
	r.HandleFunc("/api/entries/day", deps.DashboardHandler.GetDayEntries).Queries("date", "{date}").Methods("GET")

	// Clockify credential
	r.HandleFunc("/api/credential", deps.CredentialHandler.GetCredential).Methods("GET")
	r.HandleFunc("/api/credential", deps.CredentialHandler.SetCredential).Methods("PUT")
	r.HandleFunc("/api/credential", deps.CredentialHandler.ClearCredential).Methods("DELETE")

	// Stats
	r.HandleFunc("/api/stats", deps.StatsHandler.GetStats).Methods("GET")
	r.HandleFunc("/api/summary/daily", deps.StatsHandler.GetDailySummary).Methods("GET")

	// Goals
	r.HandleFunc("/api/goals/progress", deps.GoalHandler.GetProgress).Methods("GET")
	r.HandleFunc("/api/goals", deps.GoalHandler.GetGoals).Methods("GET")
	r.HandleFunc("/api/goals", deps.GoalHandler.CreateGoal).Methods("POST")
	r.HandleFunc("/api/goals/{goalId}", deps.GoalHandler.UpdateGoal).Methods("PUT")
	r.HandleFunc("/api/goals/{goalId}", deps.GoalHandler.DeleteGoal).Methods("DELETE")

	// Insights
	r.HandleFunc("/api/insights/payload", deps.InsightsHandler.GetPayload).Methods("GET")
	r.HandleFunc("/api/insights", deps.InsightsHandler.Generate).Methods("POST")
}
