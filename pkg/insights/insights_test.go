package insights

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/clockheat/clockheat/internal/config"
	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/clockify"
	"github.com/clockheat/clockheat/pkg/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/generativelanguage/v1beta"
)

var now = time.Date(2024, time.June, 15, 18, 30, 0, 0, time.UTC)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(projectId string, start time.Time, d time.Duration) clockify.TimeEntry {
	end := start.Add(d)
	return clockify.TimeEntry{ProjectId: &projectId, TimeInterval: clockify.TimeInterval{Start: start, End: &end}}
}

func decode(t *testing.T, payload []byte) []DailyHours {
	var result []DailyHours
	require.NoError(t, json.Unmarshal(payload, &result))
	return result
}

type sourceStub struct {
	snapshot dashboard.Snapshot
}

func (s sourceStub) Snapshot() dashboard.Snapshot {
	return s.snapshot
}

func TestFormatPayload(t *testing.T) {
	entries := []clockify.TimeEntry{
		entry("p1", day(time.January, 1).Add(9*time.Hour), 2*time.Hour),
		entry("p2", day(time.January, 2).Add(9*time.Hour), time.Hour),
	}
	rng := &Range{From: day(time.January, 1), To: day(time.January, 3)}

	t.Run("should project daily totals of the selected project", func(t *testing.T) {
		payload, err := FormatPayload(entries, rng, "p1", now)

		require.NoError(t, err)
		assert.Equal(t, []DailyHours{
			{Date: "2024-01-01", TotalHours: 2},
			{Date: "2024-01-02", TotalHours: 0},
			{Date: "2024-01-03", TotalHours: 0},
		}, decode(t, payload))
		assert.Contains(t, string(payload), "\n  {\n    \"date\": \"2024-01-01\"")
	})

	t.Run("should include every project for the all projects filter", func(t *testing.T) {
		payload, err := FormatPayload(entries, rng, clockify.AllProjects, now)

		require.NoError(t, err)
		days := decode(t, payload)
		assert.Equal(t, 2.0, days[0].TotalHours)
		assert.Equal(t, 1.0, days[1].TotalHours)
	})

	t.Run("should zero fill an empty entry list", func(t *testing.T) {
		payload, err := FormatPayload([]clockify.TimeEntry{}, rng, clockify.AllProjects, now)

		require.NoError(t, err)
		assert.Len(t, decode(t, payload), 3)
	})

	t.Run("should fail on an inverted range", func(t *testing.T) {
		_, err := FormatPayload(entries, &Range{From: day(time.January, 3), To: day(time.January, 1)}, "", now)

		assert.Error(t, err)
	})

	t.Run("should fall back to the sample without a range", func(t *testing.T) {
		payload, err := FormatPayload(entries, nil, "", now)

		require.NoError(t, err)
		assert.Equal(t, Sample(now), decode(t, payload))
	})
}

func TestSample(t *testing.T) {
	t.Run("should cover seven ascending days ending today", func(t *testing.T) {
		sample := Sample(now)

		assert.Equal(t, []DailyHours{
			{Date: "2024-06-09", TotalHours: 2},
			{Date: "2024-06-10", TotalHours: 3},
			{Date: "2024-06-11", TotalHours: 4},
			{Date: "2024-06-12", TotalHours: 5},
			{Date: "2024-06-13", TotalHours: 6},
			{Date: "2024-06-14", TotalHours: 7},
			{Date: "2024-06-15", TotalHours: 8},
		}, sample)
	})

	t.Run("should pass validation", func(t *testing.T) {
		payload, err := json.Marshal(Sample(now))
		require.NoError(t, err)

		assert.NoError(t, ValidatePayload(string(payload)))
	})
}

func TestValidatePayload(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		valid   bool
	}{
		{"empty array", `[]`, true},
		{"well formed items", `[{"date":"2024-01-01","totalHours":8},{"date":"2024-01-02","totalHours":0.5}]`, true},
		{"empty string", ``, false},
		{"object instead of array", `{"date":"2024-01-01","totalHours":8}`, false},
		{"numeric date", `[{"date":20240101,"totalHours":8}]`, false},
		{"string hours", `[{"date":"2024-01-01","totalHours":"8"}]`, false},
		{"missing hours", `[{"date":"2024-01-01"}]`, false},
		{"not json", `[{`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePayload(tc.payload)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidPayload)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Run("should embed the data verbatim", func(t *testing.T) {
		prompt, err := BuildPrompt(`[{"date":"2024-01-01","totalHours":8}]`)

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(strings.TrimSpace(prompt), `[{"date":"2024-01-01","totalHours":8}]`))
		assert.Contains(t, prompt, "productivity coach")
	})
}

func TestGeminiGenerator(t *testing.T) {
	t.Run("should refuse when disabled", func(t *testing.T) {
		generator := NewGeminiGenerator(config.Insights{Enabled: false})

		_, err := generator.Generate(context.Background(), "[]")

		assert.ErrorIs(t, err, ErrDisabled)
	})

	t.Run("should read the first candidate with text", func(t *testing.T) {
		response := &generativelanguage.GenerateContentResponse{
			Candidates: []*generativelanguage.Candidate{
				{Content: nil},
				{Content: &generativelanguage.Content{Parts: []*generativelanguage.Part{{Text: "## Executive "}, {Text: "Summary\n"}}}},
				{Content: &generativelanguage.Content{Parts: []*generativelanguage.Part{{Text: "ignored"}}}},
			},
		}

		assert.Equal(t, "## Executive Summary", responseText(response))
		assert.Equal(t, "", responseText(nil))
	})
}

func TestHandler(t *testing.T) {
	clock := utils.NewFixedClock(now)
	ready := dashboard.Snapshot{
		State:   dashboard.Ready,
		Filters: dashboard.Filters{ProjectId: "p2", From: day(time.January, 1), To: day(time.January, 2)},
		Entries: []clockify.TimeEntry{
			entry("p1", day(time.January, 1).Add(9*time.Hour), 2*time.Hour),
			entry("p2", day(time.January, 2).Add(9*time.Hour), time.Hour),
		},
	}

	t.Run("should serve the dashboard's project by default", func(t *testing.T) {
		// given
		handler := NewHandler(NewService(sourceStub{ready}, NewGeneratorStub(Insights{}), clock, time.UTC))
		rr := httptest.NewRecorder()

		// when
		handler.GetPayload(rr, httptest.NewRequest(http.MethodGet, "/api/insights/payload", nil))

		// then
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []DailyHours{{Date: "2024-01-01", TotalHours: 0}, {Date: "2024-01-02", TotalHours: 1}}, decode(t, rr.Body.Bytes()))
	})

	t.Run("should let the query pick another project", func(t *testing.T) {
		handler := NewHandler(NewService(sourceStub{ready}, NewGeneratorStub(Insights{}), clock, time.UTC))
		rr := httptest.NewRecorder()

		handler.GetPayload(rr, httptest.NewRequest(http.MethodGet, "/api/insights/payload?projectId=p1", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []DailyHours{{Date: "2024-01-01", TotalHours: 2}, {Date: "2024-01-02", TotalHours: 0}}, decode(t, rr.Body.Bytes()))
	})

	t.Run("should serve the sample before the dashboard is loaded", func(t *testing.T) {
		handler := NewHandler(NewService(sourceStub{dashboard.Snapshot{State: dashboard.Idle}}, NewGeneratorStub(Insights{}), clock, time.UTC))
		rr := httptest.NewRecorder()

		handler.GetPayload(rr, httptest.NewRequest(http.MethodGet, "/api/insights/payload", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decode(t, rr.Body.Bytes()), 7)
	})

	t.Run("should pass valid data to the generator", func(t *testing.T) {
		// given
		generator := NewGeneratorStub(Insights{Text: "## Executive Summary"})
		handler := NewHandler(NewService(sourceStub{ready}, generator, clock, time.UTC))
		body := `{"timeTrackingData":"[{\"date\":\"2024-01-01\",\"totalHours\":8}]"}`
		rr := httptest.NewRecorder()

		// when
		handler.Generate(rr, httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader(body)))

		// then
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"insights":"## Executive Summary"}`, rr.Body.String())
		assert.Equal(t, []string{`[{"date":"2024-01-01","totalHours":8}]`}, generator.Payloads())
	})

	t.Run("should reject invalid data without calling the generator", func(t *testing.T) {
		generator := NewGeneratorStub(Insights{})
		handler := NewHandler(NewService(sourceStub{ready}, generator, clock, time.UTC))
		rr := httptest.NewRecorder()

		handler.Generate(rr, httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader(`{"timeTrackingData":"{}"}`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, generator.Payloads())
	})

	t.Run("should map generator failures", func(t *testing.T) {
		generator := NewGeneratorStub(Insights{})
		generator.SetError(errors.New("quota exceeded"))
		handler := NewHandler(NewService(sourceStub{ready}, generator, clock, time.UTC))
		rr := httptest.NewRecorder()

		handler.Generate(rr, httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader(`{"timeTrackingData":"[]"}`)))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})

	t.Run("should answer 503 when disabled", func(t *testing.T) {
		handler := NewHandler(NewService(sourceStub{ready}, NewGeminiGenerator(config.Insights{}), clock, time.UTC))
		rr := httptest.NewRecorder()

		handler.Generate(rr, httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader(`{"timeTrackingData":"[]"}`)))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}
