package stats

import (
	"testing"
	"time"

	"github.com/clockheat/clockheat/pkg/summary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvStatsRendererImpl_RenderDays(t *testing.T) {
	tests := []struct {
		name string
		days []summary.DailySummary
		want string
	}{
		{
			name: "should write header only for no days",
			days: nil,
			want: "Date,Total Hours\n",
		},
		{
			name: "should write two decimals per day",
			days: []summary.DailySummary{
				{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), TotalHours: 8},
				{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), TotalHours: 0},
				{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), TotalHours: 1.5},
			},
			want: "Date,Total Hours\n2024-01-01,8.00\n2024-01-02,0.00\n2024-01-03,1.50\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCsvStatsRenderer().RenderDays(tt.days)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "clockheat_summary_2024-06-15.csv", ExportFilename("2024-06-15"))
}
