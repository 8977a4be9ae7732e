package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/summary"
	log "github.com/sirupsen/logrus"
)

type StatsRenderer interface {
	RenderDays(days []summary.DailySummary) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

// RenderDays writes one "Date,Total Hours" row per day, hours with two decimals.
func (t *CsvStatsRendererImpl) RenderDays(days []summary.DailySummary) (string, error) {
	data := make([][]string, 0, len(days)+1)
	data = append(data, []string{"Date", "Total Hours"})
	for _, d := range days {
		data = append(data, []string{utils.DayKey(d.Date), strconv.FormatFloat(d.TotalHours, 'f', 2, 64)})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

// ExportFilename names a CSV export made on the given day.
func ExportFilename(day string) string {
	return "clockheat_summary_" + day + ".csv"
}
