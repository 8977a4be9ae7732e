package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/stats"
	"github.com/spf13/cobra"
)

var summaryFlags rangeFlags

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print statistics and daily totals for a date range",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	summaryFlags.register(summaryCmd, true)
}

func runSummary(cmd *cobra.Command, args []string) error {
	application, err := openApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Close()
	deps := application.Dependencies()

	filters, err := summaryFlags.filters(deps.Clock.Now(), deps.Location)
	if err != nil {
		return err
	}
	report, err := loadReport(cmd.Context(), deps, filters)
	if err != nil {
		return err
	}
	return printReport(cmd.OutOrStdout(), report)
}

func printReport(out io.Writer, report stats.StatsReport) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Range:\t%s .. %s\n", utils.DayKey(report.Range.From), utils.DayKey(report.Range.To))
	fmt.Fprintf(w, "Total hours:\t%.2f\n", report.Summary.TotalHours)
	fmt.Fprintf(w, "Average per tracked day:\t%.2f\n", report.Summary.AverageDailyHours)
	fmt.Fprintf(w, "Most productive day:\t%s\n", report.Summary.MostProductiveDay)

	if len(report.TopProjects) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Project\tHours")
		for _, p := range report.TopProjects {
			fmt.Fprintf(w, "%s\t%.2f\n", p.ProjectName, p.TotalHours)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Date\tHours")
	for _, d := range report.Days {
		if d.TotalHours == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\t%.2f\n", utils.DayKey(d.Date), d.TotalHours)
	}
	return w.Flush()
}
