package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/goal"
	"github.com/spf13/cobra"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Print the progress of every goal in its current period",
	Args:  cobra.NoArgs,
	RunE:  runGoals,
}

func runGoals(cmd *cobra.Command, args []string) error {
	application, err := openApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Close()

	progress, err := application.Dependencies().ProgressTracker.Track(cmd.Context())
	if err != nil {
		return err
	}
	return printProgress(cmd.OutOrStdout(), progress)
}

func printProgress(out io.Writer, progress []goal.Progress) error {
	if len(progress) == 0 {
		_, err := fmt.Fprintln(out, "No goals defined.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Goal\tPeriod\tTracked\tTarget\tProgress")
	for _, p := range progress {
		period := utils.DayKey(p.Period.Start) + " .. " + utils.DayKey(p.Period.End)
		status := fmt.Sprintf("%.0f%%", p.Percent())
		switch {
		case p.Error != "":
			status = "error: " + p.Error
		case p.Achieved():
			status += " achieved"
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%s\n", p.Goal.Name, period, p.TrackedHours, p.Goal.Hours, status)
	}
	return w.Flush()
}
