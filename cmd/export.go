package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportFlags rangeFlags

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write daily totals as CSV to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportFlags.register(exportCmd, true)
}

func runExport(cmd *cobra.Command, args []string) error {
	application, err := openApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Close()
	deps := application.Dependencies()

	filters, err := exportFlags.filters(deps.Clock.Now(), deps.Location)
	if err != nil {
		return err
	}
	report, err := loadReport(cmd.Context(), deps, filters)
	if err != nil {
		return err
	}

	csv, err := deps.CsvStatsRenderer.RenderDays(report.Days)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), csv)
	return err
}
