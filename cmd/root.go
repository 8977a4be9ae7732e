package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/clockheat/clockheat/internal/app"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "clockheat",
	Short: "Clockheat - a calendar heatmap dashboard for Clockify",
	Long: `clockheat loads your Clockify time entries, serves a heatmap dashboard with
statistics, goals and AI insights over HTTP, and prints the same data on the command line.
Without a subcommand it starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config/application.yaml", "Path of the YAML configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(exportCmd)
}

// openApplication builds the application for a one-shot command. The caller closes it.
func openApplication(ctx context.Context) (*app.Application, error) {
	application, err := app.NewApplication(ctx, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, nil
}
