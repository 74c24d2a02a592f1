// Impact Hub: personal planning hub for strategic pillars, projects,
// tasks, a weekly calendar and a daily evidence log.
//
// Usage:
//
//	impacthub serve        # Start MCP server (stdio transport)
//	impacthub dashboard    # Print the dashboard
//	impacthub week -o 1    # Print next week's planner
//	impacthub export-gcal  # Publish the displayed week to Google Calendar
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/impacthub/internal/config"
	hubserver "github.com/HendryAvila/impacthub/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "impacthub",
		Short:         "Impact Hub - strategic planning and daily evidence log",
		Version:       hubserver.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", config.DefaultPath(), "Path to config.yaml")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(weekCmd())
	rootCmd.AddCommand(hopperCmd())
	rootCmd.AddCommand(dailyCmd())
	rootCmd.AddCommand(exportGCalCmd())
	rootCmd.AddCommand(authGCalCmd())
	rootCmd.AddCommand(initConfigCmd())

	return rootCmd
}

// loadConfig reads the file named by --config.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// openBackend loads the config and opens the hub behind it.
func openBackend(cmd *cobra.Command) (*hubserver.Backend, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, config.Config{}, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := hubserver.OpenBackend(ctx, cfg)
	if err != nil {
		return nil, config.Config{}, err
	}
	return b, cfg, nil
}
