package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/impacthub/internal/render"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show projects, open tasks and pillar progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			fmt.Fprintln(cmd.OutOrStdout(), render.Dashboard(b.Planner.Dashboard()))
			return nil
		},
	}
}

func weekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the weekly planner",
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, _ := cmd.Flags().GetInt("offset")

			b, _, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			w := b.Planner.AdvanceWeek(offset)
			fmt.Fprintln(cmd.OutOrStdout(), render.Week(w.Label, w.Days, w.Events))
			return nil
		},
	}
	cmd.Flags().IntP("offset", "o", 0, "Weeks from the current week (negative for past weeks)")
	return cmd
}

func hopperCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hopper",
		Short: "List open tasks waiting to be scheduled",
		RunE: func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("search")
			taskType, _ := cmd.Flags().GetString("type")

			b, _, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			fmt.Fprintln(cmd.OutOrStdout(), render.Hopper(b.Planner.Hopper(search, taskType)))
			return nil
		},
	}
	cmd.Flags().StringP("search", "s", "", "Match text in task titles")
	cmd.Flags().StringP("type", "t", "", "Only tasks of this type")
	return cmd
}

func dailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Show today's daily log",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			p := b.Planner
			fmt.Fprintln(cmd.OutOrStdout(), render.Daily(p.Today(), p.DailyItems()))
			return nil
		},
	}
}
