package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/impacthub/internal/config"
	"github.com/HendryAvila/impacthub/internal/gcal"
)

func exportGCalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-gcal",
		Short: "Publish a planner week to Google Calendar",
		Long: `Create or update one Google Calendar event per planner event in the
chosen week. Events exported before are updated in place, so running the
export twice does not duplicate anything.

Run auth-gcal once first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, _ := cmd.Flags().GetInt("offset")

			b, cfg, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			gc := cfg.GoogleCalendar
			srv, err := gcal.NewService(cmd.Context(), gc.CredentialsFile, gc.TokenFile)
			if err != nil {
				return err
			}

			w := b.Planner.AdvanceWeek(offset)
			pub := gcal.NewPublisher(srv, gc.CalendarID, cfg.Location())
			res, err := pub.Publish(cmd.Context(), w.Events, w.Start)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Week %s: %d created, %d updated\n", w.Label, res.Created, res.Updated)
			if len(res.Skipped) > 0 {
				fmt.Fprintf(out, "Skipped (not on the grid): %v\n", res.Skipped)
			}
			return nil
		},
	}
	cmd.Flags().IntP("offset", "o", 0, "Weeks from the current week")
	return cmd
}

func authGCalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth-gcal",
		Short: "Authorise Google Calendar access and store the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			gc := cfg.GoogleCalendar

			oauthCfg, err := gcal.OAuthConfig(gc.CredentialsFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Open this link in your browser and authorise access:\n\n%s\n\nPaste the code here: ", gcal.AuthURL(oauthCfg))

			code, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && code == "" {
				return fmt.Errorf("reading authorisation code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return errors.New("no authorisation code entered")
			}

			if err := gcal.ExchangeAndSave(cmd.Context(), oauthCfg, code, gc.TokenFile); err != nil {
				return err
			}
			fmt.Fprintf(out, "Token saved to %s\n", gc.TokenFile)
			return nil
		},
	}
}

func initConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a config.yaml with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			force, _ := cmd.Flags().GetBool("force")

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}
