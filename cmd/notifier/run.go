package main

import (
	"context"
	"fmt"
	"time"

	"contract_expiry_notifier/internal/infra/config"
	"contract_expiry_notifier/internal/infra/logger"

	"github.com/spf13/cobra"
)

func newRunCmd(envFile *string) *cobra.Command {
	var (
		date   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single expiry scan and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			var overrides []func(*config.AppConfig)
			if dryRun {
				overrides = append(overrides, func(c *config.AppConfig) { c.Transport = config.TransportLog })
			}
			cfg, err := config.Load(*envFile, overrides...)
			if err != nil {
				return fmt.Errorf("could not load application configuration: %w", err)
			}
			log := logger.Init(cfg)

			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			now, err := scanTime(date, time.Now(), loc)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RunTimeout)
			defer cancel()

			svc, cleanup, err := buildService(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := svc.ScanAndNotify(ctx, now)
			if err != nil {
				return err
			}
			for _, f := range report.Failures {
				log.Errorf("Unsent alert: %v", f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "scan as if today were this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log alerts instead of sending them")
	return cmd
}

// scanTime returns now in loc, or midnight of the --date value in loc.
func scanTime(date string, now time.Time, loc *time.Location) (time.Time, error) {
	if date == "" {
		return now.In(loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD: %w", date, err)
	}
	return t, nil
}
