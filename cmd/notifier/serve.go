package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contract_expiry_notifier/internal/infra/config"
	"contract_expiry_notifier/internal/infra/logger"
	"contract_expiry_notifier/internal/infra/metrics"
	"contract_expiry_notifier/internal/infra/scheduler"

	"github.com/spf13/cobra"
)

func newServeCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the expiry scan on the CRON_SPEC_SCAN schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return fmt.Errorf("could not load application configuration: %w", err)
			}
			log := logger.Init(cfg)
			log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Source: %s, Transport: %s",
				cfg.LogLevel, cfg.Environment, cfg.Source, cfg.Transport)

			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			svc, cleanup, err := buildService(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()
			log.Info("Expiry service initialized.")

			var metricsServer *metrics.Server
			if cfg.MetricsAddr != "" {
				metricsServer = metrics.NewServer(cfg.MetricsAddr, log)
				metricsServer.Start()
			}

			expiryScheduler := scheduler.NewExpiryScheduler(svc, log, cfg.CronSpec, cfg.RunTimeout, loc)
			if err := expiryScheduler.Start(); err != nil {
				return err
			}

			log.Info("Application setup complete. Waiting for scheduled scans...")

			// Graceful shutdown
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			log.Info("Shutting down application...")
			expiryScheduler.Stop()
			if metricsServer != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := metricsServer.Shutdown(ctx); err != nil {
					log.WithError(err).Warn("Metrics listener did not stop cleanly")
				}
			}
			log.Info("Application shut down gracefully.")
			return nil
		},
	}
}
