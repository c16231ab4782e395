package scheduler

import (
	"context"
	"fmt"
	"time"

	"contract_expiry_notifier/internal/app" // For ExpiryService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ExpiryScheduler triggers the expiry scan from an in-process cron engine.
type ExpiryScheduler struct {
	cronEngine    *cron.Cron
	expiryService app.ExpiryService
	logger        *logrus.Logger
	cronSpec      string // e.g., "0 8 * * *" (8:00 AM daily)
	jobTimeout    time.Duration
	location      *time.Location
	now           func() time.Time
}

func NewExpiryScheduler(
	expiryService app.ExpiryService,
	logger *logrus.Logger,
	cronSpec string,
	jobTimeout time.Duration,
	location *time.Location,
) *ExpiryScheduler {
	if location == nil {
		location = time.Local
	}
	return &ExpiryScheduler{
		cronEngine: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		expiryService: expiryService,
		logger:        logger,
		cronSpec:      cronSpec,
		jobTimeout:    jobTimeout,
		location:      location,
		now:           time.Now,
	}
}

// Start registers the scan job and starts the cron engine.
func (s *ExpiryScheduler) Start() error {
	s.logger.Info("Starting expiry scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for contract expiry scan.")
		s.RunOnce()
	})
	if err != nil {
		return fmt.Errorf("could not add expiry scan cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.Infof("Expiry scheduler started with spec %q in %s.", s.cronSpec, s.location)
	return nil
}

// RunOnce performs a single scan for today in the scheduler's location.
func (s *ExpiryScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	report, err := s.expiryService.ScanAndNotify(ctx, s.now().In(s.location))
	if err != nil {
		s.logger.WithError(err).Error("Error during contract expiry scan")
		return
	}
	if report.AlertsFailed > 0 {
		s.logger.Warnf("Contract expiry scan %s finished with %d failed alerts.", report.RunID, report.AlertsFailed)
	}
}

func (s *ExpiryScheduler) Stop() {
	s.logger.Info("Stopping expiry scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Expiry scheduler gracefully stopped.")
}
