package mail

import (
	"context"
	"math"
	"time"

	"contract_expiry_notifier/internal/domain/alert"

	"github.com/sirupsen/logrus"
)

const maxBackoffMs = 32000

// RetryingSender retries a failed send with exponential backoff. A retry
// count of zero sends exactly once.
type RetryingSender struct {
	next           alert.Sender
	retryCount     int
	retryBackoffMs int
	logger         *logrus.Logger
	sleep          func(ctx context.Context, d time.Duration) error
}

func NewRetryingSender(next alert.Sender, retryCount, retryBackoffMs int, logger *logrus.Logger) *RetryingSender {
	if retryCount < 0 {
		retryCount = 0
	}
	if retryBackoffMs <= 0 {
		retryBackoffMs = 100
	}
	logger.Debugf("[mail] Retry configuration: count=%d, initialBackoffMs=%d", retryCount, retryBackoffMs)
	return &RetryingSender{
		next:           next,
		retryCount:     retryCount,
		retryBackoffMs: retryBackoffMs,
		logger:         logger,
		sleep:          sleepContext,
	}
}

func (s *RetryingSender) Send(ctx context.Context, a alert.Alert) error {
	var lastErr error
	backoffMs := s.retryBackoffMs

	for attempt := 0; attempt <= s.retryCount; attempt++ {
		err := s.next.Send(ctx, a)
		if err == nil {
			if attempt > 0 {
				s.logger.Infof("[mail] Alert for row %d sent on attempt %d", a.RowNumber, attempt+1)
			}
			return nil
		}

		lastErr = err
		if attempt == s.retryCount {
			break
		}
		s.logger.Warnf("[mail] Send attempt %d failed: %v. Retrying in %dms...", attempt+1, err, backoffMs)
		if err := s.sleep(ctx, time.Duration(backoffMs)*time.Millisecond); err != nil {
			return lastErr
		}
		backoffMs = int(math.Min(float64(backoffMs)*2, maxBackoffMs))
	}
	return lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
