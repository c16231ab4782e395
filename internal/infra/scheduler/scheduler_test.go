package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"contract_expiry_notifier/internal/app"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	calls  []time.Time
	report *app.RunReport
	err    error
	ctxErr error
}

func (s *stubService) ScanAndNotify(ctx context.Context, now time.Time) (*app.RunReport, error) {
	s.calls = append(s.calls, now)
	if _, ok := ctx.Deadline(); !ok {
		s.ctxErr = errors.New("scan context has no deadline")
	}
	if s.report == nil {
		s.report = &app.RunReport{RunID: "run"}
	}
	return s.report, s.err
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewExpiryScheduler(&stubService{}, logger, "not a cron spec", time.Minute, time.UTC)

	err := s.Start()

	assert.Error(t, err)
}

func TestStartAndStop(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewExpiryScheduler(&stubService{}, logger, "0 8 * * *", time.Minute, time.UTC)

	require.NoError(t, s.Start())
	assert.Len(t, s.cronEngine.Entries(), 1)
	s.Stop()
}

func TestRunOnceUsesSchedulerLocation(t *testing.T) {
	logger, _ := test.NewNullLogger()
	loc := time.FixedZone("UTC-5", -5*60*60)
	svc := &stubService{}
	s := NewExpiryScheduler(svc, logger, "0 8 * * *", time.Minute, loc)
	s.now = func() time.Time { return time.Date(2024, time.January, 2, 2, 0, 0, 0, time.UTC) }

	s.RunOnce()

	require.Len(t, svc.calls, 1)
	assert.NoError(t, svc.ctxErr)
	assert.Equal(t, loc, svc.calls[0].Location())
	assert.Equal(t, 1, svc.calls[0].Day())
}

func TestRunOnceLogsFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	svc := &stubService{err: errors.New("sheet missing")}
	s := NewExpiryScheduler(svc, logger, "0 8 * * *", time.Minute, time.UTC)

	s.RunOnce()

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestRunOnceWarnsOnFailedAlerts(t *testing.T) {
	logger, hook := test.NewNullLogger()
	svc := &stubService{report: &app.RunReport{RunID: "run-2", AlertsFailed: 2}}
	s := NewExpiryScheduler(svc, logger, "0 8 * * *", time.Minute, time.UTC)

	s.RunOnce()

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "run-2")
}
