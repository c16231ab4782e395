package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"contract_expiry_notifier/internal/domain/alert"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

// MockSender fails until it has been called more than successAfter times.
type MockSender struct {
	successAfter int
	attempts     int
	lastAlert    alert.Alert
}

func (m *MockSender) Send(_ context.Context, a alert.Alert) error {
	m.attempts++
	m.lastAlert = a
	if m.attempts > m.successAfter {
		return nil
	}
	return errors.New("simulated send failure")
}

func newTestRetryingSender(next alert.Sender, count, backoffMs int) (*RetryingSender, *[]time.Duration) {
	logger, _ := test.NewNullLogger()
	s := NewRetryingSender(next, count, backoffMs, logger)
	var waits []time.Duration
	s.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return s, &waits
}

func TestRetryingSender_DefaultSendsOnce(t *testing.T) {
	next := &MockSender{successAfter: 5}
	s, waits := newTestRetryingSender(next, 0, 100)

	err := s.Send(context.Background(), alert.Alert{Subject: "s"})

	assert.Error(t, err)
	assert.Equal(t, 1, next.attempts)
	assert.Empty(t, *waits)
}

func TestRetryingSender_SucceedsAfterRetries(t *testing.T) {
	next := &MockSender{successAfter: 2}
	s, waits := newTestRetryingSender(next, 3, 100)

	err := s.Send(context.Background(), alert.Alert{Subject: "s", RowNumber: 4})

	assert.NoError(t, err)
	assert.Equal(t, 3, next.attempts)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *waits)
	assert.Equal(t, 4, next.lastAlert.RowNumber)
}

func TestRetryingSender_GivesUp(t *testing.T) {
	next := &MockSender{successAfter: 10}
	s, waits := newTestRetryingSender(next, 2, 100)

	err := s.Send(context.Background(), alert.Alert{})

	assert.EqualError(t, err, "simulated send failure")
	assert.Equal(t, 3, next.attempts)
	assert.Len(t, *waits, 2)
}

func TestRetryingSender_BackoffIsCapped(t *testing.T) {
	next := &MockSender{successAfter: 10}
	s, waits := newTestRetryingSender(next, 3, 20000)

	_ = s.Send(context.Background(), alert.Alert{})

	assert.Equal(t, []time.Duration{20 * time.Second, 32 * time.Second, 32 * time.Second}, *waits)
}

func TestRetryingSender_StopsWhenContextDone(t *testing.T) {
	logger, _ := test.NewNullLogger()
	next := &MockSender{successAfter: 10}
	s := NewRetryingSender(next, 5, 10000, logger)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, alert.Alert{})

	assert.Error(t, err)
	assert.Equal(t, 1, next.attempts)
}
