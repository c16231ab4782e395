package mail

import (
	"bytes"
	"context"
	"net"
	"testing"

	"contract_expiry_notifier/internal/domain/alert"
	"contract_expiry_notifier/internal/infra/config"
	"contract_expiry_notifier/internal/infra/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTPSender(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewSMTPSender(config.SMTPConfig{
		Host:               "smtp.example.com",
		Port:               465,
		User:               "user",
		Password:           "secret",
		InsecureSkipVerify: true,
		SenderAddress:      "noreply@example.com",
		SenderName:         "Contract Expiry",
	}, logger)

	assert.Implements(t, (*alert.Sender)(nil), s)
	assert.Equal(t, "smtp.example.com", s.dialer.Host)
	assert.Equal(t, 465, s.dialer.Port)
	require.NotNil(t, s.dialer.TLSConfig)
	assert.True(t, s.dialer.TLSConfig.InsecureSkipVerify)
}

func TestSMTPMessage(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewSMTPSender(config.SMTPConfig{Host: "localhost", Port: 25, SenderAddress: "noreply@example.com", SenderName: "Contract Expiry"}, logger)

	msg := s.message(alert.Alert{
		To:      "hello@gmail.com",
		Subject: "Active\n - \n123 Main St\n - \nCONTRACT ENDING ",
		Body:    "Contract ending in one month.",
	})
	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "To: hello@gmail.com")
	assert.Contains(t, raw, "From: \"Contract Expiry\" <noreply@example.com>")
	assert.Contains(t, raw, "Subject: =?UTF-8?q?Active")
	assert.NotContains(t, raw, "Subject: Active\n")
	assert.Contains(t, raw, "Contract ending in one month.")
}

func TestSMTPSendFailureIsReturned(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	logger, _ := test.NewNullLogger()
	s := NewSMTPSender(config.SMTPConfig{Host: "127.0.0.1", Port: port, SenderAddress: "noreply@example.com"}, logger)
	before := testutil.ToFloat64(metrics.SendAttempts.WithLabelValues(config.TransportSMTP, "failure"))

	err = s.Send(context.Background(), alert.Alert{To: "hello@gmail.com", Subject: "s"})

	assert.Error(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SendAttempts.WithLabelValues(config.TransportSMTP, "failure")))
}

func TestSMTPSendHonoursCancelledContext(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewSMTPSender(config.SMTPConfig{Host: "127.0.0.1", Port: 1}, logger)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, alert.Alert{})

	assert.ErrorIs(t, err, context.Canceled)
}
