package mail

import (
	"context"
	"crypto/tls"
	"fmt"

	"contract_expiry_notifier/internal/domain/alert"
	"contract_expiry_notifier/internal/infra/config"
	"contract_expiry_notifier/internal/infra/metrics"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// SMTPSender delivers alerts as plain-text mail through an SMTP relay.
type SMTPSender struct {
	dialer        *gomail.Dialer
	senderAddress string
	senderName    string
	logger        *logrus.Logger
}

func NewSMTPSender(cfg config.SMTPConfig, logger *logrus.Logger) *SMTPSender {
	logger.Infof("[mail] Initializing SMTP sender for host: %s, port: %d, user: %s", cfg.Host, cfg.Port, cfg.User)
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	if cfg.InsecureSkipVerify {
		logger.Warn("[mail] InsecureSkipVerify is enabled for mail TLS connection")
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via SMTP_INSECURE_SKIP_VERIFY
	}
	return &SMTPSender{
		dialer:        d,
		senderAddress: cfg.SenderAddress,
		senderName:    cfg.SenderName,
		logger:        logger,
	}
}

func (s *SMTPSender) Send(ctx context.Context, a alert.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(s.message(a)); err != nil {
		metrics.SendAttempts.WithLabelValues(config.TransportSMTP, "failure").Inc()
		return fmt.Errorf("smtp: failed to send mail via %s:%d: %w", s.dialer.Host, s.dialer.Port, err)
	}
	metrics.SendAttempts.WithLabelValues(config.TransportSMTP, "success").Inc()
	return nil
}

// message builds the MIME message. gomail encodes the subject as an RFC 2047
// word, so the line breaks in alert subjects survive the header.
func (s *SMTPSender) message(a alert.Alert) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.senderAddress, s.senderName)
	msg.SetHeader("To", a.To)
	msg.SetHeader("Subject", a.Subject)
	msg.SetBody("text/plain", a.Body)
	return msg
}
