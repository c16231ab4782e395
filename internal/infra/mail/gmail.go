package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"contract_expiry_notifier/internal/domain/alert"
	"contract_expiry_notifier/internal/infra/config"
	"contract_expiry_notifier/internal/infra/metrics"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailSender delivers alerts through the Gmail API.
type GmailSender struct {
	service       *gmail.Service
	senderAddress string
	senderName    string
}

// NewGmailSender expects service account credentials with domain-wide
// delegation; the sender mailbox is impersonated.
func NewGmailSender(ctx context.Context, credentialsJSON []byte, senderAddress, senderName string) (*GmailSender, error) {
	if senderAddress == "" {
		return nil, fmt.Errorf("gmail: sender address is required")
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to parse credentials: %w", err)
	}
	jwtConfig.Subject = senderAddress

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to create service: %w", err)
	}
	return NewGmailSenderWithService(svc, senderAddress, senderName), nil
}

func NewGmailSenderWithService(svc *gmail.Service, senderAddress, senderName string) *GmailSender {
	return &GmailSender{service: svc, senderAddress: senderAddress, senderName: senderName}
}

func (g *GmailSender) Send(ctx context.Context, a alert.Alert) error {
	gmailMsg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(g.rawMessage(a))),
	}

	if _, err := g.service.Users.Messages.Send("me", gmailMsg).Context(ctx).Do(); err != nil {
		metrics.SendAttempts.WithLabelValues(config.TransportGmail, "failure").Inc()
		return fmt.Errorf("gmail: failed to send email: %w", err)
	}
	metrics.SendAttempts.WithLabelValues(config.TransportGmail, "success").Inc()
	return nil
}

func (g *GmailSender) rawMessage(a alert.Alert) string {
	from := g.senderAddress
	if g.senderName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("UTF-8", g.senderName), g.senderAddress)
	}

	return strings.Join([]string{
		"From: " + from,
		"To: " + a.To,
		"Subject: " + mime.QEncoding.Encode("UTF-8", a.Subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		a.Body,
	}, "\r\n")
}
