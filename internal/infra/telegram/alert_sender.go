package telegram

import (
	"context"
	"fmt"
	"strconv"

	"contract_expiry_notifier/internal/domain/alert"
	domaintelegram "contract_expiry_notifier/internal/domain/telegram"
	"contract_expiry_notifier/internal/infra/config"
	"contract_expiry_notifier/internal/infra/metrics"

	"gopkg.in/telebot.v3"
)

// AlertSender delivers alerts as Telegram messages. Alert.To holds the chat ID.
type AlertSender struct {
	client domaintelegram.Client
}

func NewAlertSender(client domaintelegram.Client) *AlertSender {
	return &AlertSender{client: client}
}

func (s *AlertSender) Send(ctx context.Context, a alert.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chatID, err := strconv.ParseInt(a.To, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: recipient %q is not a chat ID: %w", a.To, err)
	}

	if err := s.client.SendMessage(chatID, messageText(a), &telebot.SendOptions{DisableWebPagePreview: true}); err != nil {
		metrics.SendAttempts.WithLabelValues(config.TransportTelegram, "failure").Inc()
		return fmt.Errorf("telegram: failed to send message to chat %d: %w", chatID, err)
	}
	metrics.SendAttempts.WithLabelValues(config.TransportTelegram, "success").Inc()
	return nil
}

func messageText(a alert.Alert) string {
	if a.Body == "" {
		return a.Subject
	}
	return a.Subject + "\n\n" + a.Body
}
