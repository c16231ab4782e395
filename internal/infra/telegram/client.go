// internal/infra/telegram/client.go
package telegram

import (
	"fmt"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

// NewOfflineBot creates a send-only bot. Offline mode skips the getMe call,
// so no updates are polled.
func NewOfflineBot(token string) (*telebot.Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{Token: token, Offline: true})
	if err != nil {
		return nil, fmt.Errorf("telegram: failed to create bot: %w", err)
	}
	return bot, nil
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a text message to a user, group or channel chat.
func (tba *TelebotAdapter) SendMessage(chatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}

	_, err := tba.bot.Send(telebot.ChatID(chatID), text, options)
	return err
}
