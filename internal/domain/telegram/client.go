package telegram

import "gopkg.in/telebot.v3"

// Client sends text messages through a Telegram bot.
type Client interface {
	SendMessage(chatID int64, text string, options *telebot.SendOptions) error
}
