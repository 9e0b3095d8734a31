package social

import (
	"context"
	"fmt"
)

type Update struct {
	ChatID  string
	Text    string
	RawFrom interface{}
}

type BotCommand struct {
	Text        string
	Description string
}

type MessageOptions struct {
	ParseMode string
}

const (
	ParseModeHTML = "HTML"
	ActionTyping  = "typing"
)

const (
	PlatformTelegram = "telegram"
	PlatformDiscord  = "discord"
)

type MessengerProvider interface {
	GetName() string
	GetUpdates(ctx context.Context) (<-chan Update, error)
	SendMessage(chatID string, text string, options MessageOptions) error
	SendAction(chatID string, action string) error
	SetCommands(commands []BotCommand) error
}

// NewProvider connects to platform with token.
func NewProvider(platform, token string) (MessengerProvider, error) {
	switch platform {
	case PlatformTelegram:
		return NewTelegramProvider(token)
	case PlatformDiscord:
		return NewDiscordProvider(token)
	default:
		return nil, fmt.Errorf("unsupported platform: %s", platform)
	}
}
