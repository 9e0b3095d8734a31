package social

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type DiscordProvider struct {
	session *discordgo.Session
}

func NewDiscordProvider(token string) (*DiscordProvider, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent
	return &DiscordProvider{session: dg}, nil
}

func (p *DiscordProvider) GetName() string {
	if p.session.State != nil && p.session.State.User != nil {
		return p.session.State.User.Username
	}
	return "DiscordBot"
}

// GetUpdates opens the gateway. The returned channel is never closed since
// handlers can still fire while the session shuts down; stop reading on ctx.
func (p *DiscordProvider) GetUpdates(ctx context.Context) (<-chan Update, error) {
	updates := make(chan Update)

	p.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.ID == s.State.User.ID {
			return
		}

		from := fmt.Sprintf("%s#%s", m.Author.Username, m.Author.Discriminator)
		if m.Author.Discriminator == "0" || m.Author.Discriminator == "" {
			from = m.Author.Username
		}

		select {
		case updates <- Update{
			ChatID:  m.ChannelID,
			Text:    m.Content,
			RawFrom: from,
		}:
		case <-ctx.Done():
		}
	})

	if err := p.session.Open(); err != nil {
		return nil, fmt.Errorf("discord: %w", err)
	}

	go func() {
		<-ctx.Done()
		_ = p.session.Close()
	}()

	return updates, nil
}

func (p *DiscordProvider) SendMessage(chatID string, text string, options MessageOptions) error {
	_, err := p.session.ChannelMessageSend(chatID, text)
	return err
}

func (p *DiscordProvider) SendAction(chatID string, action string) error {
	if action == ActionTyping {
		return p.session.ChannelTyping(chatID)
	}
	return fmt.Errorf("unknown action: %s", action)
}

// SetCommands is a no-op for Discord; /start and /help arrive as plain messages.
func (p *DiscordProvider) SetCommands(commands []BotCommand) error {
	return nil
}
