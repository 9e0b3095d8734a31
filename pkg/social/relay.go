// Package social relays messenger chats (Telegram, Discord) to the brain.
package social

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nathfavour/pippin/pkg/brain"
	"github.com/nathfavour/pippin/pkg/chat"
	"github.com/nathfavour/pippin/pkg/logging"
)

var defaultCommands = []BotCommand{
	{Text: "start", Description: "Say hello to the bot"},
	{Text: "help", Description: "Show what the bot can do"},
}

type RelayOption func(*Relay)

func WithLogger(l *zap.Logger) RelayOption {
	return func(r *Relay) { r.logger = logging.OrNop(l) }
}

func WithDelay(d time.Duration) RelayOption {
	return func(r *Relay) { r.delay = d }
}

func WithSleep(sleep func(time.Duration)) RelayOption {
	return func(r *Relay) { r.sleep = sleep }
}

// Relay answers every provider's chats with the persona's replies.
type Relay struct {
	providers []MessengerProvider
	responder chat.Responder
	persona   brain.Persona
	delay     time.Duration
	sleep     func(time.Duration)
	logger    *zap.Logger
}

func NewRelay(providers []MessengerProvider, responder chat.Responder, persona brain.Persona, opts ...RelayOption) *Relay {
	r := &Relay{
		providers: providers,
		responder: responder,
		persona:   persona,
		delay:     chat.DefaultDelay,
		sleep:     time.Sleep,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run blocks until ctx is done and every provider loop has returned.
func (r *Relay) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, p := range r.providers {
		wg.Add(1)
		go func(p MessengerProvider) {
			defer wg.Done()
			r.runProvider(ctx, p)
		}(p)
	}
	wg.Wait()
	return nil
}

func (r *Relay) runProvider(ctx context.Context, p MessengerProvider) {
	log := r.logger.With(zap.String("bot", p.GetName()))

	if err := p.SetCommands(defaultCommands); err != nil {
		log.Warn("failed to set bot commands", zap.Error(err))
	}

	updates, err := p.GetUpdates(ctx)
	if err != nil {
		log.Error("failed to receive updates", zap.Error(err))
		return
	}
	log.Info("bot started")

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			r.handle(log, p, update)
		}
	}
}

func (r *Relay) handle(log *zap.Logger, p MessengerProvider, update Update) {
	text := strings.TrimSpace(update.Text)
	if text == "" {
		return
	}

	var reply string
	switch command(text) {
	case "start":
		reply = r.persona.Greeting
	case "help":
		reply = r.help()
	default:
		if err := p.SendAction(update.ChatID, ActionTyping); err != nil {
			log.Debug("typing action failed", zap.Error(err))
		}
		if r.delay > 0 {
			r.sleep(r.delay)
		}
		reply = r.responder.SelectResponse(text)
	}

	if err := p.SendMessage(update.ChatID, reply, MessageOptions{}); err != nil {
		log.Warn("failed to send reply", zap.String("chat_id", update.ChatID), zap.Error(err))
		return
	}
	log.Debug("replied", zap.String("chat_id", update.ChatID), zap.Any("from", update.RawFrom))
}

func (r *Relay) help() string {
	return "I am " + r.persona.Name + ". Tell me how you feel, ask who I am or where I live, and I will answer as gently as I can."
}

// command returns the bot command in text, without the slash or a
// Telegram @botname suffix, or "" when text is not a command.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0][1:]
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd)
}
