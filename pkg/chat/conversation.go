// Package chat holds the transcript model shared by every shell.
package chat

import (
	"strings"
	"time"
)

// DefaultDelay is how long a shell pretends to think before answering.
const DefaultDelay = time.Second

// Responder turns user text into a reply. *brain.Selector satisfies it.
type Responder interface {
	SelectResponse(input string) string
}

type ConversationOption func(*Conversation)

// WithDelay sets the thinking pause. Negative values are treated as zero.
func WithDelay(d time.Duration) ConversationOption {
	return func(c *Conversation) {
		if d < 0 {
			d = 0
		}
		c.delay = d
	}
}

// WithSleep replaces time.Sleep, mostly for tests.
func WithSleep(sleep func(time.Duration)) ConversationOption {
	return func(c *Conversation) {
		c.sleep = sleep
	}
}

// Conversation is one transcript plus the responder that feeds it.
type Conversation struct {
	ID         string
	transcript Transcript
	responder  Responder
	delay      time.Duration
	sleep      func(time.Duration)
}

// NewConversation starts a transcript with the persona greeting as its first
// bot message.
func NewConversation(id string, responder Responder, greeting string, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		ID:        id,
		responder: responder,
		delay:     DefaultDelay,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	if greeting != "" {
		c.transcript.Append(Message{
			ID:        GreetingID,
			Text:      greeting,
			Sender:    SenderBot,
			CreatedAt: time.Now(),
		})
	}
	return c
}

// Submit records the user's text, waits out the delay, and records the reply.
// Blank input is ignored and reported with ok=false. The pause is not
// cancellable.
func (c *Conversation) Submit(text string) (user, bot Message, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, Message{}, false
	}

	user = NewMessage(SenderUser, text)
	c.transcript.Append(user)

	if c.delay > 0 {
		c.sleep(c.delay)
	}

	bot = NewMessage(SenderBot, c.responder.SelectResponse(text))
	c.transcript.Append(bot)
	return user, bot, true
}

func (c *Conversation) Messages() []Message {
	return c.transcript.Messages()
}

func (c *Conversation) Delay() time.Duration {
	return c.delay
}
