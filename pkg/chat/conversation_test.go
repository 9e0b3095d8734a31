package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathfavour/pippin/pkg/brain"
)

type echo struct{ calls []string }

func (e *echo) SelectResponse(input string) string {
	e.calls = append(e.calls, input)
	return "echo: " + input
}

func TestConversationStartsWithGreeting(t *testing.T) {
	c := NewConversation("c1", &echo{}, "hi there")

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, GreetingID, msgs[0].ID)
	assert.Equal(t, SenderBot, msgs[0].Sender)
	assert.Equal(t, "hi there", msgs[0].Text)
}

func TestSubmit(t *testing.T) {
	var slept []time.Duration
	r := &echo{}
	c := NewConversation("c1", r, "hi", WithSleep(func(d time.Duration) { slept = append(slept, d) }))

	user, bot, ok := c.Submit("  hello pippin  ")
	require.True(t, ok)

	assert.Equal(t, "hello pippin", user.Text)
	assert.Equal(t, SenderUser, user.Sender)
	assert.Equal(t, "echo: hello pippin", bot.Text)
	assert.Equal(t, SenderBot, bot.Sender)
	assert.NotEqual(t, user.ID, bot.ID)
	assert.Equal(t, []time.Duration{DefaultDelay}, slept)
	assert.Equal(t, []string{"hello pippin"}, r.calls)

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, user, msgs[1])
	assert.Equal(t, bot, msgs[2])
}

func TestSubmitBlankIsIgnored(t *testing.T) {
	r := &echo{}
	c := NewConversation("c1", r, "hi", WithDelay(0))

	for _, in := range []string{"", "   ", "\t\n"} {
		_, _, ok := c.Submit(in)
		assert.False(t, ok)
	}
	assert.Len(t, c.Messages(), 1)
	assert.Empty(t, r.calls)
}

func TestSubmitWithBrain(t *testing.T) {
	p := brain.DefaultPersona()
	c := NewConversation("c1", brain.Default(), p.Greeting, WithDelay(0))

	_, bot, ok := c.Submit("hello")
	require.True(t, ok)
	assert.Equal(t, p.Categories[5].Reply, bot.Text)
}

func TestWithDelayClampsNegative(t *testing.T) {
	c := NewConversation("c1", &echo{}, "", WithDelay(-time.Second))
	assert.Equal(t, time.Duration(0), c.Delay())
	assert.Empty(t, c.Messages())
}

func TestTranscriptMessagesIsSnapshot(t *testing.T) {
	var tr Transcript
	tr.Append(NewMessage(SenderUser, "a"))
	snap := tr.Messages()
	tr.Append(NewMessage(SenderBot, "b"))

	assert.Len(t, snap, 1)
	assert.Equal(t, 2, tr.Len())
}
