package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathfavour/pippin/pkg/brain"
)

func runREPL(t *testing.T, input string, opts ...Option) (string, []time.Duration) {
	t.Helper()
	var out bytes.Buffer
	var slept []time.Duration
	opts = append([]Option{WithSleep(func(d time.Duration) { slept = append(slept, d) })}, opts...)

	r := New(strings.NewReader(input), &out, brain.Default(), brain.DefaultPersona(), opts...)
	require.NoError(t, r.Run(context.Background()))
	return out.String(), slept
}

func TestREPLAnswersAndExits(t *testing.T) {
	p := brain.DefaultPersona()
	out, slept := runREPL(t, "hello\nI feel sad\nexit\nhello again\n")

	assert.Contains(t, out, "Welcome to Pippin GPT")
	assert.Contains(t, out, "Pippin: "+p.Greeting)
	assert.Contains(t, out, "Pippin: "+p.Categories[5].Reply)
	assert.Contains(t, out, "Pippin: "+p.Categories[3].Reply)
	assert.Contains(t, out, "Pippin is thinking... 🦄")
	assert.True(t, strings.HasSuffix(out, "Pippin: "+p.Farewell+"\n"))
	assert.Equal(t, []time.Duration{time.Second, time.Second}, slept)
	assert.NotContains(t, out, clearScreen)
}

func TestREPLIgnoresBlankLines(t *testing.T) {
	out, slept := runREPL(t, "\n   \n\t\nQUIT\n")

	assert.Empty(t, slept)
	assert.Equal(t, 4, strings.Count(out, "You: "))
	assert.NotContains(t, out, "thinking")
}

func TestREPLExitIsCaseInsensitive(t *testing.T) {
	for _, cmd := range []string{"exit", "EXIT", " Exit ", "quit", "Quit"} {
		out, slept := runREPL(t, cmd+"\nhello\n")
		assert.Empty(t, slept, cmd)
		assert.Contains(t, out, brain.DefaultPersona().Farewell, cmd)
	}
}

func TestREPLEndsOnEOF(t *testing.T) {
	out, _ := runREPL(t, "hello")
	assert.Contains(t, out, brain.DefaultPersona().Farewell)
}

func TestREPLAnswersUnterminatedLastLine(t *testing.T) {
	p := brain.DefaultPersona()
	out, _ := runREPL(t, "I feel sad")
	assert.Contains(t, out, "Pippin: "+p.Categories[3].Reply)
	assert.True(t, strings.HasSuffix(out, "Pippin: "+p.Farewell+"\n"))
}

func TestREPLAcceptsVeryLongLines(t *testing.T) {
	p := brain.DefaultPersona()
	long := strings.Repeat("a", 70*1024) + " hello"

	out, slept := runREPL(t, long+"\nexit\n")
	assert.Contains(t, out, "Pippin: "+p.Categories[5].Reply)
	assert.True(t, strings.HasSuffix(out, "Pippin: "+p.Farewell+"\n"))
	assert.Len(t, slept, 1)
}

func TestREPLZeroDelaySkipsSleep(t *testing.T) {
	_, slept := runREPL(t, "hello\nexit\n", WithDelay(0))
	assert.Empty(t, slept)
}

func TestREPLStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	r := New(strings.NewReader("hello\n"), &out, brain.Default(), brain.DefaultPersona(), WithDelay(0))
	require.NoError(t, r.Run(ctx))
	assert.NotContains(t, out.String(), "thinking")
}

func TestIsExit(t *testing.T) {
	assert.True(t, IsExit("exit"))
	assert.True(t, IsExit("QUIT"))
	assert.False(t, IsExit("exit now"))
	assert.False(t, IsExit(""))
}
