package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathfavour/pippin/pkg/brain"
	"github.com/nathfavour/pippin/pkg/chat"
)

func newModel(t *testing.T) *Model {
	t.Helper()
	m := InitialModel(brain.Default(), brain.DefaultPersona(), 0)
	_, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func typeAndSend(t *testing.T, m *Model, text string) tea.Cmd {
	t.Helper()
	m.input.SetValue(text)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestInitialTranscriptHasGreeting(t *testing.T) {
	m := newModel(t)
	msgs := m.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, chat.GreetingID, msgs[0].ID)
	assert.Contains(t, m.View(), "Pippin")
}

func TestSubmitProducesReply(t *testing.T) {
	m := newModel(t)

	cmd := typeAndSend(t, m, "hello")
	require.NotNil(t, cmd)
	assert.True(t, m.thinking)
	assert.Empty(t, m.input.Value())

	// The reply command is independent of the spinner tick.
	m.Update(m.reply("hello")())
	assert.False(t, m.thinking)

	msgs := m.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, chat.SenderUser, msgs[1].Sender)
	assert.Equal(t, "hello", msgs[1].Text)
	assert.Equal(t, brain.DefaultPersona().Categories[5].Reply, msgs[2].Text)
}

func TestBlankSubmitIgnored(t *testing.T) {
	m := newModel(t)
	cmd := typeAndSend(t, m, "   ")
	assert.Nil(t, cmd)
	assert.False(t, m.thinking)
	assert.Len(t, m.Messages(), 1)
}

func TestSubmitWhileThinkingIgnored(t *testing.T) {
	m := newModel(t)
	typeAndSend(t, m, "hello")
	cmd := typeAndSend(t, m, "again")
	assert.Nil(t, cmd)
	assert.Len(t, m.Messages(), 2)
}

func TestExitQuits(t *testing.T) {
	m := newModel(t)
	cmd := typeAndSend(t, m, "Exit")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Contains(t, m.View(), brain.DefaultPersona().Farewell)
}
