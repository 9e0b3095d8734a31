package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/nathfavour/pippin/pkg/brain"
	"github.com/nathfavour/pippin/pkg/chat"
	"github.com/nathfavour/pippin/pkg/config"
	"github.com/nathfavour/pippin/pkg/console"
)

var (
	// Colors
	green = lipgloss.Color("#5A8C5A")
	mint  = lipgloss.Color("#04B575")
	gray  = lipgloss.Color("#626262")
	white = lipgloss.Color("#FAFAFA")

	// Styles
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(white).
			Background(green).
			Padding(0, 1).
			MarginBottom(1)

	styleBot = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(green).
			Padding(0, 1)

	styleUser = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(gray).
			Padding(0, 1)

	styleThinking = lipgloss.NewStyle().Foreground(mint)

	styleFooter = lipgloss.NewStyle().
			Foreground(gray).
			MarginTop(1)
)

const (
	headerHeight = 2
	footerHeight = 5
	bubbleMargin = 6
)

type replyMsg struct {
	text string
}

type Model struct {
	responder chat.Responder
	persona   brain.Persona
	delay     time.Duration

	transcript chat.Transcript
	input      textinput.Model
	viewport   viewport.Model
	spinner    spinner.Model

	thinking bool
	quitting bool
	width    int
	height   int
	ready    bool
}

func InitialModel(responder chat.Responder, persona brain.Persona, delay time.Duration) *Model {
	ti := textinput.New()
	ti.Placeholder = "Say something to " + persona.Name + "..."
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleThinking

	m := &Model{
		responder: responder,
		persona:   persona,
		delay:     delay,
		input:     ti,
		spinner:   sp,
	}
	m.transcript.Append(chat.Message{
		ID:        chat.GreetingID,
		Text:      persona.Greeting,
		Sender:    chat.SenderBot,
		CreatedAt: time.Now(),
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - headerHeight - footerHeight
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = h
		}
		m.input.Width = msg.Width - 4
		m.refresh()
		return m, nil

	case replyMsg:
		m.transcript.Append(chat.NewMessage(chat.SenderBot, msg.text))
		m.thinking = false
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	if m.thinking {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if console.IsExit(text) {
		m.quitting = true
		return m, tea.Quit
	}

	m.transcript.Append(chat.NewMessage(chat.SenderUser, text))
	m.input.Reset()
	m.thinking = true
	m.refresh()

	return m, tea.Batch(m.spinner.Tick, m.reply(text))
}

func (m *Model) reply(text string) tea.Cmd {
	respond := func() tea.Msg {
		return replyMsg{text: m.responder.SelectResponse(text)}
	}
	if m.delay <= 0 {
		return respond
	}
	return tea.Tick(m.delay, func(time.Time) tea.Msg {
		return respond()
	})
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *Model) renderTranscript() string {
	width := m.width - bubbleMargin
	if width < 10 {
		width = 10
	}

	var b strings.Builder
	for _, msg := range m.transcript.Messages() {
		text := runewidth.Wrap(msg.Text, width)
		if msg.Sender == chat.SenderUser {
			b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Right, styleUser.Render(text)))
		} else {
			b.WriteString(styleBot.Render(m.persona.Name + ": " + text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Messages exposes the transcript, mainly for tests.
func (m *Model) Messages() []chat.Message {
	return m.transcript.Messages()
}

func (m *Model) View() string {
	if m.quitting {
		return fmt.Sprintf("%s: %s\n", m.persona.Name, m.persona.Farewell)
	}
	if !m.ready {
		return "Waking " + m.persona.Name + " up..."
	}

	header := styleHeader.Render(fmt.Sprintf("🦄 %s GPT  %s", strings.ToUpper(m.persona.Name), config.Version))

	status := " "
	if m.thinking {
		status = m.spinner.View() + styleThinking.Render(m.persona.Name+" is thinking...")
	}

	footer := styleFooter.Render("[enter] Send • [esc] Quit • type 'exit' to leave the woods")

	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), status, m.input.View(), footer)
}
