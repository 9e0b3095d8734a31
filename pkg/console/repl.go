// Package console runs Pippin as a line-oriented REPL on a terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/nathfavour/pippin/pkg/brain"
	"github.com/nathfavour/pippin/pkg/chat"
)

const (
	clearScreen  = "\033[H\033[2J"
	thinkingLine = "is thinking... 🦄"
	rule         = "============================================"
)

var replyColor = lipgloss.Color("#04B575")

type Option func(*REPL)

func WithDelay(d time.Duration) Option {
	return func(r *REPL) { r.delay = d }
}

func WithSleep(sleep func(time.Duration)) Option {
	return func(r *REPL) { r.sleep = sleep }
}

// REPL reads lines from in and answers each on out until exit, quit or EOF.
type REPL struct {
	in        io.Reader
	out       io.Writer
	responder chat.Responder
	persona   brain.Persona
	delay     time.Duration
	sleep     func(time.Duration)
	clear     bool
	style     lipgloss.Style
}

func New(in io.Reader, out io.Writer, responder chat.Responder, persona brain.Persona, opts ...Option) *REPL {
	r := &REPL{
		in:        in,
		out:       out,
		responder: responder,
		persona:   persona,
		delay:     chat.DefaultDelay,
		sleep:     time.Sleep,
		clear:     isTerminal(out),
		style:     lipgloss.NewRenderer(out).NewStyle().Foreground(replyColor),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsExit reports whether line is one of the leave commands.
func IsExit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit":
		return true
	}
	return false
}

// Run blocks until the user leaves, input ends, or ctx is cancelled between lines.
func (r *REPL) Run(ctx context.Context) error {
	r.banner()

	reader := bufio.NewReader(r.in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(r.out, "You: ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read input: %w", err)
		}
		if err != nil && line == "" {
			fmt.Fprintln(r.out)
			r.farewell()
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if IsExit(input) {
			r.farewell()
			return nil
		}

		r.think()
		reply := r.responder.SelectResponse(input)
		fmt.Fprintln(r.out, r.style.Render(fmt.Sprintf("%s: %s", r.persona.Name, reply)))
		fmt.Fprintln(r.out)
	}
}

func (r *REPL) banner() {
	if r.clear {
		fmt.Fprint(r.out, clearScreen)
	}
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "      Welcome to %s GPT\n", r.persona.Name)
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "%s: %s\n", r.persona.Name, r.persona.Greeting)
	fmt.Fprintln(r.out, "(Type 'exit' or 'quit' to leave the woods)")
	fmt.Fprintln(r.out)
}

func (r *REPL) think() {
	line := r.persona.Name + " " + thinkingLine
	fmt.Fprint(r.out, line)
	if r.delay > 0 {
		r.sleep(r.delay)
	}
	fmt.Fprintf(r.out, "\r%s\r", strings.Repeat(" ", len(line)))
}

func (r *REPL) farewell() {
	fmt.Fprintf(r.out, "%s: %s\n", r.persona.Name, r.persona.Farewell)
}
