// Package brain maps user text to one of Pippin's canned replies.
package brain

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// CategoryFallback is reported by Match when no category fired.
const CategoryFallback = "fallback"

// RandSource picks an index in [0, n). *rand.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Reply is a selected response and the category that produced it.
type Reply struct {
	Text     string
	Category string
}

// Fallback reports whether the reply came from the fallback pool.
func (r Reply) Fallback() bool {
	return r.Category == CategoryFallback
}

type Option func(*Selector)

// WithRand replaces the source used to pick fallback replies.
func WithRand(src RandSource) Option {
	return func(s *Selector) {
		if src != nil {
			s.rng = src
		}
	}
}

// Selector holds an immutable persona. It is safe for concurrent use.
type Selector struct {
	persona Persona
	mu      sync.Mutex
	rng     RandSource
}

func New(p Persona, opts ...Option) (*Selector, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Selector{
		persona: p.normalized(),
		rng:     globalRand{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Default returns a selector over the built-in persona.
func Default(opts ...Option) *Selector {
	s, err := New(DefaultPersona(), opts...)
	if err != nil {
		panic("brain: built-in persona is invalid: " + err.Error())
	}
	return s
}

// Match scans the categories in priority order and returns the first hit.
// Matching is case-insensitive substring containment, so "madness" hits "mad".
func (s *Selector) Match(input string) Reply {
	text := strings.ToLower(input)

	for _, c := range s.persona.Categories {
		for _, word := range c.Keywords {
			if strings.Contains(text, word) {
				return Reply{Text: c.Reply, Category: c.Name}
			}
		}
	}

	s.mu.Lock()
	i := s.rng.IntN(len(s.persona.Fallbacks))
	s.mu.Unlock()
	return Reply{Text: s.persona.Fallbacks[i], Category: CategoryFallback}
}

// SelectResponse returns the reply text for input. It never fails.
func (s *Selector) SelectResponse(input string) string {
	return s.Match(input).Text
}

// Persona returns a copy of the tables the selector runs on.
func (s *Selector) Persona() Persona {
	return s.persona.normalized()
}

// Categories returns the categories in priority order.
func (s *Selector) Categories() []Category {
	return s.Persona().Categories
}

var defaultSelector = Default()

// SelectResponse answers input with the built-in persona.
func SelectResponse(input string) string {
	return defaultSelector.SelectResponse(input)
}
