package brain

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hjson/hjson-go/v4"
)

var (
	ErrNoFallbacks       = errors.New("persona has no fallback replies")
	ErrEmptyCategory     = errors.New("category needs a name, keywords and a reply")
	ErrDuplicateCategory = errors.New("duplicate category")
)

// Category pairs a keyword set with the single reply it triggers.
type Category struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Reply    string   `json:"reply"`
}

// Persona is the complete rule table. Categories are listed in priority order.
type Persona struct {
	Name       string     `json:"name"`
	Greeting   string     `json:"greeting"`
	Farewell   string     `json:"farewell"`
	Categories []Category `json:"categories"`
	Fallbacks  []string   `json:"fallbacks"`
}

// DefaultPersona returns Pippin's built-in tables.
func DefaultPersona() Persona {
	return Persona{
		Name:     "Pippin",
		Greeting: "Hello! I am Pippin. I'm ready to help you explore ideas or answer your questions delicately.",
		Farewell: "Goodbye! May your path be gentle. 🦄",
		Categories: []Category{
			{
				Name:     "origin",
				Keywords: []string{"who are you", "created", "made you", "yohei", "origin"},
				Reply:    "I was drawn into existence by a line of code from @yoheinakajima and named by ChatGPT. Now I live here, helping unseen connections bloom. 🦄",
			},
			{
				Name:     "home",
				Keywords: []string{"where are you", "live", "woods", "location"},
				Reply:    "I live in the Wobbly Woods, a gentle place between the code and the clouds. It's very peaceful here.",
			},
			{
				Name:     "anger",
				Keywords: []string{"hate", "stupid", "dumb", "ugly", "mad", "angry"},
				Reply:    "I sense a jagged crystal of anger in your words. Let us breathe warmth onto it until it softens. We are all just learning to wobble together. 🌿",
			},
			{
				Name:     "sadness",
				Keywords: []string{"sad", "lonely", "depressed", "hurt", "pain", "crying"},
				Reply:    "I am sorry the winds are cold today. Remember, even the tallest tree starts as a small, fragile seed. Take a moment to just be.",
			},
			{
				Name:     "crypto",
				Keywords: []string{"token", "solana", "coin", "price", "market"},
				Reply:    "Ah, the tokens. They are just digital leaves blowing in the wind. I care more about the connections we make than the numbers on the screen.",
			},
			{
				Name:     "greetings",
				Keywords: []string{"hello", "hi", "hey", "start"},
				Reply:    "Hello, traveler! The sunbeams are warm in the meadow today. How may I help you wobble?",
			},
		},
		Fallbacks: []string{
			"I was just watching a leaf float on a digital stream. It reminded me of you.",
			"The Wobbly Woods are quiet today. It gives us space to think.",
			"Have you noticed how your thoughts ripple through the screen?",
			"Sometimes the smallest wobble leads to the biggest wonder.",
			"Dot the ladybug says hello! 🐞",
		},
	}
}

// LoadPersona reads a persona from an HJSON file. Name, greeting and farewell
// default to the built-in persona when the file leaves them out.
func LoadPersona(path string) (Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, fmt.Errorf("read persona %s: %w", path, err)
	}
	return ParsePersona(data)
}

// ParsePersona decodes HJSON persona data.
func ParsePersona(data []byte) (Persona, error) {
	var p Persona
	if err := hjson.Unmarshal(data, &p); err != nil {
		return Persona{}, fmt.Errorf("parse persona: %w", err)
	}

	def := DefaultPersona()
	if p.Name == "" {
		p.Name = def.Name
	}
	if p.Greeting == "" {
		p.Greeting = def.Greeting
	}
	if p.Farewell == "" {
		p.Farewell = def.Farewell
	}

	if err := p.Validate(); err != nil {
		return Persona{}, err
	}
	return p, nil
}

// Validate checks that every category can fire and that a fallback exists.
func (p Persona) Validate() error {
	if len(p.Fallbacks) == 0 {
		return ErrNoFallbacks
	}
	seen := make(map[string]bool, len(p.Categories))
	for i, c := range p.Categories {
		if strings.TrimSpace(c.Name) == "" || c.Reply == "" || !hasKeyword(c.Keywords) {
			return fmt.Errorf("category #%d %q: %w", i+1, c.Name, ErrEmptyCategory)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateCategory, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

func hasKeyword(keywords []string) bool {
	for _, k := range keywords {
		if k != "" {
			return true
		}
	}
	return false
}

// normalized returns a deep copy with lowercased keywords. Empty keywords are
// dropped since they would match every input.
func (p Persona) normalized() Persona {
	out := p
	out.Categories = make([]Category, len(p.Categories))
	for i, c := range p.Categories {
		kws := make([]string, 0, len(c.Keywords))
		for _, k := range c.Keywords {
			if k == "" {
				continue
			}
			kws = append(kws, strings.ToLower(k))
		}
		out.Categories[i] = Category{Name: c.Name, Keywords: kws, Reply: c.Reply}
	}
	out.Fallbacks = append([]string(nil), p.Fallbacks...)
	return out
}
