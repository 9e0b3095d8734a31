package brain

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seqRand struct {
	seq []int
	i   int
}

func (r *seqRand) IntN(n int) int {
	v := r.seq[r.i%len(r.seq)] % n
	r.i++
	return v
}

func replyFor(t *testing.T, name string) string {
	t.Helper()
	for _, c := range DefaultPersona().Categories {
		if c.Name == name {
			return c.Reply
		}
	}
	t.Fatalf("no category %q", name)
	return ""
}

func TestSelectResponseCategories(t *testing.T) {
	s := Default()

	tests := []struct {
		input    string
		category string
	}{
		{"hello", "greetings"},
		{"I feel so sad and lonely", "sadness"},
		{"Who are you?", "origin"},
		{"WHERE ARE YOU", "home"},
		{"what a stupid day", "anger"},
		{"this is madness", "anger"},
		{"what's the price of solana", "crypto"},
		{"hey there", "greetings"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := s.Match(tt.input)
			assert.Equal(t, tt.category, r.Category)
			assert.Equal(t, replyFor(t, tt.category), r.Text)
			assert.Equal(t, r.Text, s.SelectResponse(tt.input))
		})
	}
}

func TestPriorityOrder(t *testing.T) {
	s := Default()

	tests := []struct {
		input string
		want  string
	}{
		{"hello, who are you? I hate tokens", "origin"},
		{"where are you? I'm so angry", "home"},
		{"I hate being sad", "anger"},
		{"the market makes me cry... I'm sad", "sadness"},
		{"hello coin", "crypto"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Match(tt.input).Category, tt.input)
	}
}

func TestOriginWinsOverEveryOtherCategory(t *testing.T) {
	s := Default()
	for _, c := range DefaultPersona().Categories {
		for _, kw := range c.Keywords {
			got := s.SelectResponse("who are you " + kw)
			assert.Equal(t, replyFor(t, "origin"), got, kw)
		}
	}
}

func TestFallback(t *testing.T) {
	s := Default()
	pool := DefaultPersona().Fallbacks

	for _, input := range []string{"", "xyzzy plugh"} {
		r := s.Match(input)
		assert.True(t, r.Fallback())
		assert.Contains(t, pool, r.Text)
		assert.NotEmpty(t, r.Text)
	}
}

func TestFallbackCoversWholePool(t *testing.T) {
	s := Default(WithRand(rand.New(rand.NewPCG(1, 2))))
	pool := DefaultPersona().Fallbacks

	seen := make(map[string]bool)
	for i := 0; i < 1000 && len(seen) < len(pool); i++ {
		got := s.SelectResponse("xyzzy plugh")
		require.Contains(t, pool, got)
		seen[got] = true
	}
	assert.Len(t, seen, len(pool))
}

func TestFallbackDeterministicSource(t *testing.T) {
	s := Default(WithRand(&seqRand{seq: []int{3, 0, 4}}))
	pool := DefaultPersona().Fallbacks

	assert.Equal(t, pool[3], s.SelectResponse("xyzzy plugh"))
	assert.Equal(t, pool[0], s.SelectResponse("xyzzy plugh"))
	assert.Equal(t, pool[4], s.SelectResponse("xyzzy plugh"))
}

func TestMatchDoesNotConsumeRandomness(t *testing.T) {
	src := &seqRand{seq: []int{1, 2}}
	s := Default(WithRand(src))

	s.SelectResponse("hello")
	s.SelectResponse("sad")
	assert.Equal(t, 0, src.i)
}

func TestPackageLevelSelectResponse(t *testing.T) {
	assert.Equal(t, replyFor(t, "greetings"), SelectResponse("hello"))
}

func TestKeywordsAreLowercased(t *testing.T) {
	p := Persona{
		Categories: []Category{{Name: "shout", Keywords: []string{"LOUD"}, Reply: "shh"}},
		Fallbacks:  []string{"..."},
	}
	s, err := New(p)
	require.NoError(t, err)
	assert.Equal(t, "shh", s.SelectResponse("so Loud"))
	assert.Equal(t, []string{"loud"}, s.Categories()[0].Keywords)
}

func TestNewValidates(t *testing.T) {
	_, err := New(Persona{})
	assert.ErrorIs(t, err, ErrNoFallbacks)

	_, err = New(Persona{
		Categories: []Category{{Name: "x", Reply: "y"}},
		Fallbacks:  []string{"z"},
	})
	assert.ErrorIs(t, err, ErrEmptyCategory)

	_, err = New(Persona{
		Categories: []Category{
			{Name: "x", Keywords: []string{"a"}, Reply: "y"},
			{Name: "x", Keywords: []string{"b"}, Reply: "y"},
		},
		Fallbacks: []string{"z"},
	})
	assert.ErrorIs(t, err, ErrDuplicateCategory)
}

func TestCategoriesIsACopy(t *testing.T) {
	s := Default()
	cats := s.Categories()
	cats[0].Reply = "changed"
	cats[0].Keywords[0] = "changed"

	assert.Equal(t, replyFor(t, "origin"), s.SelectResponse("who are you"))
}

func TestConcurrentUse(t *testing.T) {
	s := Default()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = s.SelectResponse("xyzzy")
				_ = s.SelectResponse("hello")
			}
		}()
	}
	wg.Wait()
}
