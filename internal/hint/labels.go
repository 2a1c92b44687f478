package hint

import (
	"errors"
	"slices"
	"sync"
)

// MinAlphabet is the smallest usable alphabet size.
const MinAlphabet = 8

// ErrAlphabet is returned for alphabets that are too small or repeat a
// character.
var ErrAlphabet = errors.New("hint alphabet needs at least 8 distinct characters")

// Generator produces label sets over one alphabet. Generated tiers are
// cached and only ever appended to.
type Generator struct {
	alphabet []rune

	mu    sync.Mutex
	tiers [][]string
}

// NewGenerator creates a generator over alphabet.
func NewGenerator(alphabet string) (*Generator, error) {
	runes := []rune(alphabet)
	seen := make(map[rune]bool, len(runes))
	for _, r := range runes {
		if seen[r] {
			return nil, ErrAlphabet
		}
		seen[r] = true
	}
	if len(runes) < MinAlphabet {
		return nil, ErrAlphabet
	}
	return &Generator{alphabet: runes}, nil
}

// Alphabet returns the generator's characters in order.
func (g *Generator) Alphabet() string {
	return string(g.alphabet)
}

// Labels returns n pairwise distinct labels, all of the same length.
func (g *Generator) Labels(n int) []string {
	if n <= 0 {
		return []string{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.tiers) == 0 {
		first := make([]string, len(g.alphabet))
		for i, r := range g.alphabet {
			first[i] = string(r)
		}
		g.tiers = append(g.tiers, first)
	}
	for _, tier := range g.tiers {
		if len(tier) >= n {
			return slices.Clone(tier[:n])
		}
	}
	for {
		next := g.extend(g.tiers[len(g.tiers)-1])
		g.tiers = append(g.tiers, next)
		if len(next) >= n {
			return slices.Clone(next[:n])
		}
	}
}

func (g *Generator) extend(prev []string) []string {
	next := make([]string, 0, len(prev)*len(g.alphabet))
	for _, label := range prev {
		for _, r := range g.alphabet {
			next = append(next, label+string(r))
		}
	}
	slices.SortStableFunc(next, func(a, b string) int {
		return distinct(b) - distinct(a)
	})
	return next
}

func distinct(s string) int {
	var seen []rune
	for _, r := range s {
		if !slices.Contains(seen, r) {
			seen = append(seen, r)
		}
	}
	return len(seen)
}
