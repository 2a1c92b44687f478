package keymap

import (
	"github.com/dshills/keyhint/internal/input/key"
)

// Binding is one physical key plus the exact modifier set that must
// accompany it. Bindings are comparable values.
type Binding struct {
	Key  key.Key
	Mods key.Modifier
}

// NewBinding creates a binding.
func NewBinding(k key.Key, mods key.Modifier) Binding {
	return Binding{Key: k, Mods: mods}
}

// ParseBinding parses a binding string. field names the configuration
// entry for error reporting.
func ParseBinding(field, spec string) (Binding, error) {
	k, mods, err := key.Parse(field, spec)
	if err != nil {
		return Binding{}, err
	}
	return Binding{Key: k, Mods: mods}, nil
}

// MustParseBinding parses a known-valid binding string.
func MustParseBinding(spec string) Binding {
	k, mods := key.MustParse(spec)
	return Binding{Key: k, Mods: mods}
}

// Matches reports whether ev is exactly this binding: same key and the
// same modifier set.
func (b Binding) Matches(ev key.Event) bool {
	return ev.Key == b.Key && ev.Modifiers.Disagreements(b.Mods) == 0
}

// Score rates how closely ev resembles b. See the package documentation.
func (b Binding) Score(ev key.Event) int {
	if ev.Key != b.Key {
		return 0
	}
	return key.UniverseSize - ev.Modifiers.Disagreements(b.Mods)
}

// String returns the canonical binding string.
func (b Binding) String() string {
	return key.Format(b.Key, b.Mods)
}
