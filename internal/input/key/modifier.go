package key

import (
	"math/bits"
	"strings"
)

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << (iota - 1)

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Option key.
	ModAlt

	// ModCmd indicates the Command key.
	ModCmd

	// ModFn indicates the Function key.
	ModFn
)

// Universe lists every modifier in canonical order.
var Universe = []Modifier{ModShift, ModCtrl, ModAlt, ModCmd, ModFn}

// UniverseSize is the number of distinct modifiers.
const UniverseSize = 5

// modAll masks bits outside the universe.
const modAll = ModShift | ModCtrl | ModAlt | ModCmd | ModFn

var modTokens = map[Modifier]string{
	ModShift: "<S>",
	ModCtrl:  "<C>",
	ModAlt:   "<M>",
	ModCmd:   "<D>",
	ModFn:    "<Fn>",
}

var modNames = map[Modifier]string{
	ModShift: "Shift",
	ModCtrl:  "Ctrl",
	ModAlt:   "Option",
	ModCmd:   "Cmd",
	ModFn:    "Fn",
}

var modGlyphs = map[rune]Modifier{
	'⇧': ModShift,
	'⌃': ModCtrl,
	'⌥': ModAlt,
	'⌘': ModCmd,
}

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m&modAll == ModNone
}

// Count returns the number of modifiers set.
func (m Modifier) Count() int {
	return bits.OnesCount8(uint8(m & modAll))
}

// Disagreements counts universe members present in exactly one of m and
// other.
func (m Modifier) Disagreements(other Modifier) int {
	return bits.OnesCount8(uint8((m ^ other) & modAll))
}

// String returns a human-readable representation like "Shift+Cmd".
func (m Modifier) String() string {
	var parts []string
	for _, mod := range Universe {
		if m.Has(mod) {
			parts = append(parts, modNames[mod])
		}
	}
	return strings.Join(parts, "+")
}

// Tokens returns the binding-string form like "<S><D>".
func (m Modifier) Tokens() string {
	var sb strings.Builder
	for _, mod := range Universe {
		if m.Has(mod) {
			sb.WriteString(modTokens[mod])
		}
	}
	return sb.String()
}
