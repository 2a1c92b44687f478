package key

import (
	"fmt"
	"time"
	"unicode"
)

// Event represents a single key press event.
type Event struct {
	// Key identifies the physical key pressed.
	Key Key

	// Rune is the character the active layout produced, or 0.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewEvent creates a key event with the current timestamp. The rune is
// derived from the key and shift state.
func NewEvent(k Key, mods Modifier) Event {
	r, _ := k.Rune()
	if mods.Has(ModShift) {
		r = unicode.ToUpper(r)
	}
	return Event{
		Key:       k,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// Char returns the typed character when it is printable.
func (e Event) Char() (rune, bool) {
	if e.Rune == 0 || !unicode.IsPrint(e.Rune) {
		return 0, false
	}
	return e.Rune, true
}

// Digit returns the value of an unmodified digit key.
func (e Event) Digit() (int, bool) {
	if !e.Modifiers.IsEmpty() {
		return 0, false
	}
	return e.Key.Digit()
}

// String returns the binding-string form of the event.
func (e Event) String() string {
	return Format(e.Key, e.Modifiers)
}

// Equals returns true if two events represent the same key press.
// Timestamps are not compared.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key &&
		e.Rune == other.Rune &&
		e.Modifiers == other.Modifiers
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Modifiers: %s}",
		e.Key.String(), e.Rune, e.Modifiers.String())
}
