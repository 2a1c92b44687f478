package keymap

import (
	"fmt"
	"strings"
)

// ValidationError reports a binding that parsed but breaks a rule.
type ValidationError struct {
	Field   string
	Binding Binding
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Field, e.Binding, e.Reason)
}

// Validate applies checks to b.
func Validate(field string, b Binding, checks Check, hintChars string) error {
	fail := func(reason string) error {
		return &ValidationError{Field: field, Binding: b, Reason: reason}
	}
	if checks&RequireModifiers != 0 && b.Mods.IsEmpty() {
		return fail("must use modifiers")
	}
	if checks&RequirePrintable != 0 && !b.Key.IsPrintable() {
		return fail("must use a printable ascii key")
	}
	if checks&NotInHintChars != 0 {
		if r, ok := b.Key.Rune(); ok && strings.ContainsRune(strings.ToLower(hintChars), r) {
			return fail("uses a key that is also a hint character")
		}
	}
	if checks&RequireNonPrintable != 0 && !b.Key.IsNonPrintable() {
		return fail("must use a non printable key")
	}
	return nil
}

// Set holds the keymaps of every mode.
type Set struct {
	// Trigger is consulted while no mode owns the keyboard.
	Trigger *Keymap

	// Hint is consulted while hints are shown.
	Hint *Keymap

	// GridSelect is consulted while a grid cell is being typed.
	GridSelect *Keymap

	// Pointer is consulted during pointer control.
	Pointer *Keymap

	// Bindings maps each field to its effective binding.
	Bindings map[string]Binding
}

// Load builds a Set from binding strings keyed by configuration field.
// Missing fields use their defaults; unknown fields are an error.
func Load(overrides map[string]string, hintChars string) (*Set, error) {
	for field := range overrides {
		if _, ok := SpecFor(field); !ok {
			return nil, fmt.Errorf("%s: unknown key binding", field)
		}
	}

	set := &Set{
		Trigger:    NewKeymap("trigger"),
		Hint:       NewKeymap("hint"),
		GridSelect: NewKeymap("grid-select"),
		Pointer:    NewKeymap("pointer"),
		Bindings:   make(map[string]Binding, len(Specs)),
	}
	for _, s := range Specs {
		spec := s.Default
		if v, ok := overrides[s.Field]; ok {
			spec = v
		}
		b, err := ParseBinding(s.Field, spec)
		if err != nil {
			return nil, err
		}
		if err := Validate(s.Field, b, s.Checks, hintChars); err != nil {
			return nil, err
		}
		set.Bindings[s.Field] = b

		e := Entry{Binding: b, Action: s.Action, Field: s.Field}
		if s.tables&tableTrigger != 0 {
			set.Trigger.AddEntry(e)
		}
		if s.tables&tableHint != 0 {
			set.Hint.AddEntry(e)
		}
		if s.tables&tableGridSelect != 0 {
			set.GridSelect.AddEntry(e)
		}
		if s.tables&tablePointer != 0 {
			set.Pointer.AddEntry(e)
		}
	}
	return set, nil
}

// Default returns the Set built from default bindings.
func Default(hintChars string) *Set {
	set, err := Load(nil, hintChars)
	if err != nil {
		panic("default key bindings invalid: " + err.Error())
	}
	return set
}
