package keymap

import (
	"errors"
	"testing"

	"github.com/dshills/keyhint/internal/input/key"
)

const hintChars = "jklhgasdfweruio"

func ev(k key.Key, mods key.Modifier) key.Event {
	return key.NewEvent(k, mods)
}

func TestBindingMatchesAndScores(t *testing.T) {
	showGrid := MustParseBinding("⇧⌘j")

	tests := []struct {
		name      string
		binding   Binding
		event     key.Event
		wantMatch bool
		wantScore int
	}{
		{"shift command j", showGrid, ev(key.KeyJ, key.ModShift|key.ModCmd), true, 5},
		{"missing command", showGrid, ev(key.KeyJ, key.ModShift), false, 4},
		{"extra option", showGrid, ev(key.KeyJ, key.ModShift|key.ModCmd|key.ModAlt), false, 4},
		{"other key", showGrid, ev(key.KeyK, key.ModShift|key.ModCmd), false, 0},
		{"plain j", MustParseBinding("j"), ev(key.KeyJ, key.ModNone), true, 5},
		{"plain j vs shifted", MustParseBinding("j"), ev(key.KeyJ, key.ModShift), false, 4},
		{"plain j vs all", MustParseBinding("j"), ev(key.KeyJ, key.ModShift|key.ModCtrl|key.ModAlt|key.ModCmd|key.ModFn), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.binding.Matches(tt.event); got != tt.wantMatch {
				t.Errorf("Matches() = %v, want %v", got, tt.wantMatch)
			}
			if got := tt.binding.Score(tt.event); got != tt.wantScore {
				t.Errorf("Score() = %d, want %d", got, tt.wantScore)
			}
		})
	}
}

func TestPrimeSeparatesSharedKey(t *testing.T) {
	km := NewKeymap("pointer").
		Add(MustParseBinding("j"), ActionMoveDown).
		Add(MustParseBinding("<S>j"), ActionScrollDown)

	if a, ok := km.Resolve(ev(key.KeyJ, key.ModNone)); !ok || a != ActionMoveDown {
		t.Errorf("Resolve(j) = %v, %v", a, ok)
	}
	if a, ok := km.Resolve(ev(key.KeyJ, key.ModShift)); !ok || a != ActionScrollDown {
		t.Errorf("Resolve(<S>j) = %v, %v", a, ok)
	}
	// The prime for cmd+j is plain j, which does not match exactly.
	if e, ok := km.Prime(ev(key.KeyJ, key.ModCmd)); !ok || e.Action != ActionMoveDown {
		t.Errorf("Prime(<D>j) = %v, %v", e.Action, ok)
	}
	if _, ok := km.Resolve(ev(key.KeyJ, key.ModCmd)); ok {
		t.Error("Resolve(<D>j) should not fire")
	}
	if _, ok := km.Prime(ev(key.KeyK, key.ModNone)); ok {
		t.Error("Prime(k) should find nothing")
	}
}

func TestPrimeTieBreak(t *testing.T) {
	// Both score 4 for shift+command+j.
	km := NewKeymap("tie").
		Add(MustParseBinding("<S>j"), ActionScrollDown).
		Add(MustParseBinding("<S><D><M>j"), ActionShowGrid).
		Add(MustParseBinding("<D>j"), ActionStartScroll)

	e, ok := km.Prime(ev(key.KeyJ, key.ModShift|key.ModCmd))
	if !ok || e.Action != ActionShowGrid {
		t.Errorf("Prime() = %v, want binding with more modifiers", e.Action)
	}

	// Equal modifier counts fall back to table order.
	km = NewKeymap("order").
		Add(MustParseBinding("<S>j"), ActionScrollDown).
		Add(MustParseBinding("<D>j"), ActionStartScroll)
	for range 10 {
		e, _ := km.Prime(ev(key.KeyJ, key.ModNone|key.ModAlt))
		if e.Action != ActionScrollDown {
			t.Fatalf("Prime() = %v, want first declared", e.Action)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	set, err := Load(nil, hintChars)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(set.Bindings) != len(Specs) {
		t.Errorf("Bindings has %d entries, want %d", len(set.Bindings), len(Specs))
	}

	tests := []struct {
		km    *Keymap
		event key.Event
		want  Action
	}{
		{set.Trigger, ev(key.KeyPeriod, key.ModShift|key.ModCmd), ActionShowHints},
		{set.Trigger, ev(key.KeyComma, key.ModShift|key.ModCmd), ActionShowGrid},
		{set.Trigger, ev(key.KeyJ, key.ModShift|key.ModCmd), ActionStartScroll},
		{set.Hint, ev(key.KeyEscape, key.ModNone), ActionClose},
		{set.Hint, ev(key.KeySlash, key.ModNone), ActionEnterSearch},
		{set.Hint, ev(key.KeyTab, key.ModNone), ActionNextOccurrence},
		{set.Hint, ev(key.KeyTab, key.ModShift), ActionPrevOccurrence},
		{set.Hint, ev(key.KeyEnter, key.ModNone), ActionSelectOccurrence},
		{set.Hint, ev(key.KeyBackspace, key.ModNone), ActionDeleteSearchChar},
		{set.Hint, ev(key.KeySemicolon, key.ModNone), ActionToggleZOrder},
		{set.GridSelect, ev(key.KeyEscape, key.ModNone), ActionClose},
		{set.Pointer, ev(key.KeyH, key.ModNone), ActionMoveLeft},
		{set.Pointer, ev(key.KeyH, key.ModShift), ActionScrollLeft},
		{set.Pointer, ev(key.KeyG, key.ModNone), ActionScrollFullUp},
		{set.Pointer, ev(key.KeyG, key.ModShift), ActionScrollFullDown},
		{set.Pointer, ev(key.KeyEnter, key.ModNone), ActionLeftClick},
		{set.Pointer, ev(key.KeySlash, key.ModNone), ActionReopenGrid},
		{set.Pointer, ev(key.KeyV, key.ModNone), ActionToggleDrag},
	}
	for _, tt := range tests {
		if got, ok := tt.km.Resolve(tt.event); !ok || got != tt.want {
			t.Errorf("%s.Resolve(%v) = %v, %v; want %v", tt.km.Name, tt.event, got, ok, tt.want)
		}
	}

	if _, ok := set.GridSelect.Resolve(ev(key.KeyH, key.ModNone)); ok {
		t.Error("grid selection must leave hint characters to typing")
	}
}

func TestDefaultsRoundTrip(t *testing.T) {
	for _, s := range Specs {
		b, err := ParseBinding(s.Field, s.Default)
		if err != nil {
			t.Errorf("%s: %v", s.Field, err)
			continue
		}
		again, err := ParseBinding(s.Field, b.String())
		if err != nil {
			t.Errorf("%s: reparse %q: %v", s.Field, b.String(), err)
			continue
		}
		if again != b {
			t.Errorf("%s: round trip %q -> %q changed binding", s.Field, s.Default, b.String())
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	set, err := Load(map[string]string{"key_show_hints": "⌃⌥h", "key_mouse_left": "<Left>"}, hintChars)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if a, ok := set.Trigger.Resolve(ev(key.KeyH, key.ModCtrl|key.ModAlt)); !ok || a != ActionShowHints {
		t.Errorf("override not applied: %v %v", a, ok)
	}
	if _, ok := set.Pointer.Resolve(ev(key.KeyH, key.ModNone)); ok {
		t.Error("old mouse_left binding still active")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		field     string
		parse     bool
	}{
		{"trigger without modifiers", map[string]string{"key_show_hints": "h"}, "key_show_hints", false},
		{"close in hint chars", map[string]string{"key_close": "j"}, "key_close", false},
		{"search key in hint chars", map[string]string{"key_enter_search_mode": "<S>a"}, "key_enter_search_mode", false},
		{"printable occurrence key", map[string]string{"key_next_search_occurence": "n"}, "key_next_search_occurence", false},
		{"unparsable", map[string]string{"key_left_click": "<Nope>"}, "key_left_click", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.overrides, hintChars)
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if tt.parse {
				var pe *key.ParseError
				if !errors.As(err, &pe) || pe.Field != tt.field {
					t.Errorf("error = %v, want ParseError for %s", err, tt.field)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("error = %v, want ValidationError for %s", err, tt.field)
			}
		})
	}

	if _, err := Load(map[string]string{"key_bogus": "j"}, hintChars); err == nil {
		t.Error("unknown field should fail")
	}
}

func TestValidatePrintable(t *testing.T) {
	if err := Validate("f", MustParseBinding("<Esc>"), RequirePrintable, hintChars); err == nil {
		t.Error("escape should fail RequirePrintable")
	}
	if err := Validate("f", MustParseBinding("x"), RequirePrintable, hintChars); err != nil {
		t.Errorf("x should pass RequirePrintable: %v", err)
	}
}

func TestActionString(t *testing.T) {
	if ActionShowGrid.String() != "show_grid" || ActionToggleDrag.String() != "enter_visual" {
		t.Error("action names changed")
	}
	if Action(200).String() != "unknown" {
		t.Error("out of range action should be unknown")
	}
}
