package keymap

import (
	"github.com/dshills/keyhint/internal/input/key"
)

// Entry maps a binding to an action.
type Entry struct {
	Binding Binding
	Action  Action

	// Field is the configuration key the binding came from.
	Field string
}

// Keymap holds the bindings of one mode in declaration order.
type Keymap struct {
	// Name identifies the keymap in logs.
	Name string

	Entries []Entry
}

// NewKeymap creates an empty keymap.
func NewKeymap(name string) *Keymap {
	return &Keymap{Name: name}
}

// Add appends an entry.
func (k *Keymap) Add(b Binding, a Action) *Keymap {
	k.Entries = append(k.Entries, Entry{Binding: b, Action: a})
	return k
}

// AddEntry appends a fully described entry.
func (k *Keymap) AddEntry(e Entry) *Keymap {
	k.Entries = append(k.Entries, e)
	return k
}

// Prime returns the highest scoring entry for ev. ok is false when no
// binding shares the event's key.
func (k *Keymap) Prime(ev key.Event) (Entry, bool) {
	var (
		best      Entry
		bestScore int
	)
	for _, e := range k.Entries {
		s := e.Binding.Score(ev)
		if s == 0 {
			continue
		}
		if s > bestScore || (s == bestScore && e.Binding.Mods.Count() > best.Binding.Mods.Count()) {
			best, bestScore = e, s
		}
	}
	return best, bestScore > 0
}

// Resolve returns the action of the prime entry when it matches ev.
func (k *Keymap) Resolve(ev key.Event) (Action, bool) {
	e, ok := k.Prime(ev)
	if !ok || !e.Binding.Matches(ev) {
		return ActionNone, false
	}
	return e.Action, true
}

// Binding returns the first binding configured for a.
func (k *Keymap) Binding(a Action) (Binding, bool) {
	for _, e := range k.Entries {
		if e.Action == a {
			return e.Binding, true
		}
	}
	return Binding{}, false
}

// Clone returns a copy of the keymap.
func (k *Keymap) Clone() *Keymap {
	return &Keymap{
		Name:    k.Name,
		Entries: append([]Entry(nil), k.Entries...),
	}
}
