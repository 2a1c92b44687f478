// Package keymap resolves key events to actions.
//
// A Keymap is an ordered table of (binding, action) entries for one mode.
// Resolution is two-step: every binding scores the event, the highest
// score is the prime candidate, and the prime fires only if it matches
// the event exactly.
//
// # Scoring
//
// A binding whose key differs from the event scores 0. Otherwise the
// score starts at the number of modifiers in the universe (5) and loses
// one point per modifier present on exactly one of the binding and the
// event. This separates "j" from "<S>j" when both share the j key.
//
// Ties go to the binding with more configured modifiers, then to the
// earlier entry in the table.
//
// # Usage
//
//	set, err := keymap.Load(overrides, "jklhgasdfweruio")
//	if err != nil {
//	    return err
//	}
//	if action, ok := set.Hint.Resolve(ev); ok {
//	    // dispatch action
//	}
package keymap
