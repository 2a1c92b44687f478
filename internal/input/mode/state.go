package mode

import (
	"time"

	"github.com/dshills/keyhint/internal/input/key"
	"github.com/dshills/keyhint/internal/input/keymap"
	"github.com/dshills/keyhint/internal/input/mouse"
)

// Mode names.
const (
	ModeHints = "hints"
	ModeGrid  = "grid"
)

// Phase is the lifecycle stage of a controller.
type Phase uint8

const (
	// PhaseIdle means the controller is closed.
	PhaseIdle Phase = iota

	// PhaseListening is pointer control in grid mode.
	PhaseListening

	// PhaseRevealing waits for traversal results.
	PhaseRevealing

	// PhaseNarrowing consumes typed characters to pick a target.
	PhaseNarrowing

	// PhaseCommitted is set while the chosen action is posted.
	PhaseCommitted
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseListening:
		return "listening"
	case PhaseRevealing:
		return "revealing"
	case PhaseNarrowing:
		return "narrowing"
	case PhaseCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// State is the transient state of one controller.
type State struct {
	Phase Phase

	// Typed is the narrowing or search buffer.
	Typed string

	// Selected is the highlighted hint in fuzzy search, or -1.
	Selected int

	// Count is the repeat count typed in pointer control.
	Count mouse.Count

	// Drag tracks a held primary button in pointer control.
	Drag mouse.Drag
}

// Reset returns the state to idle. An active drag is forgotten; callers
// release the button first.
func (s *State) Reset() {
	s.Phase = PhaseIdle
	s.Typed = ""
	s.Selected = -1
	s.Count.Reset()
	s.Drag.End()
}

// Outcome is how a session ended.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeEmpty     Outcome = "empty"
	OutcomeFailed    Outcome = "failed"
)

// Observer is notified of session boundaries.
type Observer interface {
	SessionStarted(mode string)
	SessionEnded(mode string, outcome Outcome, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) SessionStarted(string) {}
func (nopObserver) SessionEnded(string, Outcome, time.Duration) {}

// Controller is an interaction mode driven by a Loop. All methods are
// called on the loop goroutine.
type Controller interface {
	// Name returns the mode name.
	Name() string

	// Trigger handles a trigger action routed to this controller.
	Trigger(a keymap.Action, ev key.Event)

	// HandleKey handles a key while the controller is the listener.
	HandleKey(ev key.Event)

	// Active reports whether the controller is open.
	Active() bool

	// Close closes the controller if open.
	Close()
}
