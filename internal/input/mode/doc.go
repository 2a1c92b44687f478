// Package mode provides the interaction modes of keyhint and the control
// loop that drives them.
//
// Two controllers are provided:
//   - Hint mode: labels every actionable element of the frontmost window
//     and clicks the one whose label is typed, or fuzzy-searches element
//     text.
//   - Grid mode: narrows a labelled grid to one cell, then drives the
//     pointer from the keyboard (move, scroll, drag, click).
//
// # Architecture
//
// The Loop owns a single goroutine. Key events, timer callbacks and
// traversal results are all delivered to it, so controller state is never
// shared between goroutines. Traversal is the only work that runs off the
// loop; its result is handed back through Host.Go.
//
// # Mode Lifecycle
//
//	┌──────┐  trigger   ┌───────────┐  result  ┌───────────┐
//	│ Idle │ ─────────▶ │ Revealing │ ───────▶ │ Narrowing │
//	└──────┘            └───────────┘          └───────────┘
//	    ▲                     │ close                │ commit / close
//	    └─────────────────────┴──────────────────────┘
//
// While a controller is open it is the loop's listener: every key that is
// not a trigger goes to it and is swallowed. Closing releases the listener
// before the close returns.
package mode
