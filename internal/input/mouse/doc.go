// Package mouse holds the pointer-side state of keyboard pointer control:
// buttons and directions, the repeat count typed before a motion, drag
// tracking and the click-count debounce.
//
// # Click Counting
//
// Clicks posted in quick succession carry an increasing click count so
// the receiving application sees a double or triple click. Each click
// re-arms a debounce timer; when it fires the count returns to zero:
//
//	clicks := mouse.NewClickCounter(sched, 500*time.Millisecond)
//	n := clicks.Click() // 1, then 2 if clicked again before the timer fires
//
// Timers are created through a Scheduler so callbacks can be delivered on
// the caller's own event loop.
//
// # Thread Safety
//
// Nothing in this package is synchronized. Callers confine each value to
// one goroutine.
package mouse
