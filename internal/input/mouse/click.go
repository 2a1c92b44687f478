package mouse

import "time"

// Timer is a pending callback created by a Scheduler.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped it
	// before it ran.
	Stop() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// ClickCounter assigns click counts to consecutive clicks. A click
// arriving before the debounce interval elapses continues the sequence.
type ClickCounter struct {
	sched    Scheduler
	interval time.Duration

	count int
	timer Timer
}

// NewClickCounter creates a counter debounced by interval.
func NewClickCounter(sched Scheduler, interval time.Duration) *ClickCounter {
	return &ClickCounter{sched: sched, interval: interval}
}

// Click records a click and returns its click count, starting at 1.
func (c *ClickCounter) Click() int {
	c.Cancel()
	c.timer = c.sched.AfterFunc(c.interval, c.expire)
	c.count++
	return c.count
}

// Count returns the count of the last click, or 0 once the sequence
// expired.
func (c *ClickCounter) Count() int {
	return c.count
}

// Cancel stops the pending reset without clearing the count.
func (c *ClickCounter) Cancel() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Reset stops the pending reset and clears the count.
func (c *ClickCounter) Reset() {
	c.Cancel()
	c.count = 0
}

func (c *ClickCounter) expire() {
	c.timer = nil
	c.count = 0
}
