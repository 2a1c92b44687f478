package mouse

import "strconv"

// MaxCount is the largest repeat count a motion accepts.
const MaxCount = 9999

// Count accumulates the repeat count typed before a motion.
type Count struct {
	value  int
	active bool
}

// Reset clears the count.
func (c *Count) Reset() {
	c.value = 0
	c.active = false
}

// AccumulateDigit adds a digit to the count. A leading zero is not a
// count and is rejected.
func (c *Count) AccumulateDigit(digit int) bool {
	if digit < 0 || digit > 9 {
		return false
	}
	if !c.active && digit == 0 {
		return false
	}
	c.active = true

	c.value = min(c.value*10+digit, MaxCount)
	return true
}

// Active reports whether digits have been typed.
func (c *Count) Active() bool {
	return c.active
}

// Get returns the effective count (1 if no count was specified).
func (c *Count) Get() int {
	if c.value <= 0 {
		return 1
	}
	return c.value
}

// Take returns the effective count and resets.
func (c *Count) Take() int {
	n := c.Get()
	c.Reset()
	return n
}

// String returns the typed digits.
func (c *Count) String() string {
	if !c.active {
		return ""
	}
	return strconv.Itoa(c.value)
}
