package mouse

// FullScroll is the wheel distance used to reach either end of a view.
const FullScroll = 99999

// ScrollDelta is a wheel displacement in lines. Positive values scroll
// content toward the top and left, matching wheel conventions.
type ScrollDelta struct {
	DY int
	DX int
}

// Scroll returns the wheel delta that moves the view n lines in d.
// Moving the view down reveals content below, so the wheel turns the
// opposite way to the pointer offset.
func Scroll(d Direction, n int) ScrollDelta {
	off := d.Offset(float64(n))
	return ScrollDelta{DY: -int(off.Y), DX: -int(off.X)}
}

// IsZero reports whether the delta scrolls nothing.
func (s ScrollDelta) IsZero() bool {
	return s.DY == 0 && s.DX == 0
}
