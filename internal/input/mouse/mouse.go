package mouse

import (
	"github.com/dshills/keyhint/internal/geom"
)

// Button identifies a mouse button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary button.
	ButtonLeft
	// ButtonRight is the secondary button.
	ButtonRight
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// Direction is one of the four motion directions.
type Direction uint8

const (
	Left Direction = iota
	Down
	Up
	Right
)

// String returns a string representation of the direction.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Down:
		return "down"
	case Up:
		return "up"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Offset returns a screen-space displacement of n units in d.
func (d Direction) Offset(n float64) geom.Point {
	switch d {
	case Left:
		return geom.Pt(-n, 0)
	case Right:
		return geom.Pt(n, 0)
	case Up:
		return geom.Pt(0, -n)
	case Down:
		return geom.Pt(0, n)
	}
	return geom.Point{}
}

// Move returns p displaced n units in d and clamped to bounds.
func Move(p geom.Point, d Direction, n float64, bounds geom.Rect) geom.Point {
	return bounds.Clamp(p.Add(d.Offset(n)))
}
