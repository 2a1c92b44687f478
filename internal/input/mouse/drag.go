package mouse

import "github.com/dshills/keyhint/internal/geom"

// Drag tracks whether the primary button is held by pointer control.
type Drag struct {
	active   bool
	startPos geom.Point
}

// Start begins a drag at pos.
func (d *Drag) Start(pos geom.Point) {
	d.active = true
	d.startPos = pos
}

// End ends the drag. It reports whether a drag was active.
func (d *Drag) End() bool {
	was := d.active
	d.active = false
	d.startPos = geom.Point{}
	return was
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool {
	return d.active
}

// StartPos returns where the active drag began.
func (d *Drag) StartPos() geom.Point {
	return d.startPos
}
