package sim

import (
	"fmt"
	"sync"

	"github.com/dshills/keyhint/internal/geom"
	"github.com/dshills/keyhint/internal/input/key"
	"github.com/dshills/keyhint/internal/input/mouse"
	"github.com/dshills/keyhint/internal/platform"
)

// Kind classifies a recorded pointer event.
type Kind uint8

const (
	KindMove Kind = iota + 1
	KindButton
	KindClick
	KindScroll
)

// Posted is one recorded synthetic event.
type Posted struct {
	Kind   Kind
	At     geom.Point
	Drag   bool
	Button mouse.Button
	Down   bool
	Count  int
	Mods   key.Modifier
	Scroll mouse.ScrollDelta
}

// String renders the event for logs and CLI output.
func (p Posted) String() string {
	switch p.Kind {
	case KindMove:
		if p.Drag {
			return fmt.Sprintf("drag %v", p.At)
		}
		return fmt.Sprintf("move %v", p.At)
	case KindButton:
		dir := "up"
		if p.Down {
			dir = "down"
		}
		return fmt.Sprintf("%s %s %v", p.Button, dir, p.At)
	case KindClick:
		return fmt.Sprintf("%s click x%d %v %s", p.Button, p.Count, p.At, p.Mods)
	case KindScroll:
		return fmt.Sprintf("scroll dy=%d dx=%d", p.Scroll.DY, p.Scroll.DX)
	}
	return "unknown"
}

// Recorder implements platform.Poster and platform.Overlay by recording.
type Recorder struct {
	mu       sync.Mutex
	location geom.Point
	posted   []Posted

	hints   *platform.HintFrame
	grid    *platform.GridFrame
	pointer *platform.PointerFrame
	frames  int

	// OnPost, when set, is called after every recorded event.
	OnPost func(Posted)
}

// NewRecorder creates a recorder with the pointer at start.
func NewRecorder(start geom.Point) *Recorder {
	return &Recorder{location: start}
}

func (r *Recorder) record(p Posted) {
	r.mu.Lock()
	r.posted = append(r.posted, p)
	hook := r.OnPost
	r.mu.Unlock()
	if hook != nil {
		hook(p)
	}
}

// Move implements platform.Poster.
func (r *Recorder) Move(p geom.Point, drag bool) {
	r.mu.Lock()
	r.location = p
	r.mu.Unlock()
	r.record(Posted{Kind: KindMove, At: p, Drag: drag})
}

// Button implements platform.Poster.
func (r *Recorder) Button(p geom.Point, b mouse.Button, down bool, mods key.Modifier) {
	r.record(Posted{Kind: KindButton, At: p, Button: b, Down: down, Mods: mods})
}

// Click implements platform.Poster.
func (r *Recorder) Click(p geom.Point, b mouse.Button, count int, mods key.Modifier) {
	r.mu.Lock()
	r.location = p
	r.mu.Unlock()
	r.record(Posted{Kind: KindClick, At: p, Button: b, Count: count, Mods: mods})
}

// Scroll implements platform.Poster.
func (r *Recorder) Scroll(d mouse.ScrollDelta) {
	r.record(Posted{Kind: KindScroll, Scroll: d})
}

// Location implements platform.Poster.
func (r *Recorder) Location() geom.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// Posted returns every recorded event.
func (r *Recorder) Posted() []Posted {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Posted(nil), r.posted...)
}

// Clicks returns the recorded click events.
func (r *Recorder) Clicks() []Posted {
	var out []Posted
	for _, p := range r.Posted() {
		if p.Kind == KindClick {
			out = append(out, p)
		}
	}
	return out
}

// Hints implements platform.Overlay.
func (r *Recorder) Hints(f platform.HintFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hints = &f
	r.frames++
}

// HideHints implements platform.Overlay.
func (r *Recorder) HideHints() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hints = nil
}

// Grid implements platform.Overlay.
func (r *Recorder) Grid(f platform.GridFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grid = &f
	r.frames++
}

// HideGrid implements platform.Overlay.
func (r *Recorder) HideGrid() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grid = nil
}

// Pointer implements platform.Overlay.
func (r *Recorder) Pointer(f platform.PointerFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pointer = &f
	r.frames++
}

// HidePointer implements platform.Overlay.
func (r *Recorder) HidePointer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pointer = nil
}

// HintFrame returns the visible hint frame.
func (r *Recorder) HintFrame() (platform.HintFrame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hints == nil {
		return platform.HintFrame{}, false
	}
	return *r.hints, true
}

// GridFrame returns the visible grid frame.
func (r *Recorder) GridFrame() (platform.GridFrame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.grid == nil {
		return platform.GridFrame{}, false
	}
	return *r.grid, true
}

// PointerFrame returns the visible pointer frame.
func (r *Recorder) PointerFrame() (platform.PointerFrame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pointer == nil {
		return platform.PointerFrame{}, false
	}
	return *r.pointer, true
}

// Frames returns how many frames were drawn.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}
