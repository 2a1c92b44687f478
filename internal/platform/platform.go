// Package platform defines the collaborators the mode controllers drive:
// the accessibility tree, the synthetic input poster, the overlay
// renderer, the keyboard layout service and the key event source.
//
// Two implementations live in subpackages: sim, an in-memory desktop
// loaded from a YAML fixture, and term, which draws overlays and reads
// keys in a terminal.
package platform

import (
	"context"
	"errors"

	"github.com/dshills/keyhint/internal/ax"
	"github.com/dshills/keyhint/internal/geom"
	"github.com/dshills/keyhint/internal/input/key"
	"github.com/dshills/keyhint/internal/input/mouse"
	"github.com/dshills/keyhint/internal/layout"
)

// ErrUnsupported is returned for platforms this build cannot drive.
var ErrUnsupported = errors.New("platform not supported")

// Desktop exposes the accessibility tree of the running session.
type Desktop interface {
	ax.Client

	// Screen returns the main screen frame.
	Screen() geom.Rect

	// FrontWindow returns the main window of the frontmost application.
	FrontWindow() (ax.Handle, bool)

	// MenuBar returns the menu bar of the frontmost application.
	MenuBar() (ax.Handle, bool)

	// ElementAt hit-tests the whole system at p.
	ElementAt(p geom.Point) (ax.Handle, bool)
}

// Poster injects synthetic pointer events.
type Poster interface {
	Move(p geom.Point, drag bool)
	Button(p geom.Point, b mouse.Button, down bool, mods key.Modifier)
	Click(p geom.Point, b mouse.Button, count int, mods key.Modifier)
	Scroll(d mouse.ScrollDelta)
	Location() geom.Point
}

// HintLabel is one label drawn by the hint overlay.
type HintLabel struct {
	Text   string
	Anchor geom.Point

	// Hidden labels no longer match the typed input.
	Hidden bool

	// Selected marks the fuzzy search highlight.
	Selected bool
}

// HintFrame is the full hint overlay state.
type HintFrame struct {
	Labels  []HintLabel
	Typed   string
	Search  bool
	Loading bool

	// Lowered draws the labels below other windows.
	Lowered bool
}

// GridFrame is the full grid overlay state.
type GridFrame struct {
	Bounds   geom.Rect
	Rows     int
	Cols     int
	Labels   []string
	Typed    string
	Matching int
}

// Cell returns the frame of the cell at index i.
func (g GridFrame) Cell(i int) geom.Rect {
	w := g.Bounds.Width() / float64(g.Cols)
	h := g.Bounds.Height() / float64(g.Rows)
	row, col := i/g.Cols, i%g.Cols
	return geom.R(g.Bounds.MinX()+float64(col)*w, g.Bounds.MinY()+float64(row)*h, w, h)
}

// PointerFrame is the pointer marker state.
type PointerFrame struct {
	At       geom.Point
	Dragging bool
	Count    string

	// Focus outlines the window pointer control started on.
	Focus *geom.Rect
}

// Overlay renders mode feedback. Calls replace the previous frame of the
// same kind.
type Overlay interface {
	Hints(f HintFrame)
	HideHints()
	Grid(f GridFrame)
	HideGrid()
	Pointer(f PointerFrame)
	HidePointer()
}

// KeySource delivers global key events. Run calls handle for every key
// down and swallows the event when handle returns true. Run returns when
// ctx is done or the source fails.
type KeySource interface {
	Run(ctx context.Context, handle func(key.Event) bool) error
}

// Fonts lists installed font families.
type Fonts interface {
	Families() []string
}

// Platform bundles one implementation of every collaborator.
type Platform struct {
	Desktop Desktop
	Poster  Poster
	Overlay Overlay
	Layouts layout.Source
	Keys    KeySource
	Fonts   Fonts

	// Close releases platform resources.
	Close func() error
}

// Shutdown calls Close when set.
func (p *Platform) Shutdown() error {
	if p.Close == nil {
		return nil
	}
	return p.Close()
}
