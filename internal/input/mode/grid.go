package mode

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keyhint/internal/ax"
	"github.com/dshills/keyhint/internal/geom"
	"github.com/dshills/keyhint/internal/hint"
	"github.com/dshills/keyhint/internal/input/key"
	"github.com/dshills/keyhint/internal/input/keymap"
	"github.com/dshills/keyhint/internal/input/mouse"
	"github.com/dshills/keyhint/internal/platform"
)

// Grid defaults.
const (
	DefaultGridRows    = 36
	DefaultGridCols    = 36
	DefaultDoubleClick = 500 * time.Millisecond
)

// jiggleOffset is how far the pointer wiggles when a drag starts.
const jiggleOffset = 5.0

// GridOptions configure grid sessions.
type GridOptions struct {
	// Select is consulted while a cell label is typed.
	Select *keymap.Keymap

	// Pointer is consulted during pointer control.
	Pointer *keymap.Keymap

	// Labels generates cell labels.
	Labels *hint.Generator

	Rows int
	Cols int

	// CursorStep is the pointer move distance per count.
	CursorStep float64

	ScrollVertical   int
	ScrollHorizontal int
	ScrollPage       int

	// DoubleClick is the window in which clicks form a sequence.
	DoubleClick time.Duration

	// Jiggle wiggles the pointer after the button goes down so that
	// applications register the drag.
	Jiggle bool
}

// GridController runs grid mode: cell selection followed by pointer
// control.
type GridController struct {
	host Host
	deps Deps
	opts GridOptions

	state  State
	clicks *mouse.ClickCounter

	// session fields
	id       uuid.UUID
	started  time.Time
	logger   *slog.Logger
	frame    platform.GridFrame
	focus    *geom.Rect
	reopened bool
}

// NewGridController creates an idle grid controller.
func NewGridController(host Host, deps Deps, opts GridOptions) *GridController {
	c := &GridController{host: host, deps: deps.withDefaults()}
	c.Configure(opts)
	c.state.Reset()
	return c
}

// Configure replaces the options. A new click interval applies from the
// next session.
func (c *GridController) Configure(opts GridOptions) {
	if opts.Rows <= 0 {
		opts.Rows = DefaultGridRows
	}
	if opts.Cols <= 0 {
		opts.Cols = DefaultGridCols
	}
	if opts.DoubleClick <= 0 {
		opts.DoubleClick = DefaultDoubleClick
	}
	c.opts = opts
	if !c.Active() {
		c.clicks = mouse.NewClickCounter(c.host, opts.DoubleClick)
	}
}

// Name implements Controller.
func (c *GridController) Name() string { return ModeGrid }

// Active implements Controller.
func (c *GridController) Active() bool { return c.state.Phase != PhaseIdle }

// State returns a copy of the controller state.
func (c *GridController) State() State { return c.state }

// Reopened reports whether the grid was reopened from pointer control.
func (c *GridController) Reopened() bool { return c.reopened }

// Trigger implements Controller.
func (c *GridController) Trigger(a keymap.Action, _ key.Event) {
	switch a {
	case keymap.ActionShowGrid:
		if c.state.Phase == PhaseNarrowing {
			return
		}
		c.begin()
		c.reopened = false
		c.showGrid()
	case keymap.ActionStartScroll:
		h, ok := c.deps.Desktop.FrontWindow()
		if !ok {
			c.deps.Logger.Debug("no front window, scroll not started")
			return
		}
		bounds, ok := ax.Load(c.deps.Desktop, h).Bounds()
		if !ok {
			c.deps.Logger.Debug("front window has no frame, scroll not started")
			return
		}
		c.begin()
		c.focus = &bounds
		c.deps.Overlay.HideGrid()
		c.enterPointer(bounds.Center())
	}
}

// begin opens a session unless one is open.
func (c *GridController) begin() {
	if c.Active() {
		return
	}
	c.id = uuid.New()
	c.started = time.Now()
	c.logger = c.deps.Logger.With("mode", ModeGrid, "session", c.id.String())
	c.state.Reset()
	c.deps.Layout.Capture()
	c.host.Listen(c)
	c.deps.Observer.SessionStarted(ModeGrid)
	c.logger.Debug("session opened")
}

func (c *GridController) showGrid() {
	screen := c.deps.Desktop.Screen()
	n := c.opts.Rows * c.opts.Cols
	c.frame = platform.GridFrame{
		Bounds:   screen,
		Rows:     c.opts.Rows,
		Cols:     c.opts.Cols,
		Labels:   c.opts.Labels.Labels(n),
		Matching: n,
	}
	c.state.Phase = PhaseNarrowing
	c.state.Typed = ""
	c.state.Count.Reset()
	c.deps.Overlay.HidePointer()
	c.deps.Overlay.Grid(c.frame)
}

// enterPointer moves the pointer to p and starts pointer control.
func (c *GridController) enterPointer(p geom.Point) {
	c.state.Phase = PhaseListening
	c.state.Typed = ""
	c.deps.Poster.Move(p, c.state.Drag.Active())
	c.renderPointer()
}

// HandleKey implements Controller.
func (c *GridController) HandleKey(ev key.Event) {
	switch c.state.Phase {
	case PhaseNarrowing:
		c.handleSelect(ev)
	case PhaseListening:
		c.handlePointer(ev)
	}
}

func (c *GridController) handleSelect(ev key.Event) {
	if a, ok := c.opts.Select.Resolve(ev); ok && a == keymap.ActionClose {
		if !c.reopened {
			c.finish(OutcomeCancelled)
			return
		}
		c.reopened = false
		c.deps.Overlay.HideGrid()
		c.state.Phase = PhaseListening
		c.state.Typed = ""
		c.renderPointer()
		return
	}

	r, ok := ev.Char()
	if !ok {
		return
	}
	c.state.Typed += strings.ToLower(string(r))
	count, first := hint.CountPrefixed(c.frame.Labels, c.state.Typed)
	switch count {
	case 0:
		c.logger.Debug("no cell matches", "typed", c.state.Typed)
		c.finish(OutcomeCancelled)
	case 1:
		cell := c.frame.Cell(first)
		c.logger.Debug("cell selected", "label", c.frame.Labels[first], "cell", cell.String())
		c.reopened = false
		c.focus = nil
		c.deps.Overlay.HideGrid()
		c.enterPointer(cell.Center())
	default:
		c.frame.Typed = c.state.Typed
		c.frame.Matching = count
		c.deps.Overlay.Grid(c.frame)
	}
}

func (c *GridController) handlePointer(ev key.Event) {
	if d, ok := ev.Digit(); ok && c.state.Count.AccumulateDigit(d) {
		c.renderPointer()
		return
	}
	a, ok := c.opts.Pointer.Resolve(ev)
	if !ok {
		return
	}
	if fn, ok := pointerActions[a]; ok {
		fn(c, ev)
	}
}

// pointerActions dispatches the bound keys of pointer control.
var pointerActions = map[keymap.Action]func(*GridController, key.Event){
	keymap.ActionClose:          func(c *GridController, _ key.Event) { c.finish(OutcomeCommitted) },
	keymap.ActionMoveLeft:       func(c *GridController, _ key.Event) { c.move(mouse.Left) },
	keymap.ActionMoveDown:       func(c *GridController, _ key.Event) { c.move(mouse.Down) },
	keymap.ActionMoveUp:         func(c *GridController, _ key.Event) { c.move(mouse.Up) },
	keymap.ActionMoveRight:      func(c *GridController, _ key.Event) { c.move(mouse.Right) },
	keymap.ActionScrollLeft:     func(c *GridController, _ key.Event) { c.scroll(mouse.Left, c.opts.ScrollHorizontal) },
	keymap.ActionScrollDown:     func(c *GridController, _ key.Event) { c.scroll(mouse.Down, c.opts.ScrollVertical) },
	keymap.ActionScrollUp:       func(c *GridController, _ key.Event) { c.scroll(mouse.Up, c.opts.ScrollVertical) },
	keymap.ActionScrollRight:    func(c *GridController, _ key.Event) { c.scroll(mouse.Right, c.opts.ScrollHorizontal) },
	keymap.ActionScrollPageDown: func(c *GridController, _ key.Event) { c.scroll(mouse.Down, c.opts.ScrollPage) },
	keymap.ActionScrollPageUp:   func(c *GridController, _ key.Event) { c.scroll(mouse.Up, c.opts.ScrollPage) },
	keymap.ActionScrollFullDown: func(c *GridController, _ key.Event) { c.scrollFull(mouse.Down) },
	keymap.ActionScrollFullUp:   func(c *GridController, _ key.Event) { c.scrollFull(mouse.Up) },
	keymap.ActionToggleDrag:     (*GridController).toggleDrag,
	keymap.ActionReopenGrid:     (*GridController).reopenGrid,
	keymap.ActionRightClick:     (*GridController).rightClick,
	keymap.ActionLeftClick:      (*GridController).leftClick,
}

func (c *GridController) move(d mouse.Direction) {
	n := c.state.Count.Take()
	p := mouse.Move(c.deps.Poster.Location(), d, c.opts.CursorStep*float64(n), c.deps.Desktop.Screen())
	c.deps.Poster.Move(p, c.state.Drag.Active())
	c.renderPointer()
}

func (c *GridController) scroll(d mouse.Direction, size int) {
	n := c.state.Count.Take()
	c.deps.Poster.Scroll(mouse.Scroll(d, scrollLines(size, n)))
	c.renderPointer()
}

// scrollLines multiplies size by n, saturating at mouse.FullScroll.
func scrollLines(size, n int) int {
	if size > 0 && n > mouse.FullScroll/size {
		return mouse.FullScroll
	}
	return size * n
}

func (c *GridController) scrollFull(d mouse.Direction) {
	c.state.Count.Reset()
	c.deps.Poster.Scroll(mouse.Scroll(d, mouse.FullScroll))
	c.renderPointer()
}

func (c *GridController) toggleDrag(ev key.Event) {
	p := c.deps.Poster.Location()
	if c.state.Drag.End() {
		c.deps.Poster.Button(p, mouse.ButtonLeft, false, ev.Modifiers)
		c.renderPointer()
		return
	}
	c.state.Drag.Start(p)
	c.deps.Poster.Button(p, mouse.ButtonLeft, true, ev.Modifiers)
	if c.opts.Jiggle {
		screen := c.deps.Desktop.Screen()
		c.deps.Poster.Move(screen.Clamp(p.Add(geom.Pt(jiggleOffset, jiggleOffset))), true)
		c.deps.Poster.Move(p, true)
	}
	c.renderPointer()
}

func (c *GridController) reopenGrid(key.Event) {
	c.showGrid()
	c.reopened = true
}

func (c *GridController) rightClick(ev key.Event) {
	c.deps.Poster.Click(c.deps.Poster.Location(), mouse.ButtonRight, 1, ev.Modifiers)
}

func (c *GridController) leftClick(ev key.Event) {
	c.state.Drag.End()
	n := c.clicks.Click()
	c.deps.Poster.Click(c.deps.Poster.Location(), mouse.ButtonLeft, n, ev.Modifiers)
	c.renderPointer()
}

// Close implements Controller.
func (c *GridController) Close() {
	if c.Active() {
		c.finish(OutcomeCancelled)
	}
}

// finish restores the keyboard, releases a held button and hides both
// overlays. The listener is released before it returns.
func (c *GridController) finish(outcome Outcome) {
	c.deps.Layout.Restore()
	if c.state.Drag.End() {
		c.deps.Poster.Button(c.deps.Poster.Location(), mouse.ButtonLeft, false, 0)
	}
	c.clicks.Reset()
	c.deps.Overlay.HideGrid()
	c.deps.Overlay.HidePointer()
	c.host.Release(c)
	c.state.Reset()
	c.frame = platform.GridFrame{}
	c.focus = nil
	c.reopened = false

	elapsed := time.Since(c.started)
	c.deps.Observer.SessionEnded(ModeGrid, outcome, elapsed)
	if c.logger != nil {
		c.logger.Debug("session closed", "outcome", string(outcome), "elapsed", elapsed)
	}
	c.clicks = mouse.NewClickCounter(c.host, c.opts.DoubleClick)
}

func (c *GridController) renderPointer() {
	c.deps.Overlay.Pointer(platform.PointerFrame{
		At:       c.deps.Poster.Location(),
		Dragging: c.state.Drag.Active(),
		Count:    c.state.Count.String(),
		Focus:    c.focus,
	})
}
