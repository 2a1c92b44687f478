// Package term previews keyhint in a terminal. The simulated desktop is
// scaled onto the terminal grid, overlays are drawn with tcell and keys
// are read from the terminal.
package term

import (
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/keyhint/internal/geom"
	"github.com/dshills/keyhint/internal/platform"
)

// Style holds the overlay colours.
type Style struct {
	HintBG      colorful.Color
	HintFG      colorful.Color
	Pointer     colorful.Color
	PointerDrag colorful.Color
	Outline     colorful.Color
}

// DefaultStyle matches the default configuration colours.
func DefaultStyle() Style {
	return Style{
		HintBG:      colorful.Color{R: 0xe6 / 255.0, G: 0xd2 / 255.0, B: 0x78 / 255.0},
		HintFG:      colorful.Color{},
		Pointer:     colorful.Color{R: 1},
		PointerDrag: colorful.Color{B: 1},
		Outline:     colorful.Color{B: 1},
	}
}

// Terminal implements platform.Overlay and platform.KeySource on a tcell
// screen.
type Terminal struct {
	mu      sync.Mutex
	screen  tcell.Screen
	desktop geom.Rect
	style   Style
	logger  *slog.Logger

	hints   *platform.HintFrame
	grid    *platform.GridFrame
	pointer *platform.PointerFrame
	status  string
}

// NewScreen opens the controlling terminal.
func NewScreen() (tcell.Screen, error) {
	return tcell.NewScreen()
}

// New creates a terminal drawing a desktop of the given size on screen.
func New(screen tcell.Screen, desktop geom.Rect, style Style, logger *slog.Logger) *Terminal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Terminal{screen: screen, desktop: desktop, style: style, logger: logger}
}

// Init initializes the screen.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	t.redraw()
	return nil
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// SetStatus shows s on the last terminal row.
func (t *Terminal) SetStatus(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = s
	t.redraw()
}

// Hints implements platform.Overlay.
func (t *Terminal) Hints(f platform.HintFrame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.hints = &f
	t.redraw()
}

// HideHints implements platform.Overlay.
func (t *Terminal) HideHints() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.hints = nil
	t.redraw()
}

// Grid implements platform.Overlay.
func (t *Terminal) Grid(f platform.GridFrame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.grid = &f
	t.redraw()
}

// HideGrid implements platform.Overlay.
func (t *Terminal) HideGrid() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.grid = nil
	t.redraw()
}

// Pointer implements platform.Overlay.
func (t *Terminal) Pointer(f platform.PointerFrame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pointer = &f
	t.redraw()
}

// HidePointer implements platform.Overlay.
func (t *Terminal) HidePointer() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pointer = nil
	t.redraw()
}

// toCell maps a desktop point to a terminal cell.
func (t *Terminal) toCell(p geom.Point) (int, int) {
	w, h := t.screen.Size()
	if w <= 0 || h <= 0 || t.desktop.Width() <= 0 || t.desktop.Height() <= 0 {
		return 0, 0
	}
	x := int((p.X - t.desktop.MinX()) / t.desktop.Width() * float64(w))
	y := int((p.Y - t.desktop.MinY()) / t.desktop.Height() * float64(h-1))
	return min(max(x, 0), w-1), min(max(y, 0), h-2)
}

// redraw paints every visible frame. Callers hold mu.
func (t *Terminal) redraw() {
	t.screen.Clear()
	if t.pointer != nil && t.pointer.Focus != nil {
		t.drawOutline(*t.pointer.Focus)
	}
	if t.grid != nil {
		t.drawGrid(*t.grid)
	}
	if t.hints != nil {
		t.drawHints(*t.hints)
	}
	if t.pointer != nil {
		t.drawPointer(*t.pointer)
	}
	_, h := t.screen.Size()
	t.drawText(0, h-1, t.status, tcell.StyleDefault.Reverse(true))
	t.screen.Show()
}

func (t *Terminal) drawHints(f platform.HintFrame) {
	if f.Loading {
		t.drawText(0, 0, "loading hints…", tcell.StyleDefault.Bold(true))
		return
	}
	st := tcell.StyleDefault.Background(color(t.style.HintBG)).Foreground(color(t.style.HintFG))
	if f.Lowered {
		st = st.Dim(true)
	}
	for _, l := range f.Labels {
		if l.Hidden {
			continue
		}
		x, y := t.toCell(l.Anchor)
		s := st
		if l.Selected {
			s = s.Reverse(true)
		}
		t.drawText(x, y, l.Text, s)
	}
	if f.Search {
		t.drawText(0, 0, "/"+f.Typed, tcell.StyleDefault.Bold(true))
	}
}

func (t *Terminal) drawGrid(f platform.GridFrame) {
	st := tcell.StyleDefault.Background(color(t.style.HintBG)).Foreground(color(t.style.HintFG))
	last := [2]int{-1, -1}
	for i, label := range f.Labels {
		if len(f.Typed) > 0 && (len(label) < len(f.Typed) || label[:len(f.Typed)] != f.Typed) {
			continue
		}
		x, y := t.toCell(f.Cell(i).Center())
		// Several cells share a terminal cell when the grid is denser
		// than the terminal.
		if [2]int{x, y} == last {
			continue
		}
		last = [2]int{x, y}
		t.drawText(x, y, label[len(f.Typed):], st)
	}
}

func (t *Terminal) drawPointer(f platform.PointerFrame) {
	c := t.style.Pointer
	if f.Dragging {
		c = t.style.PointerDrag
	}
	x, y := t.toCell(f.At)
	st := tcell.StyleDefault.Foreground(color(c)).Bold(true)
	t.screen.SetContent(x, y, '+', nil, st)
	if f.Count != "" {
		t.drawText(x+1, y, f.Count, st)
	}
}

func (t *Terminal) drawOutline(r geom.Rect) {
	st := tcell.StyleDefault.Foreground(color(t.style.Outline))
	x0, y0 := t.toCell(r.Origin)
	x1, y1 := t.toCell(geom.Pt(r.MaxX(), r.MaxY()))
	for x := x0; x <= x1; x++ {
		t.screen.SetContent(x, y0, tcell.RuneHLine, nil, st)
		t.screen.SetContent(x, y1, tcell.RuneHLine, nil, st)
	}
	for y := y0; y <= y1; y++ {
		t.screen.SetContent(x0, y, tcell.RuneVLine, nil, st)
		t.screen.SetContent(x1, y, tcell.RuneVLine, nil, st)
	}
	t.screen.SetContent(x0, y0, tcell.RuneULCorner, nil, st)
	t.screen.SetContent(x1, y0, tcell.RuneURCorner, nil, st)
	t.screen.SetContent(x0, y1, tcell.RuneLLCorner, nil, st)
	t.screen.SetContent(x1, y1, tcell.RuneLRCorner, nil, st)
}

func (t *Terminal) drawText(x, y int, s string, st tcell.Style) {
	w, _ := t.screen.Size()
	for _, r := range s {
		if x >= w {
			return
		}
		t.screen.SetContent(x, y, r, nil, st)
		x++
	}
}

// color converts a colour to a tcell true colour.
func color(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
