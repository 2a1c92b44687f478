// Package sim is an in-memory desktop. It loads a window, a menu bar and
// status items from a YAML fixture, records every synthetic event and
// overlay frame, and can replay a scripted key sequence.
package sim

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dshills/keyhint/internal/ax"
	"github.com/dshills/keyhint/internal/geom"
	"github.com/dshills/keyhint/internal/platform"
)

// ErrUnknownLayout is returned when selecting a layout the fixture does
// not list.
var ErrUnknownLayout = errors.New("unknown keyboard layout")

// DefaultScreen is used when a fixture omits the screen.
var DefaultScreen = ax.Frame{W: 1440, H: 900}

// Fixture is the YAML description of a simulated desktop.
type Fixture struct {
	Screen      ax.Frame      `yaml:"screen"`
	Window      *ax.Element   `yaml:"window"`
	MenuBar     *ax.Element   `yaml:"menu_bar"`
	StatusItems []*ax.Element `yaml:"status_items"`
	Layouts     []string      `yaml:"layouts"`
	Layout      string        `yaml:"layout"`
	Fonts       []string      `yaml:"fonts"`
	Pointer     [2]float64    `yaml:"pointer"`

	// Keys is a scripted key sequence: binding strings, or "wait:<dur>".
	Keys []string `yaml:"keys"`
}

// Parse decodes a fixture.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}
	if f.Screen.W <= 0 || f.Screen.H <= 0 {
		f.Screen = DefaultScreen
	}
	return &f, nil
}

// Load reads a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	return Parse(data)
}

// Desktop implements platform.Desktop, platform.Fonts and layout.Source
// over an ax.Tree.
type Desktop struct {
	*ax.Tree

	screen  geom.Rect
	window  ax.Handle
	menuBar ax.Handle
	fonts   []string

	mu      sync.Mutex
	layouts []string
	current string
}

// NewDesktop builds a desktop from f.
func NewDesktop(f *Fixture) *Desktop {
	d := &Desktop{
		Tree:    ax.NewTree(),
		screen:  f.Screen.Rect(),
		fonts:   f.Fonts,
		layouts: f.Layouts,
		current: f.Layout,
	}
	if f.Window != nil {
		d.window = d.Add(f.Window)
	}
	if f.MenuBar != nil {
		d.menuBar = d.Add(f.MenuBar)
	}
	for _, item := range f.StatusItems {
		d.Add(item)
	}
	if d.current == "" && len(d.layouts) > 0 {
		d.current = d.layouts[0]
	}
	return d
}

// Screen implements platform.Desktop.
func (d *Desktop) Screen() geom.Rect { return d.screen }

// FrontWindow implements platform.Desktop.
func (d *Desktop) FrontWindow() (ax.Handle, bool) { return d.window, d.window != 0 }

// MenuBar implements platform.Desktop.
func (d *Desktop) MenuBar() (ax.Handle, bool) { return d.menuBar, d.menuBar != 0 }

// ElementAt implements platform.Desktop.
func (d *Desktop) ElementAt(p geom.Point) (ax.Handle, bool) { return d.HitTest(p) }

// Families implements platform.Fonts.
func (d *Desktop) Families() []string { return append([]string(nil), d.fonts...) }

// Current implements layout.Source.
func (d *Desktop) Current() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Select implements layout.Source.
func (d *Desktop) Select(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, l := range d.layouts {
		if l == id {
			d.current = id
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownLayout, id)
}

// List implements layout.Source.
func (d *Desktop) List() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.layouts...)
}

// New assembles a platform from a fixture. Keys replays the fixture's
// scripted key sequence.
func New(f *Fixture) (*platform.Platform, *Desktop, *Recorder) {
	desk := NewDesktop(f)
	rec := NewRecorder(geom.Pt(f.Pointer[0], f.Pointer[1]))
	return &platform.Platform{
		Desktop: desk,
		Poster:  rec,
		Overlay: rec,
		Layouts: desk,
		Keys:    NewScript(f.Keys),
		Fonts:   desk,
	}, desk, rec
}
