package ax

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/keyhint/internal/geom"
)

// ErrUnknownHandle is returned by Tree for handles it never issued.
var ErrUnknownHandle = errors.New("unknown element handle")

// ErrQueryFailed is returned by Tree for elements marked Broken.
var ErrQueryFailed = errors.New("accessibility query failed")

// Frame is a serializable rectangle.
type Frame struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Rect converts f to a geom.Rect.
func (f Frame) Rect() geom.Rect {
	return geom.R(f.X, f.Y, f.W, f.H)
}

// Element describes one element of an in-memory tree.
type Element struct {
	Role        string     `yaml:"role"`
	Title       string     `yaml:"title,omitempty"`
	Value       string     `yaml:"value,omitempty"`
	Description string     `yaml:"description,omitempty"`
	Frame       *Frame     `yaml:"frame,omitempty"`
	Actions     []string   `yaml:"actions,omitempty"`
	Children    []*Element `yaml:"children,omitempty"`

	// Broken makes every query on the element fail.
	Broken bool `yaml:"broken,omitempty"`
}

type entry struct {
	el       *Element
	children []Handle
}

// Tree is an in-memory Client. It backs the simulated desktop and tests.
type Tree struct {
	mu      sync.RWMutex
	entries map[Handle]*entry
	next    Handle
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{entries: make(map[Handle]*entry)}
}

// Add registers el and its descendants and returns the handle of el.
func (t *Tree) Add(el *Element) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.add(el)
}

func (t *Tree) add(el *Element) Handle {
	t.next++
	h := t.next
	e := &entry{el: el}
	t.entries[h] = e
	for _, c := range el.Children {
		e.children = append(e.children, t.add(c))
	}
	return h
}

// Link appends child to the children of parent. It can create cycles,
// which live accessibility trees occasionally report.
func (t *Tree) Link(parent, child Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[parent]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, parent)
	}
	if _, ok := t.entries[child]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, child)
	}
	e.children = append(e.children, child)
	return nil
}

// Element returns the description registered under h.
func (t *Tree) Element(h Handle) (*Element, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[h]
	if !ok {
		return nil, false
	}
	return e.el, true
}

// Handles returns every registered handle in registration order.
func (t *Tree) Handles() []Handle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Handle, 0, len(t.entries))
	for h := Handle(1); h <= t.next; h++ {
		if _, ok := t.entries[h]; ok {
			out = append(out, h)
		}
	}
	return out
}

func (t *Tree) lookup(h Handle) (*entry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	if e.el.Broken {
		return nil, ErrQueryFailed
	}
	return e, nil
}

// Attribute implements Client.
func (t *Tree) Attribute(h Handle, name string) (any, error) {
	e, err := t.lookup(h)
	if err != nil {
		return nil, err
	}
	el := e.el
	var s string
	switch name {
	case AttrRole:
		s = el.Role
	case AttrTitle:
		s = el.Title
	case AttrValue:
		s = el.Value
	case AttrDescription:
		s = el.Description
	case AttrPosition:
		if el.Frame == nil {
			return nil, ErrNoValue
		}
		return el.Frame.Rect().Origin, nil
	case AttrSize:
		if el.Frame == nil {
			return nil, ErrNoValue
		}
		return el.Frame.Rect().Size, nil
	}
	if s == "" {
		return nil, ErrNoValue
	}
	return s, nil
}

// Children implements Client.
func (t *Tree) Children(h Handle) ([]Handle, error) {
	e, err := t.lookup(h)
	if err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Handle(nil), e.children...), nil
}

// Actions implements Client.
func (t *Tree) Actions(h Handle) ([]string, error) {
	e, err := t.lookup(h)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), e.el.Actions...), nil
}

// HitTest returns the deepest registered element whose frame contains p.
// Later registrations win among elements of equal depth.
func (t *Tree) HitTest(p geom.Point) (Handle, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var (
		best      Handle
		bestDepth = -1
	)
	var visit func(h Handle, depth int, seen map[Handle]bool)
	visit = func(h Handle, depth int, seen map[Handle]bool) {
		if seen[h] {
			return
		}
		seen[h] = true
		e := t.entries[h]
		if e.el.Frame == nil || !e.el.Frame.Rect().Contains(p) {
			return
		}
		if depth >= bestDepth {
			best, bestDepth = h, depth
		}
		for _, c := range e.children {
			visit(c, depth+1, seen)
		}
	}
	for _, root := range t.roots() {
		visit(root, 0, map[Handle]bool{})
	}
	return best, bestDepth >= 0
}

// roots returns handles that are nobody's child. Callers hold mu.
func (t *Tree) roots() []Handle {
	isChild := make(map[Handle]bool)
	for _, e := range t.entries {
		for _, c := range e.children {
			isChild[c] = true
		}
	}
	var out []Handle
	for h := Handle(1); h <= t.next; h++ {
		if _, ok := t.entries[h]; ok && !isChild[h] {
			out = append(out, h)
		}
	}
	return out
}
