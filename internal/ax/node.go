package ax

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dshills/keyhint/internal/geom"
)

// Flags tune hintability and visibility decisions.
type Flags struct {
	// HintText makes static text elements hintable.
	HintText bool

	// RoleBased restricts hints to the fixed role allow-list instead of
	// inspecting element actions.
	RoleBased bool

	// TraverseHidden keeps zero-sized elements once clipping passes.
	TraverseHidden bool
}

var hintableRoles = map[string]struct{}{
	"AXButton":             {},
	"AXComboBox":           {},
	"AXCheckBox":           {},
	"AXRadioButton":        {},
	"AXLink":               {},
	"AXImage":              {},
	"AXCell":               {},
	"AXMenuBarItem":        {},
	"AXMenuItem":           {},
	"AXMenuBar":            {},
	"AXPopUpButton":        {},
	"AXTextField":          {},
	"AXSlider":             {},
	"AXTabGroup":           {},
	"AXTabButton":          {},
	"AXTable":              {},
	"AXOutline":            {},
	"AXRow":                {},
	"AXColumn":             {},
	"AXScrollBar":          {},
	"AXSwitch":             {},
	"AXToolbar":            {},
	"AXDisclosureTriangle": {},
}

var ignoredActions = map[string]struct{}{
	"AXShowMenu":        {},
	"AXScrollToVisible": {},
	"AXShowDefaultUI":   {},
	"AXShowAlternateUI": {},
}

// Node is one accessibility element loaded for a single pass. Role and
// bounds are read once on Load; other attributes are fetched on demand.
type Node struct {
	handle Handle
	client Client

	role      string
	hasRole   bool
	bounds    geom.Rect
	hasBounds bool

	searchOnce sync.Once
	searchTerm string
}

// Load reads the role and bounds of h.
func Load(c Client, h Handle) *Node {
	n := &Node{handle: h, client: c}
	n.role, n.hasRole = stringAttr(c, h, AttrRole)
	n.bounds, n.hasBounds = boundsAttr(c, h)
	return n
}

// Handle returns the element reference.
func (n *Node) Handle() Handle { return n.handle }

// Role returns the element role.
func (n *Node) Role() (string, bool) { return n.role, n.hasRole }

// Bounds returns the element frame in screen coordinates.
func (n *Node) Bounds() (geom.Rect, bool) { return n.bounds, n.hasBounds }

// ActionPoint returns the point a click on this element targets.
func (n *Node) ActionPoint() (geom.Point, bool) {
	if !n.hasBounds {
		return geom.Point{}, false
	}
	return n.bounds.Center(), true
}

// Children returns child handles. A failed query yields no children.
func (n *Node) Children() []Handle {
	children, err := n.client.Children(n.handle)
	if err != nil {
		return nil
	}
	return children
}

// SearchTerm returns the lowercase, whitespace-free text used by fuzzy
// search: the first non-empty of value, description and title.
func (n *Node) SearchTerm() string {
	n.searchOnce.Do(func() {
		for _, attr := range []string{AttrValue, AttrDescription, AttrTitle} {
			s, ok := stringAttr(n.client, n.handle, attr)
			if !ok || s == "" {
				continue
			}
			n.searchTerm = normalize(s)
			return
		}
	})
	return n.searchTerm
}

// Normalize lowercases s and strips whitespace. Typed fuzzy queries go
// through the same function as search terms.
func Normalize(s string) string {
	return normalize(s)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}

// Hintable reports whether the element should receive a hint.
func (n *Node) Hintable(f Flags) bool {
	if !n.hasRole || !n.hasBounds {
		return false
	}
	if n.bounds.Height() <= 1 || n.bounds.Width() <= 1 {
		return false
	}
	if f.HintText && n.role == "AXStaticText" {
		return true
	}
	if f.RoleBased {
		_, ok := hintableRoles[n.role]
		return ok
	}
	switch n.role {
	case "AXImage", "AXCell":
		return true
	case "AXWindow", "AXScrollArea":
		return false
	}
	actions, err := n.client.Actions(n.handle)
	if err != nil {
		return false
	}
	for _, a := range actions {
		if _, ignored := ignoredActions[a]; !ignored {
			return true
		}
	}
	return false
}

// Visible reports whether the element is on screen given its ancestor
// chain, nearest ancestor last. known is false when role or bounds are
// absent; callers should then keep descending.
func (n *Node) Visible(screen geom.Rect, ancestors []*Node, f Flags) (visible, known bool) {
	if !n.hasRole || !n.hasBounds {
		return false, false
	}
	b := n.bounds
	if b.Height() == screen.Height() || b.Width() == screen.Width() {
		return true, true
	}
	if n.role != "AXGroup" && n.role != "AXMenu" && len(ancestors) > 0 {
		minMaxX, minMaxY := geom.Unbounded.MaxX(), geom.Unbounded.MaxY()
		maxMinX, maxMinY := geom.Unbounded.MinX(), geom.Unbounded.MinY()
		for _, a := range ancestors {
			r := geom.Unbounded
			if a.hasBounds && a.role != "AXGroup" {
				r = a.bounds
			}
			minMaxX = min(minMaxX, r.MaxX())
			minMaxY = min(minMaxY, r.MaxY())
			maxMinX = max(maxMinX, r.MinX())
			maxMinY = max(maxMinY, r.MinY())
		}
		if minMaxX-b.MinX() <= 1 || minMaxY-b.MinY() <= 1 {
			return false, true
		}
		if b.MaxX()-maxMinX <= 1 || b.MaxY()-maxMinY <= 1 {
			return false, true
		}
	}
	if f.TraverseHidden {
		return true, true
	}
	return b.Height() > 1 && b.Width() > 1, true
}

// SortKey returns the ordering key of the node: edges, role, then
// search term.
func (n *Node) SortKey() string {
	b := n.bounds
	return fmt.Sprintf("%g,%g,%g,%g,%s,%s", b.MinX(), b.MaxX(), b.MinY(), b.MaxY(), n.role, n.SearchTerm())
}

// Compare orders nodes by the fields of SortKey, comparing edges
// numerically.
func Compare(a, b *Node) int {
	ab, bb := a.bounds, b.bounds
	if c := cmp.Compare(ab.MinX(), bb.MinX()); c != 0 {
		return c
	}
	if c := cmp.Compare(ab.MaxX(), bb.MaxX()); c != 0 {
		return c
	}
	if c := cmp.Compare(ab.MinY(), bb.MinY()); c != 0 {
		return c
	}
	if c := cmp.Compare(ab.MaxY(), bb.MaxY()); c != 0 {
		return c
	}
	if c := strings.Compare(a.role, b.role); c != 0 {
		return c
	}
	return strings.Compare(a.SearchTerm(), b.SearchTerm())
}

// Sort orders nodes in place by Compare. Equal keys keep their relative
// order.
func Sort(nodes []*Node) {
	slices.SortStableFunc(nodes, Compare)
}

// Describe renders the node for debug logs.
func (n *Node) Describe() string {
	parts := []string{n.role}
	for _, attr := range []string{AttrTitle, AttrValue, AttrDescription, AttrLabel} {
		if s, ok := stringAttr(n.client, n.handle, attr); ok && s != "" {
			parts = append(parts, s)
		}
	}
	if n.hasBounds {
		parts = append(parts, n.bounds.String())
	}
	return strings.Join(parts, " ")
}
