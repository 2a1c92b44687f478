package traverse

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dshills/keyhint/internal/ax"
	"github.com/dshills/keyhint/internal/geom"
)

var screen = geom.R(0, 0, 1000, 800)

func fr(x, y, w, h float64) *ax.Frame {
	return &ax.Frame{X: x, Y: y, W: w, H: h}
}

func button(title string, x, y float64) *ax.Element {
	return &ax.Element{Role: "AXButton", Title: title, Frame: fr(x, y, 20, 20), Actions: []string{"AXPress"}}
}

func titles(nodes []*ax.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.SearchTerm()
	}
	return out
}

func TestWalkFindsHintableInSortOrder(t *testing.T) {
	tree := ax.NewTree()
	root := tree.Add(&ax.Element{
		Role:  "AXWindow",
		Frame: fr(0, 0, 500, 500),
		Children: []*ax.Element{
			{
				Role:     "AXGroup",
				Frame:    fr(0, 0, 500, 500),
				Children: []*ax.Element{button("c", 300, 10), button("a", 10, 10)},
			},
			button("b", 100, 10),
			{Role: "AXStaticText", Value: "label", Frame: fr(50, 50, 40, 10)},
		},
	})

	w := NewWalker(tree, screen)
	nodes, err := w.Walk(context.Background(), root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	got := titles(nodes)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Walk() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Walk()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWalkPrunesClippedSubtree(t *testing.T) {
	tree := ax.NewTree()
	root := tree.Add(&ax.Element{
		Role:  "AXScrollArea",
		Frame: fr(0, 0, 100, 100),
		Children: []*ax.Element{
			button("visible", 10, 10),
			{
				Role:     "AXList",
				Frame:    fr(200, 200, 50, 50),
				Actions:  []string{"AXPress"},
				Children: []*ax.Element{button("hidden", 210, 210)},
			},
		},
	})

	var stats Stats
	w := NewWalker(tree, screen, WithObserver(func(s Stats) { stats = s }))
	nodes, _ := w.Walk(context.Background(), root)
	if got := titles(nodes); len(got) != 1 || got[0] != "visible" {
		t.Errorf("Walk() = %v, want [visible]", got)
	}
	if stats.Pruned != 1 {
		t.Errorf("Pruned = %d, want 1", stats.Pruned)
	}
}

func TestWalkDescendsIntoUnknownVisibility(t *testing.T) {
	tree := ax.NewTree()
	root := tree.Add(&ax.Element{
		Role:     "AXGroup",
		Children: []*ax.Element{button("inner", 10, 10)},
	})
	nodes, _ := NewWalker(tree, screen).Walk(context.Background(), root)
	if got := titles(nodes); len(got) != 1 || got[0] != "inner" {
		t.Errorf("Walk() = %v, want [inner]", got)
	}
}

func TestWalkTerminatesOnCycle(t *testing.T) {
	tree := ax.NewTree()
	root := tree.Add(&ax.Element{
		Role:     "AXGroup",
		Frame:    fr(0, 0, 500, 500),
		Children: []*ax.Element{{Role: "AXGroup", Frame: fr(0, 0, 400, 400), Children: []*ax.Element{button("x", 10, 10)}}},
	})
	mid, _ := tree.Children(root)
	if err := tree.Link(mid[0], root); err != nil {
		t.Fatal(err)
	}

	var stats Stats
	nodes, _ := NewWalker(tree, screen, WithObserver(func(s Stats) { stats = s })).Walk(context.Background(), root)
	if len(nodes) != 1 {
		t.Errorf("Walk() found %d nodes, want 1", len(nodes))
	}
	if stats.Cycles != 1 {
		t.Errorf("Cycles = %d, want 1", stats.Cycles)
	}
}

func TestWalkToleratesFailedQueries(t *testing.T) {
	tree := ax.NewTree()
	root := tree.Add(&ax.Element{
		Role:  "AXWindow",
		Frame: fr(0, 0, 500, 500),
		Children: []*ax.Element{
			{Role: "AXButton", Broken: true, Children: []*ax.Element{button("lost", 1, 1)}},
			button("ok", 40, 40),
		},
	})
	nodes, err := NewWalker(tree, screen).Walk(context.Background(), root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if got := titles(nodes); len(got) != 1 || got[0] != "ok" {
		t.Errorf("Walk() = %v, want [ok]", got)
	}
}

func TestWalkBoundedPoolDoesNotDeadlock(t *testing.T) {
	// A deep chain with a single worker forces every level inline.
	leaf := button("leaf", 10, 10)
	el := leaf
	for range 200 {
		el = &ax.Element{Role: "AXGroup", Frame: fr(0, 0, 500, 500), Children: []*ax.Element{el}}
	}
	tree := ax.NewTree()
	root := tree.Add(el)

	nodes, _ := NewWalker(tree, screen, WithMaxWorkers(1)).Walk(context.Background(), root)
	if len(nodes) != 1 {
		t.Errorf("Walk() found %d nodes, want 1", len(nodes))
	}
}

func TestWalkWideTreeIsComplete(t *testing.T) {
	var children []*ax.Element
	for i := range 300 {
		children = append(children, button("", float64(i%30)*30, float64(i/30)*30))
	}
	tree := ax.NewTree()
	root := tree.Add(&ax.Element{Role: "AXWindow", Frame: fr(0, 0, 1000, 800), Children: children})

	for _, workers := range []int{1, 4, 64} {
		nodes, _ := NewWalker(tree, screen, WithMaxWorkers(workers)).Walk(context.Background(), root)
		if len(nodes) != 300 {
			t.Errorf("workers=%d: found %d nodes, want 300", workers, len(nodes))
		}
	}
}

func TestWalkCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewWalker(ax.NewTree(), screen).Walk(ctx, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Walk() error = %v, want context.Canceled", err)
	}
}

type hitFunc func(geom.Point) (ax.Handle, bool)

func (f hitFunc) ElementAt(p geom.Point) (ax.Handle, bool) { return f(p) }

func TestProberCachesStatusItems(t *testing.T) {
	tree := ax.NewTree()
	item := tree.Add(&ax.Element{Role: "AXMenuBarItem", Title: "Clock", Frame: fr(900, 0, 60, 22), Actions: []string{"AXPress"}})

	var mu sync.Mutex
	calls := 0
	hit := hitFunc(func(p geom.Point) (ax.Handle, bool) {
		mu.Lock()
		calls++
		mu.Unlock()
		if p.X >= 900 && p.X < 960 {
			return item, true
		}
		return 0, false
	})

	w := NewWalker(tree, screen)
	p, err := NewProber(w, hit, MinProbeInterval, nil)
	if err != nil {
		t.Fatal(err)
	}
	found := -1
	p.OnProbe(func(n int) { found = n })
	if err := p.Probe(context.Background()); err != nil {
		t.Fatal(err)
	}
	snap := p.Snapshot()
	if len(snap) != 1 || snap[0].SearchTerm() != "clock" {
		t.Errorf("Snapshot() = %v", titles(snap))
	}
	if found != 1 {
		t.Errorf("OnProbe found = %d, want 1", found)
	}
	if calls != len(Points(screen)) {
		t.Errorf("hit tests = %d, want %d", calls, len(Points(screen)))
	}
}

func TestProberRejectsShortInterval(t *testing.T) {
	if _, err := NewProber(nil, nil, 5e9, nil); !errors.Is(err, ErrProbeInterval) {
		t.Errorf("NewProber() error = %v, want ErrProbeInterval", err)
	}
}

func TestPoints(t *testing.T) {
	pts := Points(geom.R(0, 0, 100, 50))
	// From x=50 while x+11 < 100: 50, 61, 72, 83.
	if len(pts) != 4 {
		t.Fatalf("Points() = %v", pts)
	}
	if pts[0] != geom.Pt(55.5, 11) {
		t.Errorf("first point = %v, want (55.5,11)", pts[0])
	}
}
