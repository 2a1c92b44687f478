package traverse

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/keyhint/internal/ax"
	"github.com/dshills/keyhint/internal/geom"
)

// DefaultMaxWorkers bounds traversal fan-out when no limit is configured.
const DefaultMaxWorkers = 64

// Stats summarizes one Walk.
type Stats struct {
	Roots    int
	Visited  int64
	Pruned   int64
	Cycles   int64
	Hintable int
	Elapsed  time.Duration
}

// Observer receives the stats of every completed Walk.
type Observer func(Stats)

// Walker runs discovery passes over one accessibility client.
type Walker struct {
	client     ax.Client
	screen     geom.Rect
	flags      ax.Flags
	maxWorkers int
	observer   Observer
	logger     *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithFlags sets hintability and visibility flags.
func WithFlags(f ax.Flags) Option {
	return func(w *Walker) {
		w.flags = f
	}
}

// WithMaxWorkers bounds the number of concurrent walk tasks.
func WithMaxWorkers(n int) Option {
	return func(w *Walker) {
		if n > 0 {
			w.maxWorkers = n
		}
	}
}

// WithObserver registers a stats callback.
func WithObserver(o Observer) Option {
	return func(w *Walker) {
		w.observer = o
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Walker) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWalker creates a walker over client clipping against screen.
func NewWalker(client ax.Client, screen geom.Rect, opts ...Option) *Walker {
	w := &Walker{
		client:     client,
		screen:     screen,
		maxWorkers: DefaultMaxWorkers,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Screen returns the frame the walker clips against.
func (w *Walker) Screen() geom.Rect {
	return w.screen
}

// pass holds the state shared by all tasks of one Walk.
type pass struct {
	w     *Walker
	group errgroup.Group

	mu    sync.Mutex
	found []*ax.Node

	visited atomic.Int64
	pruned  atomic.Int64
	cycles  atomic.Int64
}

// Walk discovers hintable elements under roots. ctx is consulted only
// before the pass starts; a pass in flight always runs to completion.
func (w *Walker) Walk(ctx context.Context, roots ...ax.Handle) ([]*ax.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	p := &pass{w: w}
	p.group.SetLimit(w.maxWorkers)
	for _, root := range roots {
		p.spawn(root, nil)
	}
	// Tasks never return errors.
	_ = p.group.Wait()

	ax.Sort(p.found)
	stats := Stats{
		Roots:    len(roots),
		Visited:  p.visited.Load(),
		Pruned:   p.pruned.Load(),
		Cycles:   p.cycles.Load(),
		Hintable: len(p.found),
		Elapsed:  time.Since(start),
	}
	w.logger.Debug("traversal complete",
		"roots", stats.Roots,
		"visited", stats.Visited,
		"pruned", stats.Pruned,
		"hintable", stats.Hintable,
		"elapsed", stats.Elapsed)
	if w.observer != nil {
		w.observer(stats)
	}
	return p.found, nil
}

func (p *pass) spawn(h ax.Handle, ancestors []*ax.Node) {
	task := func() error {
		p.visit(h, ancestors)
		return nil
	}
	if !p.group.TryGo(task) {
		_ = task()
	}
}

func (p *pass) visit(h ax.Handle, ancestors []*ax.Node) {
	for _, a := range ancestors {
		if a.Handle() == h {
			p.cycles.Add(1)
			return
		}
	}
	p.visited.Add(1)

	n := ax.Load(p.w.client, h)
	if visible, known := n.Visible(p.w.screen, ancestors, p.w.flags); known && !visible {
		p.pruned.Add(1)
		return
	}

	chain := make([]*ax.Node, len(ancestors), len(ancestors)+1)
	copy(chain, ancestors)
	chain = append(chain, n)
	for _, child := range n.Children() {
		p.spawn(child, chain)
	}

	if n.Hintable(p.w.flags) {
		p.mu.Lock()
		p.found = append(p.found, n)
		p.mu.Unlock()
	}
}
