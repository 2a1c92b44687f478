package traverse

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/keyhint/internal/ax"
	"github.com/dshills/keyhint/internal/geom"
)

// Menu bar probing geometry.
const (
	probeStep = 11.0
	probeY    = 11.0
)

// MinProbeInterval is the shortest allowed probing period.
const MinProbeInterval = 10 * time.Second

// ErrProbeInterval is returned for periods below MinProbeInterval.
var ErrProbeInterval = errors.New("menu probe interval must be at least 10s")

// HitTester resolves the element under a screen point.
type HitTester interface {
	ElementAt(p geom.Point) (ax.Handle, bool)
}

// Prober periodically discovers status items in the right half of the
// menu bar, which are not reachable from the frontmost application.
type Prober struct {
	walker   *Walker
	hit      HitTester
	interval time.Duration
	logger   *slog.Logger
	onProbe  func(found int)

	mu    sync.RWMutex
	cache []*ax.Node
}

// NewProber creates a prober. It does nothing until Run or Probe is
// called.
func NewProber(w *Walker, hit HitTester, interval time.Duration, logger *slog.Logger) (*Prober, error) {
	if interval < MinProbeInterval {
		return nil, ErrProbeInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{walker: w, hit: hit, interval: interval, logger: logger}, nil
}

// OnProbe registers a callback run after each probe with the number of
// elements found.
func (p *Prober) OnProbe(fn func(found int)) {
	p.onProbe = fn
}

// Points returns the probe locations for screen: cell centers spaced
// probeStep apart along the menu bar, starting at the horizontal middle.
func Points(screen geom.Rect) []geom.Point {
	var pts []geom.Point
	maxX := screen.MaxX()
	for x := maxX / 2; x+probeStep < maxX; x += probeStep {
		pts = append(pts, geom.Pt(x+probeStep/2, probeY))
	}
	return pts
}

// Probe runs one probing pass and replaces the cache.
func (p *Prober) Probe(ctx context.Context) error {
	seen := make(map[ax.Handle]bool)
	var roots []ax.Handle
	for _, pt := range Points(p.walker.Screen()) {
		h, ok := p.hit.ElementAt(pt)
		if !ok || seen[h] {
			continue
		}
		seen[h] = true
		roots = append(roots, h)
	}
	nodes, err := p.walker.Walk(ctx, roots...)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.cache = nodes
	p.mu.Unlock()
	p.logger.Debug("menu probe", "roots", len(roots), "found", len(nodes))
	if p.onProbe != nil {
		p.onProbe(len(nodes))
	}
	return nil
}

// Snapshot returns the nodes found by the latest probe.
func (p *Prober) Snapshot() []*ax.Node {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*ax.Node(nil), p.cache...)
}

// Run probes immediately and then on every tick until ctx is done.
func (p *Prober) Run(ctx context.Context) error {
	if err := p.Probe(ctx); err != nil {
		return err
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.Probe(ctx); err != nil && ctx.Err() == nil {
				p.logger.Warn("menu probe failed", "error", err)
			}
		}
	}
}
