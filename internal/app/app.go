// Package app is the composition root of keyhint. It loads the
// configuration, builds a platform, wires the hint and grid controllers
// onto the control loop and runs them until the key source stops.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/keyhint/internal/ax"
	"github.com/dshills/keyhint/internal/config"
	"github.com/dshills/keyhint/internal/config/watcher"
	"github.com/dshills/keyhint/internal/input/keymap"
	"github.com/dshills/keyhint/internal/input/mode"
	"github.com/dshills/keyhint/internal/layout"
	"github.com/dshills/keyhint/internal/logging"
	"github.com/dshills/keyhint/internal/metrics"
	"github.com/dshills/keyhint/internal/platform"
	"github.com/dshills/keyhint/internal/platform/sim"
	"github.com/dshills/keyhint/internal/platform/term"
	"github.com/dshills/keyhint/internal/script"
	"github.com/dshills/keyhint/internal/traverse"
)

// Platform names accepted by Options.Platform.
const (
	PlatformSim  = "sim"
	PlatformTerm = "term"
)

// Application owns every long lived component.
type Application struct {
	mu sync.Mutex

	opts   Options
	logger *slog.Logger

	store    *config.Store
	platform *platform.Platform
	metrics  *metrics.Metrics
	filter   *script.Filter
	watcher  *watcher.Watcher
	prober   *traverse.Prober

	loop  *mode.Loop
	hints *mode.HintController
	grid  *mode.GridController

	unsubscribe func()
	cancel      context.CancelFunc

	running atomic.Bool
	closed  bool
}

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses config.Path().
	ConfigPath string

	// Platform is PlatformSim or PlatformTerm. Empty means PlatformTerm.
	Platform string

	// Fixture is the YAML desktop the platform simulates. Empty gives a
	// bare desktop.
	Fixture string

	// LogLevel overrides log_level when set.
	LogLevel string

	// LogOutput receives log records. Nil means stderr for the sim
	// platform and nothing for the terminal, which owns the screen.
	LogOutput io.Writer

	// Config is passed to every configuration load.
	Config []config.Option
}

// New creates an Application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Platform == "" {
		opts.Platform = PlatformTerm
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.Path()
	}
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Logging, first with the override so config errors are visible.
	out := app.opts.LogOutput
	if out == nil {
		out = os.Stderr
		if app.opts.Platform == PlatformTerm {
			out = io.Discard
		}
	}
	app.logger = logging.New(logging.Config{Level: app.opts.LogLevel, Format: logging.FormatText, Output: out})

	// 2. Config
	cfgOpts := append([]config.Option{config.WithLogger(logging.Component(app.logger, "config"))}, app.opts.Config...)
	cfg, err := config.Load(app.opts.ConfigPath, cfgOpts...)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	level := cfg.Settings.LogLevel
	if app.opts.LogLevel != "" {
		level = app.opts.LogLevel
	}
	app.logger = logging.New(logging.Config{Level: level, Format: cfg.Settings.LogFormat, Output: out})

	// 3. Platform
	app.platform, err = app.buildPlatform(cfg)
	if err != nil {
		return &InitError{Component: "platform", Err: err}
	}
	if err := cfg.CheckFont(app.platform.Fonts.Families()); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.store = config.NewStore(cfg)

	// 4. Metrics
	app.metrics = metrics.New()

	// 5. Hint filter script
	if path := cfg.Settings.HintFilterScript; path != "" {
		app.filter, err = script.Load(path, script.WithLogger(logging.Component(app.logger, "script")))
		if err != nil {
			return &InitError{Component: "hint filter", Err: err}
		}
	}

	// 6. Controllers on the control loop
	app.loop = mode.NewLoop(cfg.Keys.Trigger, logging.Component(app.logger, "loop"))
	deps := mode.Deps{
		Desktop:  app.platform.Desktop,
		Poster:   app.platform.Poster,
		Overlay:  app.platform.Overlay,
		Layout:   layout.NewSwitcher(app.platform.Layouts, cfg.Settings.ABCLayout, logging.Component(app.logger, "layout")),
		Logger:   app.logger,
		Observer: app.metrics,
		Walks:    app.observeWalk,
	}
	app.hints = mode.NewHintController(app.loop, deps, hintOptions(cfg, app.filterFunc()))
	app.grid = mode.NewGridController(app.loop, deps, gridOptions(cfg))
	app.loop.Register(app.hints, keymap.ActionShowHints)
	app.loop.Register(app.grid, keymap.ActionShowGrid, keymap.ActionStartScroll)
	app.loop.OnChange(func(from, to string) {
		app.logger.Debug("mode changed", "from", from, "to", to)
	})

	// 7. Menu bar prober
	if cfg.Settings.ShowMenuItem && cfg.Settings.SystemMenuPoll > 0 {
		w := traverse.NewWalker(app.platform.Desktop, app.platform.Desktop.Screen(),
			traverse.WithFlags(cfg.Settings.Flags()),
			traverse.WithMaxWorkers(cfg.Settings.MaxTraversalWorkers),
			traverse.WithLogger(logging.Component(app.logger, "prober")),
		)
		app.prober, err = traverse.NewProber(w, app.platform.Desktop, cfg.Settings.ProbeInterval(), logging.Component(app.logger, "prober"))
		if err != nil {
			return &InitError{Component: "prober", Err: err}
		}
		app.prober.OnProbe(app.metrics.ObserveProbe)
		app.hints.SetMenuCache(app.prober)
	}

	// 8. Live reload
	app.unsubscribe = app.store.Subscribe(app.reconfigure)
	if cfg.Found {
		app.watcher, err = config.Watch(app.store, app.opts.ConfigPath, logging.Component(app.logger, "config"), app.opts.Config...)
		if err != nil {
			app.logger.Warn("config file not watched", "path", app.opts.ConfigPath, "err", err)
		}
	}
	return nil
}

// buildPlatform creates the platform named in the options.
func (app *Application) buildPlatform(cfg *config.Config) (*platform.Platform, error) {
	f, err := app.fixture()
	if err != nil {
		return nil, err
	}
	switch app.opts.Platform {
	case PlatformSim:
		p, _, _ := sim.New(f)
		return p, nil
	case PlatformTerm:
		screen, err := term.NewScreen()
		if err != nil {
			return nil, err
		}
		return term.NewPlatform(f, screen, style(cfg.Colors), logging.Component(app.logger, "term"))
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownPlatform, app.opts.Platform)
}

func (app *Application) fixture() (*sim.Fixture, error) {
	if app.opts.Fixture == "" {
		return sim.Parse(nil)
	}
	return sim.Load(app.opts.Fixture)
}

func (app *Application) filterFunc() func([]*ax.Node) []*ax.Node {
	if app.filter == nil {
		return nil
	}
	return app.filter.Apply
}

// observeWalk records a hint traversal.
func (app *Application) observeWalk(s traverse.Stats) {
	app.metrics.ObserveWalk(s)
	if app.store.Get().Settings.DebugPerf {
		app.logger.Info("traversal",
			"elapsed", s.Elapsed,
			"visited", s.Visited,
			"pruned", s.Pruned,
			"hintable", s.Hintable,
		)
	}
}

// reconfigure applies a reloaded configuration. Open sessions keep the
// options they started with.
func (app *Application) reconfigure(cfg *config.Config) {
	app.loop.SetTriggers(cfg.Keys.Trigger)
	hints, grid := hintOptions(cfg, app.filterFunc()), gridOptions(cfg)
	app.loop.Post(func() {
		app.hints.Configure(hints)
		app.grid.Configure(grid)
	})
}

// Run dispatches keys from the platform to the controllers until the key
// source returns, ctx is done or Shutdown is called. An interrupted key
// source is a normal exit.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.mu.Lock()
	app.cancel = cancel
	app.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ignoreCanceled(app.loop.Run(gctx)) })
	if app.prober != nil {
		g.Go(func() error { return ignoreCanceled(app.prober.Run(gctx)) })
	}
	if addr := app.store.Get().Settings.MetricsAddr; addr != "" {
		g.Go(func() error {
			return app.metrics.Serve(gctx, addr, logging.Component(app.logger, "metrics"))
		})
	}

	app.logger.Info("keyhint running", "platform", app.opts.Platform, "config", app.opts.ConfigPath)
	err := app.platform.Keys.Run(gctx, app.loop.Dispatch)
	cancel()
	if werr := g.Wait(); werr != nil && ignoreCanceled(err) == nil {
		err = werr
	}
	app.loop.Wait()

	if errors.Is(err, term.ErrInterrupted) {
		err = nil
	}
	return ignoreCanceled(err)
}

// Shutdown stops a running application.
func (app *Application) Shutdown() error {
	if !app.running.Load() {
		return ErrNotRunning
	}
	app.mu.Lock()
	cancel := app.cancel
	app.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

// Close releases the watcher, the script state and the platform. It is
// safe to call more than once.
func (app *Application) Close() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return nil
	}
	app.closed = true

	var errs ErrorList
	if app.unsubscribe != nil {
		app.unsubscribe()
	}
	if app.watcher != nil {
		app.watcher.Stop()
	}
	if app.filter != nil {
		app.filter.Close()
	}
	if app.platform != nil {
		if err := app.platform.Shutdown(); err != nil {
			errs.Add(&ComponentError{Component: "platform", Action: "shutdown", Err: err})
		}
	}
	return errs.AsError()
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Store returns the live configuration.
func (app *Application) Store() *config.Store {
	return app.store
}

// Platform returns the platform the application drives.
func (app *Application) Platform() *platform.Platform {
	return app.platform
}

// Metrics returns the application metrics.
func (app *Application) Metrics() *metrics.Metrics {
	return app.metrics
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
