package mode

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/keyhint/internal/input/key"
	"github.com/dshills/keyhint/internal/input/keymap"
	"github.com/dshills/keyhint/internal/input/mouse"
)

// ErrLoopRunning is returned when Run is called twice.
var ErrLoopRunning = errors.New("control loop already running")

// Host is the part of the Loop a controller uses.
type Host interface {
	mouse.Scheduler

	// Listen makes c the receiver of all non-trigger keys.
	Listen(c Controller)

	// Release removes c as the key receiver if it is one.
	Release(c Controller)

	// Go runs work off the loop. The func it returns, if any, runs on
	// the loop afterwards.
	Go(work func(ctx context.Context) func())
}

// ChangeCallback is called when the listening mode changes. An empty
// name means no mode owns the keyboard.
type ChangeCallback func(from, to string)

type keyRequest struct {
	ev    key.Event
	reply chan bool
}

// Loop serialises key events, timer callbacks and traversal results on
// one goroutine.
type Loop struct {
	logger *slog.Logger

	triggers *keymap.Keymap
	routes   map[keymap.Action]Controller
	listener Controller

	callbacks []ChangeCallback

	keys    chan keyRequest
	funcs   chan func()
	done    chan struct{}
	running atomic.Bool
	ctx     context.Context
	work    sync.WaitGroup
}

// NewLoop creates a loop resolving triggers against the given keymap.
func NewLoop(triggers *keymap.Keymap, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		logger:   logger,
		triggers: triggers,
		routes:   make(map[keymap.Action]Controller),
		keys:     make(chan keyRequest),
		funcs:    make(chan func(), 64),
		done:     make(chan struct{}),
		ctx:      context.Background(),
	}
}

// Register routes trigger actions to c. Call before Run.
func (l *Loop) Register(c Controller, actions ...keymap.Action) {
	for _, a := range actions {
		l.routes[a] = c
	}
}

// OnChange registers a callback for listener changes. Call before Run.
func (l *Loop) OnChange(cb ChangeCallback) {
	l.callbacks = append(l.callbacks, cb)
}

// SetTriggers replaces the trigger keymap. It runs on the loop.
func (l *Loop) SetTriggers(km *keymap.Keymap) {
	l.Post(func() { l.triggers = km })
}

// Run processes work until ctx is done. An open controller is closed
// before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	l.ctx = ctx
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			if l.listener != nil {
				l.listener.Close()
			}
			return ctx.Err()
		case r := <-l.keys:
			r.reply <- l.handle(r.ev)
		case fn := <-l.funcs:
			fn()
		}
	}
}

// Wait blocks until background work started through Go has finished.
func (l *Loop) Wait() {
	l.work.Wait()
}

// Dispatch hands ev to the loop and reports whether it was swallowed. It
// blocks until the loop handled the event and returns false once the loop
// has stopped.
func (l *Loop) Dispatch(ev key.Event) bool {
	r := keyRequest{ev: ev, reply: make(chan bool, 1)}
	select {
	case l.keys <- r:
	case <-l.done:
		return false
	}
	select {
	case swallowed := <-r.reply:
		return swallowed
	case <-l.done:
		return false
	}
}

// Post queues fn to run on the loop. It is dropped once the loop stopped.
func (l *Loop) Post(fn func()) {
	select {
	case l.funcs <- fn:
	case <-l.done:
	}
}

func (l *Loop) handle(ev key.Event) bool {
	if l.triggers != nil {
		if a, ok := l.triggers.Resolve(ev); ok {
			if c, ok := l.routes[a]; ok {
				if l.listener != nil && l.listener != c {
					l.listener.Close()
				}
				l.logger.Debug("trigger", "action", a.String(), "mode", c.Name())
				c.Trigger(a, ev)
				return true
			}
		}
	}
	if l.listener != nil {
		l.listener.HandleKey(ev)
		return true
	}
	return false
}

// Listen implements Host.
func (l *Loop) Listen(c Controller) {
	if l.listener == c {
		return
	}
	prev := l.listener
	l.listener = c
	l.notify(prev, c)
}

// Release implements Host.
func (l *Loop) Release(c Controller) {
	if l.listener != c {
		return
	}
	l.listener = nil
	l.notify(c, nil)
}

// Listening returns the name of the mode owning the keyboard.
func (l *Loop) Listening() string {
	return name(l.listener)
}

func (l *Loop) notify(from, to Controller) {
	for _, cb := range l.callbacks {
		cb(name(from), name(to))
	}
}

func name(c Controller) string {
	if c == nil {
		return ""
	}
	return c.Name()
}

// Go implements Host.
func (l *Loop) Go(work func(ctx context.Context) func()) {
	ctx := l.ctx
	l.work.Add(1)
	go func() {
		defer l.work.Done()
		if then := work(ctx); then != nil {
			l.Post(then)
		}
	}()
}

// AfterFunc implements mouse.Scheduler. fn runs on the loop unless the
// timer was stopped first.
func (l *Loop) AfterFunc(d time.Duration, fn func()) mouse.Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped.Load() {
				return
			}
			fn()
		})
	})
	return t
}

// loopTimer skips a fire that was already queued when Stop was called.
type loopTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.stopped.Store(true)
	return t.timer.Stop()
}
