package mode

import (
	"context"
	"testing"
	"time"

	"github.com/dshills/keyhint/internal/hint"
	"github.com/dshills/keyhint/internal/input/key"
	"github.com/dshills/keyhint/internal/input/keymap"
	"github.com/dshills/keyhint/internal/input/mouse"
	"github.com/dshills/keyhint/internal/layout"
	"github.com/dshills/keyhint/internal/platform/sim"
)

const testHintChars = "jklhgasdfweruio"

const desktopFixture = `
screen: {x: 0, y: 0, w: 1000, h: 800}
layouts: [com.apple.keylayout.Russian, com.apple.keylayout.ABC]
layout: com.apple.keylayout.Russian
pointer: [500, 400]
window:
  role: AXWindow
  frame: {x: 0, y: 30, w: 800, h: 600}
  children:
    - role: AXButton
      title: Save
      frame: {x: 20, y: 60, w: 60, h: 20}
      actions: [AXPress]
    - role: AXButton
      title: Open File
      frame: {x: 120, y: 60, w: 60, h: 20}
      actions: [AXPress]
    - role: AXButton
      title: Quit
      frame: {x: 220, y: 60, w: 60, h: 20}
      actions: [AXPress]
`

// fakeHost runs work inline. With async set, results are queued until
// flush.
type fakeHost struct {
	listener Controller
	async    bool
	pending  []func()
	timers   []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (h *fakeHost) Listen(c Controller) { h.listener = c }

func (h *fakeHost) Release(c Controller) {
	if h.listener == c {
		h.listener = nil
	}
}

func (h *fakeHost) Go(work func(ctx context.Context) func()) {
	then := work(context.Background())
	if then == nil {
		return
	}
	if h.async {
		h.pending = append(h.pending, then)
		return
	}
	then()
}

func (h *fakeHost) AfterFunc(d time.Duration, fn func()) mouse.Timer {
	t := &fakeTimer{d: d, fn: fn}
	h.timers = append(h.timers, t)
	return t
}

// flush delivers queued results in order.
func (h *fakeHost) flush() {
	pending := h.pending
	h.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// fire runs the last live timer.
func (h *fakeHost) fire() bool {
	for i := len(h.timers) - 1; i >= 0; i-- {
		t := h.timers[i]
		if !t.stopped {
			t.stopped = true
			t.fn()
			return true
		}
	}
	return false
}

type session struct {
	mode    string
	outcome Outcome
}

type fakeObserver struct {
	started []string
	ended   []session
}

func (o *fakeObserver) SessionStarted(mode string) {
	o.started = append(o.started, mode)
}

func (o *fakeObserver) SessionEnded(mode string, outcome Outcome, _ time.Duration) {
	o.ended = append(o.ended, session{mode, outcome})
}

func (o *fakeObserver) last() Outcome {
	if len(o.ended) == 0 {
		return ""
	}
	return o.ended[len(o.ended)-1].outcome
}

type harness struct {
	host *fakeHost
	desk *sim.Desktop
	rec  *sim.Recorder
	obs  *fakeObserver
	keys *keymap.Set
	gen  *hint.Generator
	deps Deps
}

func newHarness(t *testing.T, fixture string) *harness {
	t.Helper()
	f, err := sim.Parse([]byte(fixture))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p, desk, rec := sim.New(f)
	gen, err := hint.NewGenerator(testHintChars)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	h := &harness{
		host: &fakeHost{},
		desk: desk,
		rec:  rec,
		obs:  &fakeObserver{},
		keys: keymap.Default(testHintChars),
		gen:  gen,
	}
	h.deps = Deps{
		Desktop:  p.Desktop,
		Poster:   p.Poster,
		Overlay:  p.Overlay,
		Layout:   layout.NewSwitcher(p.Layouts, "com.apple.keylayout.ABC", nil),
		Observer: h.obs,
	}
	return h
}

func press(spec string) key.Event {
	return key.NewEvent(key.MustParse(spec))
}

// typeKeys sends each binding string to c.
func typeKeys(c Controller, specs ...string) {
	for _, s := range specs {
		c.HandleKey(press(s))
	}
}
