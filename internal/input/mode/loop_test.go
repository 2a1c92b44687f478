package mode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dshills/keyhint/internal/input/key"
	"github.com/dshills/keyhint/internal/input/keymap"
)

type stubController struct {
	name     string
	host     Host
	active   bool
	triggers []keymap.Action
	keys     []key.Event
	closed   int
}

func (s *stubController) Name() string { return s.name }

func (s *stubController) Trigger(a keymap.Action, _ key.Event) {
	s.triggers = append(s.triggers, a)
	s.active = true
	s.host.Listen(s)
}

func (s *stubController) HandleKey(ev key.Event) { s.keys = append(s.keys, ev) }

func (s *stubController) Active() bool { return s.active }

func (s *stubController) Close() {
	if !s.active {
		return
	}
	s.active = false
	s.closed++
	s.host.Release(s)
}

func startLoop(t *testing.T, l *Loop) (cancel func() error) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()
	return func() error {
		stop()
		select {
		case err := <-errc:
			return err
		case <-time.After(time.Second):
			t.Fatal("loop did not stop")
			return nil
		}
	}
}

func newTestLoop() (*Loop, *stubController, *stubController) {
	l := NewLoop(keymap.Default(testHintChars).Trigger, nil)
	hints := &stubController{name: ModeHints, host: l}
	grid := &stubController{name: ModeGrid, host: l}
	l.Register(hints, keymap.ActionShowHints)
	l.Register(grid, keymap.ActionShowGrid, keymap.ActionStartScroll)
	return l, hints, grid
}

func TestLoopPassesThroughWhenIdle(t *testing.T) {
	l, hints, _ := newTestLoop()
	stop := startLoop(t, l)
	defer stop()

	if l.Dispatch(press("j")) {
		t.Error("unbound key should pass through while idle")
	}
	if len(hints.keys) != 0 {
		t.Error("no controller should see the key")
	}
}

func TestLoopTriggersNeedExactModifiers(t *testing.T) {
	l, hints, grid := newTestLoop()
	stop := startLoop(t, l)
	defer stop()

	for _, spec := range []string{".", "j", ",", "<S>.", "<D>j"} {
		if l.Dispatch(press(spec)) {
			t.Errorf("%s should pass through while idle", spec)
		}
	}
	if len(hints.triggers) != 0 || len(grid.triggers) != 0 {
		t.Fatalf("triggers fired: hints %v grid %v", hints.triggers, grid.triggers)
	}

	l.Dispatch(press("<S><D>j"))
	for _, spec := range []string{"j", "."} {
		if !l.Dispatch(press(spec)) {
			t.Errorf("%s should be swallowed while grid listens", spec)
		}
	}
	if len(grid.keys) != 2 || grid.closed != 0 {
		t.Errorf("grid keys = %v closed = %d", grid.keys, grid.closed)
	}
	if len(hints.triggers) != 0 {
		t.Errorf("hint triggers = %v", hints.triggers)
	}
}

func TestLoopRoutesTriggersAndKeys(t *testing.T) {
	l, hints, grid := newTestLoop()
	stop := startLoop(t, l)
	defer stop()

	if !l.Dispatch(press("<S><D>.")) {
		t.Fatal("trigger should be swallowed")
	}
	if len(hints.triggers) != 1 || hints.triggers[0] != keymap.ActionShowHints {
		t.Fatalf("hint triggers = %v", hints.triggers)
	}
	if !l.Dispatch(press("j")) {
		t.Error("keys should be swallowed while a mode listens")
	}
	if len(hints.keys) != 1 || hints.keys[0].Key != key.KeyJ {
		t.Errorf("hint keys = %v", hints.keys)
	}
	if len(grid.keys) != 0 || len(grid.triggers) != 0 {
		t.Error("grid should not see keys")
	}
}

func TestLoopTriggerOfOtherModeClosesListener(t *testing.T) {
	l, hints, grid := newTestLoop()
	stop := startLoop(t, l)
	defer stop()

	l.Dispatch(press("<S><D>."))
	l.Dispatch(press("<S><D>j"))

	if hints.closed != 1 || hints.active {
		t.Errorf("hints closed = %d active = %v", hints.closed, hints.active)
	}
	if len(grid.triggers) != 1 || grid.triggers[0] != keymap.ActionStartScroll {
		t.Errorf("grid triggers = %v", grid.triggers)
	}

	l.Dispatch(press("<S><D>,"))
	if grid.closed != 0 {
		t.Error("a trigger of the listening mode must not close it")
	}
}

func TestLoopOnChange(t *testing.T) {
	l, _, _ := newTestLoop()
	var changes []string
	l.OnChange(func(from, to string) {
		changes = append(changes, from+">"+to)
	})
	stop := startLoop(t, l)

	l.Dispatch(press("<S><D>."))
	l.Dispatch(press("<S><D>,"))
	if err := stop(); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}

	want := []string{">hints", "hints>", ">grid", "grid>"}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("changes[%d] = %q, want %q", i, changes[i], want[i])
		}
	}
}

func TestLoopStopsDispatch(t *testing.T) {
	l, _, _ := newTestLoop()
	stop := startLoop(t, l)
	_ = stop()

	if l.Dispatch(press("<S><D>.")) {
		t.Error("Dispatch after stop should report not swallowed")
	}
	if err := l.Run(context.Background()); !errors.Is(err, ErrLoopRunning) {
		t.Errorf("second Run() error = %v", err)
	}
}

func TestLoopTimers(t *testing.T) {
	l, _, _ := newTestLoop()
	stop := startLoop(t, l)
	defer stop()

	fired := make(chan struct{})
	l.AfterFunc(time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	stopped := make(chan struct{}, 1)
	tm := l.AfterFunc(time.Hour, func() { stopped <- struct{}{} })
	if !tm.Stop() {
		t.Error("Stop() before the deadline should report true")
	}
}

func TestLoopGoReturnsToLoop(t *testing.T) {
	l, _, _ := newTestLoop()
	stop := startLoop(t, l)
	defer stop()

	done := make(chan string, 1)
	l.Post(func() {
		l.Go(func(ctx context.Context) func() {
			if ctx == nil {
				return nil
			}
			return func() { done <- l.Listening() }
		})
	})
	select {
	case got := <-done:
		if got != "" {
			t.Errorf("Listening() = %q, want idle", got)
		}
	case <-time.After(time.Second):
		t.Fatal("result was not delivered")
	}
	l.Wait()
}
