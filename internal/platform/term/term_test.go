package term

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyhint/internal/geom"
	"github.com/dshills/keyhint/internal/input/key"
	"github.com/dshills/keyhint/internal/platform"
	"github.com/dshills/keyhint/internal/platform/sim"
)

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	term := New(s, geom.R(0, 0, 1000, 500), DefaultStyle(), nil)
	if err := term.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	s.SetSize(100, 51)
	t.Cleanup(term.Shutdown)
	return term, s
}

func runeAt(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return r
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"letter", tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone), "j"},
		{"upper", tcell.NewEventKey(tcell.KeyRune, 'J', tcell.ModNone), "<S>j"},
		{"shifted punctuation", tcell.NewEventKey(tcell.KeyRune, '>', tcell.ModAlt), "<S><D>."},
		{"alt is cmd", tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModAlt), "<D>j"},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlA, 0, tcell.ModCtrl), "<C>a"},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "<CR>"},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), "<Tab>"},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), "<S><Tab>"},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "<Esc>"},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), "<BS>"},
		{"slash", tcell.NewEventKey(tcell.KeyRune, '/', tcell.ModNone), "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := Convert(tt.ev)
			if !ok {
				t.Fatal("Convert() = false")
			}
			wantKey, wantMods := key.MustParse(tt.want)
			if ev.Key != wantKey || ev.Modifiers != wantMods {
				t.Errorf("Convert() = %s, want %s", ev, tt.want)
			}
		})
	}
}

func TestConvertKeepsTypedRune(t *testing.T) {
	ev, ok := Convert(tcell.NewEventKey(tcell.KeyRune, 'J', tcell.ModNone))
	if !ok {
		t.Fatal("Convert() = false")
	}
	if r, _ := ev.Char(); r != 'J' {
		t.Errorf("Char() = %q, want J", r)
	}
}

func TestConvertUnknown(t *testing.T) {
	if _, ok := Convert(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone)); ok {
		t.Error("F5 should not convert")
	}
}

func TestHintsDrawnAtScaledAnchor(t *testing.T) {
	term, s := newSimTerminal(t)

	term.Hints(platform.HintFrame{Labels: []platform.HintLabel{
		{Text: "jk", Anchor: geom.Pt(500, 250)},
		{Text: "jl", Anchor: geom.Pt(100, 100), Hidden: true},
	}})

	if r := runeAt(s, 50, 25); r != 'j' {
		t.Errorf("cell (50,25) = %q, want j", r)
	}
	if r := runeAt(s, 51, 25); r != 'k' {
		t.Errorf("cell (51,25) = %q, want k", r)
	}
	if r := runeAt(s, 10, 10); r == 'j' {
		t.Error("hidden label should not be drawn")
	}

	term.HideHints()
	if r := runeAt(s, 50, 25); r == 'j' {
		t.Error("label should be cleared")
	}
}

func TestPointerAndStatus(t *testing.T) {
	term, s := newSimTerminal(t)

	term.Pointer(platform.PointerFrame{At: geom.Pt(200, 100), Count: "3"})
	term.SetStatus("move (200,100)")

	if r := runeAt(s, 20, 10); r != '+' {
		t.Errorf("pointer cell = %q, want +", r)
	}
	if r := runeAt(s, 21, 10); r != '3' {
		t.Errorf("count cell = %q, want 3", r)
	}
	if r := runeAt(s, 0, 50); r != 'm' {
		t.Errorf("status row = %q, want m", r)
	}
}

func TestRunDeliversKeys(t *testing.T) {
	term, s := newSimTerminal(t)

	got := make(chan key.Event, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- term.Run(context.Background(), func(ev key.Event) bool {
			got <- ev
			return true
		})
	}()

	s.InjectKey(tcell.KeyRune, 'k', tcell.ModNone)
	select {
	case ev := <-got:
		if ev.Key != key.KeyK {
			t.Errorf("key = %s, want k", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("key not delivered")
	}

	s.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	select {
	case err := <-errc:
		if !errors.Is(err, ErrInterrupted) {
			t.Errorf("Run() error = %v, want ErrInterrupted", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on Ctrl+C")
	}
}

func TestNewPlatformShowsPostedEvents(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	f, err := sim.Parse([]byte("screen: {w: 1000, h: 500}\npointer: [10, 10]\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p, err := NewPlatform(f, s, DefaultStyle(), nil)
	if err != nil {
		t.Fatalf("NewPlatform() error = %v", err)
	}
	defer p.Shutdown()

	p.Poster.Move(geom.Pt(20, 30), false)

	if got := p.Poster.Location(); got != geom.Pt(20, 30) {
		t.Errorf("Location() = %v", got)
	}
	_, h := s.Size()
	if r := runeAt(s, 0, h-1); r != 'm' {
		t.Errorf("status row = %q, want the posted move", r)
	}
}
