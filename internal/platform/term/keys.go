package term

import (
	"context"
	"errors"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyhint/internal/input/key"
)

// ErrInterrupted is returned by Run when Ctrl+C is pressed.
var ErrInterrupted = errors.New("interrupted")

// shifted maps characters typed with shift on a US keyboard to the key
// that produced them.
var shifted = map[rune]rune{
	'~': '`', '!': '1', '@': '2', '#': '3', '$': '4', '%': '5',
	'^': '6', '&': '7', '*': '8', '(': '9', ')': '0', '_': '-',
	'+': '=', '{': '[', '}': ']', '|': '\\', ':': ';', '"': '\'',
	'<': ',', '>': '.', '?': '/',
}

// Convert translates a terminal key event. Terminals cannot see the
// command key, so Alt (Option) is reported as Cmd; this lets triggers
// such as <S><D>. be typed as Shift+Alt+. in the preview.
func Convert(ev *tcell.EventKey) (key.Event, bool) {
	var mods key.Modifier
	tm := ev.Modifiers()
	if tm&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if tm&tcell.ModAlt != 0 || tm&tcell.ModMeta != 0 {
		mods = mods.With(key.ModCmd)
	}

	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		return runeEvent(ev.Rune(), mods, tm&tcell.ModCtrl != 0)
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ && tm&tcell.ModCtrl != 0:
		return runeEvent(rune('a'+(k-tcell.KeyCtrlA)), mods, true)
	}

	var code key.Key
	switch k {
	case tcell.KeyEnter:
		code = key.KeyEnter
	case tcell.KeyTab:
		code = key.KeyTab
	case tcell.KeyBacktab:
		code = key.KeyTab
		mods = mods.With(key.ModShift)
	case tcell.KeyEscape:
		code = key.KeyEscape
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		code = key.KeyBackspace
	case tcell.KeyLeft:
		code = key.KeyLeft
	case tcell.KeyRight:
		code = key.KeyRight
	case tcell.KeyUp:
		code = key.KeyUp
	case tcell.KeyDown:
		code = key.KeyDown
	default:
		return key.Event{}, false
	}
	return key.Event{Key: code, Modifiers: mods, Timestamp: time.Now()}, true
}

func runeEvent(r rune, mods key.Modifier, ctrl bool) (key.Event, bool) {
	if ctrl {
		mods = mods.With(key.ModCtrl)
	}
	base := r
	if unicode.IsUpper(r) {
		base = unicode.ToLower(r)
		mods = mods.With(key.ModShift)
	} else if b, ok := shifted[r]; ok {
		base = b
		mods = mods.With(key.ModShift)
	}
	code, ok := key.FromRune(base)
	if !ok {
		return key.Event{}, false
	}
	ev := key.NewEvent(code, mods)
	ev.Rune = r
	return ev, true
}

// Run delivers terminal key events to handle until ctx is done, Ctrl+C is
// pressed or the screen is finalized.
func (t *Terminal) Run(ctx context.Context, handle func(key.Event) bool) error {
	events := make(chan tcell.Event)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(events)
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch e := ev.(type) {
			case *tcell.EventKey:
				if e.Key() == tcell.KeyCtrlC {
					return ErrInterrupted
				}
				if k, ok := Convert(e); ok {
					handle(k)
				} else {
					t.logger.Debug("unmapped terminal key", "key", e.Name())
				}
			case *tcell.EventResize:
				t.mu.Lock()
				t.screen.Sync()
				t.redraw()
				t.mu.Unlock()
			}
		}
	}
}
