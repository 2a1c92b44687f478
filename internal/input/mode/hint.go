package mode

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keyhint/internal/ax"
	"github.com/dshills/keyhint/internal/hint"
	"github.com/dshills/keyhint/internal/input/key"
	"github.com/dshills/keyhint/internal/input/keymap"
	"github.com/dshills/keyhint/internal/input/mouse"
	"github.com/dshills/keyhint/internal/platform"
	"github.com/dshills/keyhint/internal/traverse"
)

// HintOptions configure hint sessions. They are read when a session
// opens.
type HintOptions struct {
	// Keys is the hint-mode keymap.
	Keys *keymap.Keymap

	// Labels generates hint labels.
	Labels *hint.Generator

	Flags      ax.Flags
	Radius     float64
	MaxWorkers int

	// ShowMenu adds the menu bar and cached status items.
	ShowMenu bool

	// Filter, when set, drops nodes after traversal.
	Filter func([]*ax.Node) []*ax.Node
}

// MenuCache holds status items discovered outside of a session.
type MenuCache interface {
	Snapshot() []*ax.Node
}

type hintSession struct {
	id      uuid.UUID
	opts    HintOptions
	started time.Time
	logger  *slog.Logger

	hints   []hint.Hint
	labels  []string
	fuzzy   bool
	lowered bool
}

// HintController runs hint mode.
type HintController struct {
	host Host
	deps Deps
	opts HintOptions
	menu MenuCache

	state   State
	session *hintSession
}

// NewHintController creates an idle hint controller.
func NewHintController(host Host, deps Deps, opts HintOptions) *HintController {
	c := &HintController{host: host, deps: deps.withDefaults(), opts: opts}
	c.state.Reset()
	return c
}

// Configure replaces the options used by the next session.
func (c *HintController) Configure(opts HintOptions) {
	c.opts = opts
}

// SetMenuCache sets where cached status items come from.
func (c *HintController) SetMenuCache(m MenuCache) {
	c.menu = m
}

// Name implements Controller.
func (c *HintController) Name() string { return ModeHints }

// Active implements Controller.
func (c *HintController) Active() bool { return c.state.Phase != PhaseIdle }

// State returns a copy of the controller state.
func (c *HintController) State() State { return c.state }

// Hints returns the hints of the open session.
func (c *HintController) Hints() []hint.Hint {
	if c.session == nil {
		return nil
	}
	return c.session.hints
}

// Trigger implements Controller. Only ShowHints opens the mode, and only
// when it is closed.
func (c *HintController) Trigger(a keymap.Action, _ key.Event) {
	if a != keymap.ActionShowHints || c.Active() {
		return
	}

	s := &hintSession{id: uuid.New(), opts: c.opts, started: time.Now()}
	s.logger = c.deps.Logger.With("mode", ModeHints, "session", s.id.String())
	c.session = s
	c.state.Reset()
	c.state.Phase = PhaseRevealing

	c.deps.Layout.Capture()
	c.host.Listen(c)
	c.deps.Overlay.Hints(platform.HintFrame{Loading: true})
	c.deps.Observer.SessionStarted(ModeHints)
	s.logger.Debug("session opened")

	var roots []ax.Handle
	if h, ok := c.deps.Desktop.FrontWindow(); ok {
		roots = append(roots, h)
	}
	var extra []*ax.Node
	if s.opts.ShowMenu {
		if h, ok := c.deps.Desktop.MenuBar(); ok {
			roots = append(roots, h)
		}
		if c.menu != nil {
			extra = c.menu.Snapshot()
		}
	}

	walker := traverse.NewWalker(c.deps.Desktop, c.deps.Desktop.Screen(),
		traverse.WithFlags(s.opts.Flags),
		traverse.WithMaxWorkers(s.opts.MaxWorkers),
		traverse.WithObserver(c.deps.Walks),
		traverse.WithLogger(s.logger),
	)
	id := s.id
	c.host.Go(func(ctx context.Context) func() {
		nodes, err := walker.Walk(ctx, roots...)
		return func() { c.reveal(id, append(nodes, extra...), err) }
	})
}

// reveal shows the hints found by the traversal of session id.
func (c *HintController) reveal(id uuid.UUID, nodes []*ax.Node, err error) {
	s := c.session
	if s == nil || s.id != id || c.state.Phase != PhaseRevealing {
		c.deps.Logger.Debug("dropping stale traversal result", "session", id.String())
		return
	}
	if err != nil {
		s.logger.Warn("traversal failed", "error", err)
		c.finish(OutcomeFailed)
		return
	}

	ax.Sort(nodes)
	if s.opts.Filter != nil {
		nodes = s.opts.Filter(nodes)
	}
	nodes = hint.RemoveDuplicates(nodes, s.opts.Radius)
	if len(nodes) == 0 {
		s.logger.Info("no hintable elements")
		c.finish(OutcomeEmpty)
		return
	}

	s.hints = hint.Assign(s.opts.Labels, nodes)
	s.labels = make([]string, len(s.hints))
	for i, h := range s.hints {
		s.labels[i] = h.Label
	}
	c.state.Phase = PhaseNarrowing
	s.logger.Debug("hints shown", "count", len(s.hints))
	c.render()
}

// HandleKey implements Controller.
func (c *HintController) HandleKey(ev key.Event) {
	s := c.session
	if s == nil {
		return
	}
	a, bound := s.opts.Keys.Resolve(ev)

	switch c.state.Phase {
	case PhaseRevealing:
		if bound && a == keymap.ActionClose {
			c.finish(OutcomeCancelled)
		}
		return
	case PhaseNarrowing:
	default:
		return
	}

	if bound {
		if fn, ok := hintActions[a]; ok {
			fn(c, ev)
			return
		}
	}
	if r, ok := ev.Char(); ok {
		c.typeChar(r, ev.Modifiers)
	}
}

// hintActions dispatches the bound keys of hint mode.
var hintActions = map[keymap.Action]func(*HintController, key.Event){
	keymap.ActionClose:            (*HintController).actionClose,
	keymap.ActionEnterSearch:      (*HintController).actionEnterSearch,
	keymap.ActionToggleZOrder:     (*HintController).actionToggleZOrder,
	keymap.ActionNextOccurrence:   (*HintController).actionNext,
	keymap.ActionPrevOccurrence:   (*HintController).actionPrev,
	keymap.ActionSelectOccurrence: (*HintController).actionSelect,
	keymap.ActionDeleteSearchChar: (*HintController).actionDeleteChar,
}

func (c *HintController) actionClose(key.Event) {
	c.finish(OutcomeCancelled)
}

func (c *HintController) actionEnterSearch(key.Event) {
	c.session.fuzzy = true
	c.deps.Layout.Restore()
	c.state.Typed = ""
	c.state.Selected = -1
	c.render()
}

func (c *HintController) actionToggleZOrder(key.Event) {
	c.session.lowered = !c.session.lowered
	c.render()
}

func (c *HintController) actionNext(key.Event) { c.step(1) }

func (c *HintController) actionPrev(key.Event) { c.step(-1) }

// step moves the highlight through the matching hints with wrap-around.
// Outside fuzzy search the key is swallowed without effect.
func (c *HintController) step(delta int) {
	if !c.session.fuzzy {
		return
	}
	matches := c.matches()
	if len(matches) == 0 {
		return
	}
	pos := -1
	for i, m := range matches {
		if m == c.state.Selected {
			pos = i
			break
		}
	}
	if pos < 0 {
		c.state.Selected = matches[0]
	} else {
		n := len(matches)
		c.state.Selected = matches[((pos+delta)%n+n)%n]
	}
	c.render()
}

func (c *HintController) actionSelect(ev key.Event) {
	if !c.session.fuzzy || c.state.Selected < 0 {
		return
	}
	c.commit(c.session.hints[c.state.Selected], ev.Modifiers)
}

func (c *HintController) actionDeleteChar(key.Event) {
	if !c.session.fuzzy || c.state.Typed == "" {
		return
	}
	r := []rune(c.state.Typed)
	c.state.Typed = string(r[:len(r)-1])
	c.reselect()
	c.render()
}

func (c *HintController) typeChar(r rune, mods key.Modifier) {
	s := c.session
	if s.fuzzy {
		c.state.Typed += string(r)
		c.reselect()
		c.render()
		return
	}

	c.state.Typed += strings.ToLower(string(r))
	count, first := hint.CountPrefixed(s.labels, c.state.Typed)
	switch {
	case count == 0:
		s.logger.Debug("no label matches", "typed", c.state.Typed)
		c.finish(OutcomeCancelled)
	case s.labels[first] == c.state.Typed:
		c.commit(s.hints[first], mods)
	default:
		c.render()
	}
}

// reselect keeps the highlight on a still matching hint, else moves it to
// the first match.
func (c *HintController) reselect() {
	matches := c.matches()
	for _, m := range matches {
		if m == c.state.Selected {
			return
		}
	}
	if len(matches) == 0 {
		c.state.Selected = -1
		return
	}
	c.state.Selected = matches[0]
}

// matches returns the indexes of hints whose search term contains the
// normalized search buffer.
func (c *HintController) matches() []int {
	needle := ax.Normalize(c.state.Typed)
	var out []int
	for i, h := range c.session.hints {
		if strings.Contains(h.Node.SearchTerm(), needle) {
			out = append(out, i)
		}
	}
	return out
}

func (c *HintController) commit(h hint.Hint, mods key.Modifier) {
	c.state.Phase = PhaseCommitted
	p := h.Anchor()
	c.session.logger.Info("click", "label", h.Label, "at", p.String(), "element", h.Node.Describe())
	c.deps.Poster.Click(p, mouse.ButtonLeft, 1, mods)
	c.finish(OutcomeCommitted)
}

// Close implements Controller.
func (c *HintController) Close() {
	if c.Active() {
		c.finish(OutcomeCancelled)
	}
}

// finish tears the session down. The listener is released before it
// returns.
func (c *HintController) finish(outcome Outcome) {
	s := c.session
	c.deps.Layout.Restore()
	c.deps.Overlay.HideHints()
	c.host.Release(c)
	c.state.Reset()
	c.session = nil
	if s == nil {
		return
	}
	elapsed := time.Since(s.started)
	c.deps.Observer.SessionEnded(ModeHints, outcome, elapsed)
	s.logger.Debug("session closed", "outcome", string(outcome), "elapsed", elapsed)
}

func (c *HintController) render() {
	s := c.session
	f := platform.HintFrame{
		Labels:  make([]platform.HintLabel, len(s.hints)),
		Typed:   c.state.Typed,
		Search:  s.fuzzy,
		Lowered: s.lowered,
	}
	needle := ax.Normalize(c.state.Typed)
	for i, h := range s.hints {
		l := platform.HintLabel{Text: h.Label, Anchor: h.Anchor()}
		if s.fuzzy {
			l.Hidden = !strings.Contains(h.Node.SearchTerm(), needle)
			l.Selected = i == c.state.Selected
		} else {
			l.Hidden = !strings.HasPrefix(h.Label, c.state.Typed)
		}
		f.Labels[i] = l
	}
	c.deps.Overlay.Hints(f)
}
