// Package script runs user Lua hooks.
//
// A hint filter script defines a global function hintable(el) that is
// called for every discovered element before labels are assigned.
// Returning false drops the element. el is a table with the fields
// role, text, x, y, width and height; text is the normalised search
// term and the geometry fields are absent for elements without bounds.
//
//	function hintable(el)
//	  return el.role ~= "AXImage"
//	end
//
// A script error or a non-boolean result keeps the element.
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyhint/internal/ax"
)

// FilterFunc is the name of the global the script must define.
const FilterFunc = "hintable"

// DefaultCallTimeout bounds a single hintable call.
const DefaultCallTimeout = 50 * time.Millisecond

// ErrNoFilter is returned when the script does not define hintable.
var ErrNoFilter = errors.New("script does not define function " + FilterFunc)

// Filter evaluates a hint filter script. gopher-lua states are not
// goroutine-safe; calls are serialised by mu.
type Filter struct {
	mu      sync.Mutex
	L       *lua.LState
	fn      *lua.LFunction
	name    string
	timeout time.Duration
	logger  *slog.Logger
	closed  bool
}

// Option configures a Filter.
type Option func(*Filter)

// WithCallTimeout bounds each hintable call.
func WithCallTimeout(d time.Duration) Option {
	return func(f *Filter) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithLogger sets the logger for script errors.
func WithLogger(l *slog.Logger) Option {
	return func(f *Filter) {
		if l != nil {
			f.logger = l
		}
	}
}

// Load compiles the script at path.
func Load(path string, opts ...Option) (*Filter, error) {
	return load(path, func(L *lua.LState) error { return L.DoFile(path) }, opts)
}

// LoadString compiles src; name is used in log messages.
func LoadString(name, src string, opts ...Option) (*Filter, error) {
	return load(name, func(L *lua.LState) error { return L.DoString(src) }, opts)
}

func load(name string, run func(*lua.LState) error, opts []Option) (*Filter, error) {
	f := &Filter{name: name, timeout: DefaultCallTimeout, logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	if err := run(L); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	fn, ok := L.GetGlobal(FilterFunc).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("loading %s: %w", name, ErrNoFilter)
	}
	f.L = L
	f.fn = fn
	return f, nil
}

// openSafeLibraries opens the base, table, string and math libraries
// without file loading.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Hintable reports whether the script keeps n.
func (f *Filter) Hintable(n *ax.Node) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return true
	}
	keep, err := f.call(n)
	if err != nil {
		f.logger.Warn("hint filter failed, keeping element",
			"script", f.name, "element", n.Describe(), "err", err)
		return true
	}
	return keep
}

func (f *Filter) call(n *ax.Node) (keep bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()
	f.L.SetContext(ctx)
	defer f.L.RemoveContext()

	if err := f.L.CallByParam(lua.P{Fn: f.fn, NRet: 1, Protect: true}, element(f.L, n)); err != nil {
		return true, err
	}
	ret := f.L.Get(-1)
	f.L.Pop(1)
	b, ok := ret.(lua.LBool)
	if !ok {
		return true, fmt.Errorf("%s returned %s, want boolean", FilterFunc, ret.Type())
	}
	return bool(b), nil
}

// element converts n to the table passed to hintable.
func element(L *lua.LState, n *ax.Node) *lua.LTable {
	t := L.NewTable()
	if role, ok := n.Role(); ok {
		t.RawSetString("role", lua.LString(role))
	}
	t.RawSetString("text", lua.LString(n.SearchTerm()))
	if b, ok := n.Bounds(); ok {
		t.RawSetString("x", lua.LNumber(b.MinX()))
		t.RawSetString("y", lua.LNumber(b.MinY()))
		t.RawSetString("width", lua.LNumber(b.Width()))
		t.RawSetString("height", lua.LNumber(b.Height()))
	}
	return t
}

// Apply returns the nodes the script keeps, in order.
func (f *Filter) Apply(nodes []*ax.Node) []*ax.Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if f.Hintable(n) {
			out = append(out, n)
		}
	}
	return out
}

// Close releases the Lua state. Hintable keeps every element afterwards.
func (f *Filter) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	f.L.Close()
}
