package mode

import (
	"log/slog"

	"github.com/dshills/keyhint/internal/layout"
	"github.com/dshills/keyhint/internal/platform"
	"github.com/dshills/keyhint/internal/traverse"
)

// Deps are the collaborators shared by both controllers.
type Deps struct {
	Desktop platform.Desktop
	Poster  platform.Poster
	Overlay platform.Overlay
	Layout  *layout.Switcher

	Logger   *slog.Logger
	Observer Observer

	// Walks receives the stats of every hint traversal.
	Walks traverse.Observer
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Observer == nil {
		d.Observer = nopObserver{}
	}
	if d.Layout == nil {
		d.Layout = layout.NewSwitcher(nil, layout.Disabled, d.Logger)
	}
	return d
}
