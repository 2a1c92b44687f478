package term

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyhint/internal/geom"
	"github.com/dshills/keyhint/internal/platform"
	"github.com/dshills/keyhint/internal/platform/sim"
)

// NewPlatform previews the fixture desktop on screen. Synthetic events are
// recorded, logged and shown on the status row.
func NewPlatform(f *sim.Fixture, screen tcell.Screen, style Style, logger *slog.Logger) (*platform.Platform, error) {
	if logger == nil {
		logger = slog.Default()
	}
	desk := sim.NewDesktop(f)
	t := New(screen, desk.Screen(), style, logger)
	if err := t.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}

	rec := sim.NewRecorder(geom.Pt(f.Pointer[0], f.Pointer[1]))
	rec.OnPost = func(p sim.Posted) {
		logger.Info("posted", "event", p.String())
		t.SetStatus(p.String())
	}
	return &platform.Platform{
		Desktop: desk,
		Poster:  rec,
		Overlay: t,
		Layouts: desk,
		Keys:    t,
		Fonts:   desk,
		Close: func() error {
			t.Shutdown()
			return nil
		},
	}, nil
}
