package app

import (
	"github.com/dshills/keyhint/internal/ax"
	"github.com/dshills/keyhint/internal/config"
	"github.com/dshills/keyhint/internal/input/mode"
	"github.com/dshills/keyhint/internal/platform/term"
)

// hintOptions derives the hint session options from cfg.
func hintOptions(cfg *config.Config, filter func([]*ax.Node) []*ax.Node) mode.HintOptions {
	s := cfg.Settings
	return mode.HintOptions{
		Keys:       cfg.Keys.Hint,
		Labels:     cfg.Labels,
		Flags:      s.Flags(),
		Radius:     s.DedupRadius,
		MaxWorkers: s.MaxTraversalWorkers,
		ShowMenu:   s.ShowMenuItem,
		Filter:     filter,
	}
}

// gridOptions derives the grid session options from cfg.
func gridOptions(cfg *config.Config) mode.GridOptions {
	s := cfg.Settings
	return mode.GridOptions{
		Select:           cfg.Keys.GridSelect,
		Pointer:          cfg.Keys.Pointer,
		Labels:           cfg.Labels,
		Rows:             s.GridRows,
		Cols:             s.GridCols,
		CursorStep:       s.CursorStep,
		ScrollVertical:   s.ScrollSizeVertical,
		ScrollHorizontal: s.ScrollSizeHorizontal,
		ScrollPage:       s.ScrollSizeVerticalPage,
		DoubleClick:      s.DoubleClickInterval(),
		Jiggle:           s.JiggleWhenDragging,
	}
}

// style maps the configured colours onto the terminal overlay.
func style(c config.Colors) term.Style {
	return term.Style{
		HintBG:      c.HintBG.Color,
		HintFG:      c.HintFG.Color,
		Pointer:     c.Pointer.Color,
		PointerDrag: c.PointerDrag.Color,
		Outline:     c.Outline.Color,
	}
}
