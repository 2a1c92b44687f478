// Package layout switches the keyboard to a latin layout while a mode
// owns the keyboard and puts the user's layout back afterwards.
package layout

import (
	"log/slog"
)

// Disabled turns layout switching off when used as the latin layout id.
const Disabled = "nil"

// Source is the platform's keyboard layout service.
type Source interface {
	Current() string
	Select(id string) error
	List() []string
}

// Switcher remembers the layout active before a mode opened.
type Switcher struct {
	src    Source
	latin  string
	logger *slog.Logger

	saved string
}

// NewSwitcher creates a switcher that selects latin on Capture.
func NewSwitcher(src Source, latin string, logger *slog.Logger) *Switcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Switcher{src: src, latin: latin, logger: logger}
}

// Capture saves the current layout and selects the latin one. Calling it
// again before Restore keeps the first saved layout.
func (s *Switcher) Capture() {
	if s.src == nil || s.latin == "" || s.latin == Disabled {
		return
	}
	cur := s.src.Current()
	if cur == s.latin {
		return
	}
	if s.saved == "" {
		s.saved = cur
	}
	if err := s.src.Select(s.latin); err != nil {
		s.logger.Warn("select layout failed", "layout", s.latin, "error", err)
	}
}

// Restore selects the saved layout, if any, and forgets it.
func (s *Switcher) Restore() {
	if s.saved == "" {
		return
	}
	saved := s.saved
	s.saved = ""
	if err := s.src.Select(saved); err != nil {
		s.logger.Warn("restore layout failed", "layout", saved, "error", err)
	}
}

// Saved returns the layout Restore will select.
func (s *Switcher) Saved() string {
	return s.saved
}
