package config

import (
	"log/slog"

	"github.com/dshills/keyhint/internal/config/watcher"
)

// Reload loads path and publishes it into store. Invalid configurations
// are logged and leave the store unchanged.
func Reload(store *Store, path string, logger *slog.Logger, opts ...Option) bool {
	if logger == nil {
		logger = slog.Default()
	}
	cfg, err := Load(path, append([]Option{WithLogger(logger)}, opts...)...)
	if err != nil {
		logger.Warn("config reload rejected", "path", path, "err", err)
		return false
	}
	store.Set(cfg)
	logger.Info("config reloaded", "path", path)
	return true
}

// Watch reloads path into store whenever the file is written or
// recreated. Removing or renaming the file away keeps the active
// configuration. Stop the returned watcher to end watching.
func Watch(store *Store, path string, logger *slog.Logger, opts ...Option) (*watcher.Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := watcher.New(watcher.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			logger.Info("config file moved away, keeping active settings", "path", ev.Path)
			return
		}
		Reload(store, path, logger, opts...)
	})
	w.Start()
	return w, nil
}
