package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSubscribe(t *testing.T) {
	s := NewStore(Default())
	var got []*Config
	unsubscribe := s.Subscribe(func(c *Config) { got = append(got, c) })

	next := Default()
	s.Set(next)
	assert.Same(t, next, s.Get())
	require.Len(t, got, 1)
	assert.Same(t, next, got[0])

	unsubscribe()
	s.Set(Default())
	assert.Len(t, got, 1)
}

func TestReloadKeepsStoreOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("grid_rows = 0\n"), 0o644))

	orig := Default()
	s := NewStore(orig)
	ok := Reload(s, path, slog.New(slog.DiscardHandler), WithoutEnv())

	assert.False(t, ok)
	assert.Same(t, orig, s.Get())
}

func TestWatchReloadsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("grid_rows = 10\n"), 0o644))

	s := NewStore(Default())
	reloaded := make(chan *Config, 4)
	s.Subscribe(func(c *Config) { reloaded <- c })

	w, err := Watch(s, path, slog.New(slog.DiscardHandler), WithoutEnv())
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("grid_rows = 12\n"), 0o644))

	select {
	case c := <-reloaded:
		assert.Equal(t, 12, c.Settings.GridRows)
	case <-time.After(3 * time.Second):
		t.Fatal("configuration was not reloaded")
	}
}
