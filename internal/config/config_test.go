package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keyhint/internal/input/key"
	"github.com/dshills/keyhint/internal/input/keymap"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "jklhgasdfweruio", cfg.Settings.HintChars)
	assert.Equal(t, 36, cfg.Settings.GridRows)
	assert.Equal(t, 500*time.Millisecond, cfg.Settings.DoubleClickInterval())
	assert.Equal(t, 10*time.Second, cfg.Settings.ProbeInterval())
	assert.True(t, cfg.Settings.Flags().RoleBased)
	assert.Equal(t, []string{"j", "k", "l"}, cfg.Labels.Labels(3))

	b, ok := cfg.Keys.Trigger.Binding(keymap.ActionShowHints)
	require.True(t, ok)
	assert.Equal(t, keymap.MustParseBinding("<S><D>."), b)

	r, g, bl := cfg.Colors.HintBG.RGB255()
	assert.Equal(t, [3]uint8{0xe6, 0xd2, 0x78}, [3]uint8{r, g, bl})
	assert.Equal(t, 1.0, cfg.Colors.HintBG.Alpha)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"), WithoutEnv())
	require.NoError(t, err)

	assert.False(t, cfg.Found)
	assert.Equal(t, Defaults().HintChars, cfg.Settings.HintChars)
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
hint_chars = "ASDF-ghjkl;"
hint_selection = "action"
grid_rows = 10
cursor_step = 2.5
jiggle_when_dragging = true
color_bg = "ffcc0080"
key_show_hints = "<C><D>h"
`)

	cfg, err := Load(path, WithoutEnv())
	require.NoError(t, err)

	s := cfg.Settings
	assert.True(t, cfg.Found)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "asdfghjkl", s.HintChars)
	assert.False(t, s.Flags().RoleBased)
	assert.Equal(t, 10, s.GridRows)
	assert.Equal(t, 36, s.GridCols)
	assert.Equal(t, 2.5, s.CursorStep)
	assert.True(t, s.JiggleWhenDragging)
	assert.InDelta(t, 128.0/255, cfg.Colors.HintBG.Alpha, 1e-9)

	b, ok := cfg.Keys.Trigger.Binding(keymap.ActionShowHints)
	require.True(t, ok)
	assert.Equal(t, keymap.NewBinding(key.KeyH, key.ModCtrl|key.ModCmd), b)
	assert.Equal(t, "<C><D>h", s.Keys["key_show_hints"])
	assert.Equal(t, "<Esc>", s.Keys["key_close"])
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
grid_cols: 12
show_menu_item: false
key_close: "<BS>"
`)

	cfg, err := Load(path, WithoutEnv())
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Settings.GridCols)
	assert.False(t, cfg.Settings.ShowMenuItem)
	b, _ := cfg.Keys.Hint.Binding(keymap.ActionClose)
	assert.Equal(t, key.KeyBackspace, b.Key)
}

func TestLoadEnvironmentOverlay(t *testing.T) {
	path := writeConfig(t, "config.toml", "grid_rows = 10\n")
	t.Setenv("KEYHINT_GRID_ROWS", "20")
	t.Setenv("KEYHINT_HINT_TEXT", "true")
	t.Setenv("KEYHINT_KEY_RIGHT_CLICK", "r")
	t.Setenv("KEYHINT_CONFIG_PATH", path)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Settings.GridRows)
	assert.True(t, cfg.Settings.HintText)
	assert.Equal(t, "r", cfg.Settings.Keys["key_right_click"])
}

func TestPath(t *testing.T) {
	t.Setenv(PathEnv, "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", Path())

	t.Setenv(PathEnv, "")
	t.Setenv("HOME", "/home/u")
	assert.Equal(t, filepath.Join("/home/u", ".config", "keyhint", "config.toml"), Path())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
		message string
		is      error
	}{
		{"few hint chars", `hint_chars = "abc123"`, "hint_chars", "needs at least 8 distinct letters", ErrInvalidValue},
		{"repeated hint chars", `hint_chars = "aaaaaaaabbbb"`, "hint_chars", "needs at least 8 distinct letters", ErrInvalidValue},
		{"selection", `hint_selection = "title"`, "hint_selection", "must be either action or role", ErrInvalidValue},
		{"menu poll", `system_menu_poll = 5`, "system_menu_poll", "must be 0 or at least 10", ErrInvalidValue},
		{"int type", `grid_rows = "many"`, "grid_rows", "must be int", nil},
		{"float type", `cursor_step = "far"`, "cursor_step", "must be float", nil},
		{"bool type", `hint_text = "maybe"`, "hint_text", "must be either true or false", nil},
		{"zero rows", `grid_rows = 0`, "grid_rows", "must be greater than 0", ErrInvalidValue},
		{"negative radius", `dedup_radius = -1`, "dedup_radius", "must not be negative", ErrInvalidValue},
		{"colour", `color_fg = "#12345"`, "color_fg", "must be a hex string, e.g. #000000", ErrInvalidValue},
		{"colour digits", `mouse_color_normal = "#gg0000"`, "mouse_color_normal", "must be a hex string, e.g. #000000", ErrInvalidValue},
		{"log level", `log_level = "loud"`, "log_level", "must be one of debug, info, warn or error", ErrInvalidValue},
		{"unknown", `colour = "#000000"`, "colour", "is not a known setting", ErrUnknownSetting},
		{"unknown key", `key_fly = "f"`, "key_fly", "is not a known setting", ErrUnknownSetting},
		{"binding type", `key_close = 5`, "key_close", "is not a valid key mapping", ErrInvalidValue},
		{"binding syntax", `key_close = "<Nope>"`, "key_close", "is not a valid key mapping", nil},
		{"needs modifiers", `key_show_grid = "g"`, "key_show_grid", "must use modifiers", nil},
		{"hint char", `key_toggle_z_index = "j"`, "key_toggle_z_index", "uses a key that is also a hint character", nil},
		{"printable", `key_select_occurence = "x"`, "key_select_occurence", "must use a non printable key", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.toml", tt.content)

			_, err := Load(path, WithoutEnv())
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, path, perr.Path)
			assert.Equal(t, tt.field, perr.Field)
			assert.Equal(t, tt.message, perr.Message)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeConfig(t, "config.toml", "grid_rows = = 3\n")

	_, err := Load(path, WithoutEnv())

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, path, perr.Path)
	assert.Empty(t, perr.Field)
	assert.Contains(t, err.Error(), "line 1")
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Path: "/c.toml", Field: "grid_rows", Message: "must be int"}
	assert.Equal(t, "config /c.toml: grid_rows must be int", err.Error())

	err = &ParseError{Field: "hint_chars", Message: "needs at least 8 distinct letters"}
	assert.Equal(t, "config: hint_chars needs at least 8 distinct letters", err.Error())
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in    string
		ok    bool
		alpha float64
	}{
		{"#000000", true, 1},
		{"FF0000", true, 1},
		{" #0000ff ", true, 1},
		{"#00000000", true, 0},
		{"#fff", false, 0},
		{"#12345z", false, 0},
		{"", false, 0},
	}
	for _, tt := range tests {
		c, ok := ParseColor(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if ok {
			assert.Equal(t, tt.alpha, c.Alpha, tt.in)
		}
	}
}

func TestCheckFont(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.CheckFont([]string{"Menlo"}))

	cfg.Settings.FontFamily = "Menlo"
	assert.NoError(t, cfg.CheckFont([]string{"Helvetica", "Menlo"}))
	assert.NoError(t, cfg.CheckFont(nil))

	cfg.Settings.FontFamily = "Comic Sans"
	err := cfg.CheckFont([]string{"Menlo"})
	assert.True(t, errors.Is(err, ErrUnknownFont))
}

func TestDecodeNil(t *testing.T) {
	s, err := Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}
