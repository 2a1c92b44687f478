package config

import (
	"time"

	"github.com/dshills/keyhint/internal/ax"
	"github.com/dshills/keyhint/internal/input/keymap"
)

// Hint selection strategies.
const (
	SelectByRole   = "role"
	SelectByAction = "action"
)

// Settings is the decoded configuration file. Field tags are the file
// keys; the environment variable of a key is KEYHINT_ plus the key in
// upper case.
type Settings struct {
	HintChars      string  `mapstructure:"hint_chars"`
	HintSelection  string  `mapstructure:"hint_selection"`
	HintText       bool    `mapstructure:"hint_text"`
	TraverseHidden bool    `mapstructure:"traverse_hidden"`
	SystemMenuPoll int     `mapstructure:"system_menu_poll"`
	DedupRadius    float64 `mapstructure:"dedup_radius"`
	ShowMenuItem   bool    `mapstructure:"show_menu_item"`

	MaxTraversalWorkers int    `mapstructure:"max_traversal_workers"`
	HintFilterScript    string `mapstructure:"hint_filter_script"`

	GridRows     int     `mapstructure:"grid_rows"`
	GridCols     int     `mapstructure:"grid_cols"`
	GridFontSize float64 `mapstructure:"grid_font_size"`

	CursorStep             float64 `mapstructure:"cursor_step"`
	ScrollSizeVertical     int     `mapstructure:"scroll_size_vertical"`
	ScrollSizeHorizontal   int     `mapstructure:"scroll_size_horizontal"`
	ScrollSizeVerticalPage int     `mapstructure:"scroll_size_vertical_page"`
	DoubleClickIntervalMS  int     `mapstructure:"double_click_interval_ms"`
	JiggleWhenDragging     bool    `mapstructure:"jiggle_when_dragging"`

	ABCLayout string `mapstructure:"abc_layout"`

	HintFontSize       float64 `mapstructure:"hint_font_size"`
	HintTriangleHeight float64 `mapstructure:"hint_triangle_height"`
	LetterSpacing      float64 `mapstructure:"letter_spacing"`
	FontFamily         string  `mapstructure:"font_family"`

	ColorBG           string  `mapstructure:"color_bg"`
	ColorFG           string  `mapstructure:"color_fg"`
	MouseColorNormal  string  `mapstructure:"mouse_color_normal"`
	MouseColorVisual  string  `mapstructure:"mouse_color_visual"`
	MouseOutlineColor string  `mapstructure:"mouse_outline_color"`
	MouseOutlineWidth float64 `mapstructure:"mouse_outline_width"`
	MouseSize         float64 `mapstructure:"mouse_size"`

	DebugPerf   bool   `mapstructure:"debug_perf"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
	MetricsAddr string `mapstructure:"metrics_addr"`

	// Keys holds every key_* binding string, defaults included.
	Keys map[string]string `mapstructure:"-"`
}

// Defaults returns the settings used for keys the file does not set.
func Defaults() Settings {
	return Settings{
		HintChars:           "jklhgasdfweruio",
		HintSelection:       SelectByRole,
		SystemMenuPoll:      10,
		DedupRadius:         16,
		ShowMenuItem:        true,
		MaxTraversalWorkers: 64,

		GridRows:     36,
		GridCols:     36,
		GridFontSize: 14,

		CursorStep:             5,
		ScrollSizeVertical:     5,
		ScrollSizeHorizontal:   40,
		ScrollSizeVerticalPage: 100,
		DoubleClickIntervalMS:  500,

		ABCLayout: "com.apple.keylayout.ABC",

		HintFontSize:       14,
		HintTriangleHeight: 6,

		ColorBG:           "#e6d278",
		ColorFG:           "#000000",
		MouseColorNormal:  "#ff0000",
		MouseColorVisual:  "#0000ff",
		MouseOutlineColor: "#0000ff",
		MouseOutlineWidth: 8,
		MouseSize:         10,

		LogLevel:  "info",
		LogFormat: "text",

		Keys: keymap.Defaults(),
	}
}

// Flags returns the hintability flags the settings select.
func (s Settings) Flags() ax.Flags {
	return ax.Flags{
		HintText:       s.HintText,
		RoleBased:      s.HintSelection == SelectByRole,
		TraverseHidden: s.TraverseHidden,
	}
}

// DoubleClickInterval returns the click-count window.
func (s Settings) DoubleClickInterval() time.Duration {
	return time.Duration(s.DoubleClickIntervalMS) * time.Millisecond
}

// ProbeInterval returns the menu bar probing period, zero when disabled.
func (s Settings) ProbeInterval() time.Duration {
	return time.Duration(s.SystemMenuPoll) * time.Second
}

// keys lists every recognised setting key.
func keys() []string {
	out := []string{
		"hint_chars", "hint_selection", "hint_text", "traverse_hidden",
		"system_menu_poll", "dedup_radius", "show_menu_item",
		"max_traversal_workers", "hint_filter_script",
		"grid_rows", "grid_cols", "grid_font_size",
		"cursor_step", "scroll_size_vertical", "scroll_size_horizontal",
		"scroll_size_vertical_page", "double_click_interval_ms", "jiggle_when_dragging",
		"abc_layout",
		"hint_font_size", "hint_triangle_height", "letter_spacing", "font_family",
		"color_bg", "color_fg", "mouse_color_normal", "mouse_color_visual",
		"mouse_outline_color", "mouse_outline_width", "mouse_size",
		"debug_perf", "log_level", "log_format", "metrics_addr",
	}
	for _, s := range keymap.Specs {
		out = append(out, s.Field)
	}
	return out
}
