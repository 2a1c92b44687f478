package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strings"
	"unicode"

	"github.com/mitchellh/mapstructure"

	"github.com/dshills/keyhint/internal/config/loader"
	"github.com/dshills/keyhint/internal/hint"
	"github.com/dshills/keyhint/internal/input/key"
	"github.com/dshills/keyhint/internal/input/keymap"
)

// Environment variables.
const (
	// EnvPrefix prefixes the variable of every setting.
	EnvPrefix = "KEYHINT_"

	// PathEnv overrides the configuration file location.
	PathEnv = "KEYHINT_CONFIG_PATH"
)

// Config is a validated configuration ready for use.
type Config struct {
	Settings Settings

	// Keys holds the mode keymaps built from the key_* settings.
	Keys *keymap.Set

	// Labels generates hint labels over the normalised hint_chars.
	Labels *hint.Generator

	Colors Colors

	// Path is the file the configuration was read from.
	Path string

	// Found reports whether the file existed.
	Found bool
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs     loader.FileSystem
	env    bool
	logger *slog.Logger
}

// WithFileSystem reads the configuration file from fsys.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithoutEnv ignores KEYHINT_* environment variables.
func WithoutEnv() Option {
	return func(o *options) {
		o.env = false
	}
}

// WithLogger sets the logger used to report where settings came from.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Path returns the configuration file location: $KEYHINT_CONFIG_PATH,
// else ~/.config/keyhint/config.toml.
func Path() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "keyhint", "config.toml")
}

// Load reads, merges and validates the configuration at path. A missing
// file yields the defaults overlaid with the environment.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{fs: loader.DefaultFS(), env: true, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	var raw map[string]any
	if path != "" {
		m, err := loader.ForPath(o.fs, path).Load()
		if err != nil {
			return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
		raw = m
	}
	found := raw != nil
	if !found {
		o.logger.Info("config file not found, using defaults", "path", path)
	}

	if o.env {
		env, err := loader.NewEnvLoaderForKeys(EnvPrefix, keys()).Load()
		if err != nil {
			return nil, fmt.Errorf("reading environment: %w", err)
		}
		if len(env) > 0 {
			o.logger.Debug("config overlaid from environment", "keys", len(env))
		}
		raw = loader.DeepMerge(raw, env)
	}

	s, err := Decode(raw)
	if err == nil {
		var cfg *Config
		cfg, err = New(s)
		if err == nil {
			cfg.Path = path
			cfg.Found = found
			return cfg, nil
		}
	}
	var perr *ParseError
	if errors.As(err, &perr) && found {
		perr.Path = path
	}
	return nil, err
}

// document adds the catch-all for keys without a Settings field.
type document struct {
	Settings `mapstructure:",squash"`
	Rest     map[string]any `mapstructure:",remain"`
}

// Decode converts a merged configuration map into Settings over the
// defaults. Values are weakly typed so environment strings decode into
// numbers and booleans.
func Decode(raw map[string]any) (Settings, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	doc := document{Settings: Defaults()}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return Settings{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Settings{}, decodeError(err)
	}

	rest := make([]string, 0, len(doc.Rest))
	for k := range doc.Rest {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	for _, k := range rest {
		if _, ok := keymap.SpecFor(k); !ok {
			return Settings{}, &ParseError{Field: k, Message: "is not a known setting", Err: ErrUnknownSetting}
		}
		v, ok := doc.Rest[k].(string)
		if !ok {
			return Settings{}, invalid(k, "is not a valid key mapping")
		}
		doc.Keys[k] = v
	}
	return doc.Settings, nil
}

// decodeError maps a mapstructure failure onto the key it concerns.
func decodeError(err error) error {
	var merr *mapstructure.Error
	if !errors.As(err, &merr) || len(merr.Errors) == 0 {
		return &ParseError{Message: err.Error(), Err: err}
	}
	msgs := slices.Clone(merr.Errors)
	sort.Strings(msgs)
	field := quoted(msgs[0])
	switch settingKinds()[field] {
	case reflect.Int:
		return &ParseError{Field: field, Message: "must be int", Err: err}
	case reflect.Float64:
		return &ParseError{Field: field, Message: "must be float", Err: err}
	case reflect.Bool:
		return &ParseError{Field: field, Message: "must be either true or false", Err: err}
	}
	return &ParseError{Field: field, Message: msgs[0], Err: err}
}

// quoted returns the first single-quoted word of s.
func quoted(s string) string {
	_, rest, ok := strings.Cut(s, "'")
	if !ok {
		return ""
	}
	word, _, _ := strings.Cut(rest, "'")
	return word
}

// settingKinds maps every tagged Settings key to its field kind.
func settingKinds() map[string]reflect.Kind {
	t := reflect.TypeOf(Settings{})
	out := make(map[string]reflect.Kind, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		out[tag] = f.Type.Kind()
	}
	return out
}

// New validates s and builds the derived keymaps, label generator and
// colours.
func New(s Settings) (*Config, error) {
	chars, err := normalizeHintChars(s.HintChars)
	if err != nil {
		return nil, err
	}
	s.HintChars = chars

	if err := validate(s); err != nil {
		return nil, err
	}

	labels, err := hint.NewGenerator(chars)
	if err != nil {
		return nil, &ParseError{Field: "hint_chars", Message: err.Error(), Err: err}
	}

	keys, err := keymap.Load(s.Keys, chars)
	if err != nil {
		return nil, keyError(err)
	}

	colors, err := parseColors(s)
	if err != nil {
		return nil, err
	}

	return &Config{Settings: s, Keys: keys, Labels: labels, Colors: colors}, nil
}

// Default returns the validated default configuration.
func Default() *Config {
	cfg, err := New(Defaults())
	if err != nil {
		panic("default configuration invalid: " + err.Error())
	}
	return cfg
}

// normalizeHintChars keeps letters only, lower-cased and without
// repeats, in their original order.
func normalizeHintChars(s string) (string, error) {
	var b strings.Builder
	seen := make(map[rune]bool)
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		r = unicode.ToLower(r)
		if seen[r] {
			continue
		}
		seen[r] = true
		b.WriteRune(r)
	}
	if len(seen) < hint.MinAlphabet {
		return "", invalid("hint_chars", "needs at least %d distinct letters", hint.MinAlphabet)
	}
	return b.String(), nil
}

func validate(s Settings) error {
	switch s.HintSelection {
	case SelectByRole, SelectByAction:
	default:
		return invalid("hint_selection", "must be either action or role")
	}
	if s.SystemMenuPoll != 0 && s.SystemMenuPoll < 10 {
		return invalid("system_menu_poll", "must be 0 or at least 10")
	}

	positiveInts := []struct {
		field string
		v     int
	}{
		{"max_traversal_workers", s.MaxTraversalWorkers},
		{"grid_rows", s.GridRows},
		{"grid_cols", s.GridCols},
		{"scroll_size_vertical", s.ScrollSizeVertical},
		{"scroll_size_horizontal", s.ScrollSizeHorizontal},
		{"scroll_size_vertical_page", s.ScrollSizeVerticalPage},
		{"double_click_interval_ms", s.DoubleClickIntervalMS},
	}
	for _, p := range positiveInts {
		if p.v <= 0 {
			return invalid(p.field, "must be greater than 0")
		}
	}

	positiveFloats := []struct {
		field string
		v     float64
	}{
		{"cursor_step", s.CursorStep},
		{"grid_font_size", s.GridFontSize},
		{"hint_font_size", s.HintFontSize},
		{"mouse_size", s.MouseSize},
	}
	for _, p := range positiveFloats {
		if p.v <= 0 {
			return invalid(p.field, "must be greater than 0")
		}
	}

	nonNegative := []struct {
		field string
		v     float64
	}{
		{"dedup_radius", s.DedupRadius},
		{"hint_triangle_height", s.HintTriangleHeight},
		{"mouse_outline_width", s.MouseOutlineWidth},
	}
	for _, p := range nonNegative {
		if p.v < 0 {
			return invalid(p.field, "must not be negative")
		}
	}

	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log_level", "must be one of debug, info, warn or error")
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		return invalid("log_format", "must be either text or json")
	}
	return nil
}

// keyError reports a binding failure under its key_* field.
func keyError(err error) error {
	var perr *key.ParseError
	if errors.As(err, &perr) {
		return &ParseError{Field: perr.Field, Message: "is not a valid key mapping", Err: err}
	}
	var verr *keymap.ValidationError
	if errors.As(err, &verr) {
		return &ParseError{Field: verr.Field, Message: verr.Reason, Err: err}
	}
	return &ParseError{Message: err.Error(), Err: err}
}

// CheckFont verifies font_family against the installed families. An
// empty family or an unknown font list always passes.
func (c *Config) CheckFont(families []string) error {
	family := c.Settings.FontFamily
	if family == "" || len(families) == 0 {
		return nil
	}
	if slices.Contains(families, family) {
		return nil
	}
	return &ParseError{
		Path:    c.Path,
		Field:   "font_family",
		Message: "must be a font available system wide, see keyhint list-fonts",
		Err:     ErrUnknownFont,
	}
}
