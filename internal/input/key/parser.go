package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec     = errors.New("empty key binding")
	ErrInvalidSpec   = errors.New("invalid key binding")
	ErrUnknownToken  = errors.New("unknown token")
	ErrTrailingToken = errors.New("token after key")
	ErrMissingKey    = errors.New("no key after modifiers")
)

// ParseError reports a binding that could not be parsed. Field names
// the configuration entry the binding came from.
type ParseError struct {
	Field string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: cannot parse %q: %v", e.Field, e.Input, e.Err)
	}
	return fmt.Sprintf("cannot parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse parses a binding string into a key and modifier set.
//
// Supported formats:
//   - Single key: "j", "/", "<Esc>", "<CR>"
//   - With modifier tokens: "<S><D>.", "<C><M>k"
//   - With modifier glyphs: "⇧⌘j"
//   - Quoted single key: "'/'"
func Parse(field, spec string) (Key, Modifier, error) {
	fail := func(err error) (Key, Modifier, error) {
		return KeyNone, ModNone, &ParseError{Field: field, Input: spec, Err: err}
	}

	s := strings.TrimSpace(spec)
	if s == "" {
		return fail(ErrEmptySpec)
	}
	if len(s) >= 3 && s[0] == '\'' && s[len(s)-1] == '\'' {
		s = s[1 : len(s)-1]
	}

	var (
		mods Modifier
		key  = KeyNone
	)
	for s != "" {
		if key != KeyNone {
			return fail(fmt.Errorf("%w %q", ErrTrailingToken, s))
		}

		var token string
		if s[0] == '<' && len(s) > 1 {
			end := strings.IndexByte(s, '>')
			if end < 0 {
				return fail(fmt.Errorf("%w: unclosed %q", ErrInvalidSpec, s))
			}
			token, s = s[:end+1], s[end+1:]
		} else {
			r, size := utf8.DecodeRuneInString(s)
			if mod, ok := modGlyphs[r]; ok {
				mods = mods.With(mod)
				s = s[size:]
				continue
			}
			token, s = s[:size], s[size:]
		}

		if mod, ok := modifierToken(token); ok {
			mods = mods.With(mod)
			continue
		}
		k, ok := FromToken(token)
		if !ok {
			return fail(fmt.Errorf("%w %q", ErrUnknownToken, token))
		}
		key = k
	}
	if key == KeyNone {
		return fail(ErrMissingKey)
	}
	return key, mods, nil
}

func modifierToken(token string) (Modifier, bool) {
	for mod, t := range modTokens {
		if t == token {
			return mod, true
		}
	}
	return ModNone, false
}

// Format writes a key and modifiers in canonical binding form. The
// result always parses back to the same key and modifiers.
func Format(k Key, mods Modifier) string {
	return mods.Tokens() + k.String()
}

// MustParse parses a binding and panics on error.
// Use only for known-valid bindings in initialization code.
func MustParse(spec string) (Key, Modifier) {
	k, mods, err := Parse("", spec)
	if err != nil {
		panic("invalid key binding: " + err.Error())
	}
	return k, mods
}
