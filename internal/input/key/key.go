package key

import "fmt"

// Key is a hardware virtual key code.
type Key uint16

// KeyNone represents no key.
const KeyNone Key = 0xFFFF

// Letter keys.
const (
	KeyA Key = 0
	KeyS Key = 1
	KeyD Key = 2
	KeyF Key = 3
	KeyH Key = 4
	KeyG Key = 5
	KeyZ Key = 6
	KeyX Key = 7
	KeyC Key = 8
	KeyV Key = 9
	KeyB Key = 11
	KeyQ Key = 12
	KeyW Key = 13
	KeyE Key = 14
	KeyR Key = 15
	KeyY Key = 16
	KeyT Key = 17
	KeyO Key = 31
	KeyU Key = 32
	KeyI Key = 34
	KeyP Key = 35
	KeyL Key = 37
	KeyJ Key = 38
	KeyK Key = 40
	KeyN Key = 45
	KeyM Key = 46
)

// Digit keys.
const (
	Key1 Key = 18
	Key2 Key = 19
	Key3 Key = 20
	Key4 Key = 21
	Key6 Key = 22
	Key5 Key = 23
	Key9 Key = 25
	Key7 Key = 26
	Key8 Key = 28
	Key0 Key = 29
)

// Punctuation keys.
const (
	KeyEqual        Key = 24
	KeyMinus        Key = 27
	KeyRightBracket Key = 30
	KeyLeftBracket  Key = 33
	KeyQuote        Key = 39
	KeySemicolon    Key = 41
	KeyBackslash    Key = 42
	KeyComma        Key = 43
	KeySlash        Key = 44
	KeyPeriod       Key = 47
	KeyGrave        Key = 50
)

// Named non-printable keys.
const (
	KeyEnter     Key = 36
	KeyTab       Key = 48
	KeySpace     Key = 49
	KeyBackspace Key = 51
	KeyEscape    Key = 53
	KeyCapsLock  Key = 57
	KeyLeft      Key = 123
	KeyRight     Key = 124
	KeyDown      Key = 125
	KeyUp        Key = 126
)

// keyInfo describes how a key is written and what it types unshifted.
type keyInfo struct {
	token string
	char  rune
}

var keyTable = map[Key]keyInfo{
	KeyA: {"a", 'a'}, KeyB: {"b", 'b'}, KeyC: {"c", 'c'}, KeyD: {"d", 'd'},
	KeyE: {"e", 'e'}, KeyF: {"f", 'f'}, KeyG: {"g", 'g'}, KeyH: {"h", 'h'},
	KeyI: {"i", 'i'}, KeyJ: {"j", 'j'}, KeyK: {"k", 'k'}, KeyL: {"l", 'l'},
	KeyM: {"m", 'm'}, KeyN: {"n", 'n'}, KeyO: {"o", 'o'}, KeyP: {"p", 'p'},
	KeyQ: {"q", 'q'}, KeyR: {"r", 'r'}, KeyS: {"s", 's'}, KeyT: {"t", 't'},
	KeyU: {"u", 'u'}, KeyV: {"v", 'v'}, KeyW: {"w", 'w'}, KeyX: {"x", 'x'},
	KeyY: {"y", 'y'}, KeyZ: {"z", 'z'},

	Key0: {"0", '0'}, Key1: {"1", '1'}, Key2: {"2", '2'}, Key3: {"3", '3'},
	Key4: {"4", '4'}, Key5: {"5", '5'}, Key6: {"6", '6'}, Key7: {"7", '7'},
	Key8: {"8", '8'}, Key9: {"9", '9'},

	KeyEqual: {"=", '='}, KeyMinus: {"-", '-'}, KeyRightBracket: {"]", ']'},
	KeyLeftBracket: {"[", '['}, KeyQuote: {"'", '\''}, KeySemicolon: {";", ';'},
	KeyBackslash: {`\`, '\\'}, KeyComma: {",", ','}, KeySlash: {"/", '/'},
	KeyPeriod: {".", '.'}, KeyGrave: {"`", '`'},

	KeyEnter:     {"<CR>", 0},
	KeyTab:       {"<Tab>", 0},
	KeySpace:     {"<Space>", ' '},
	KeyBackspace: {"<BS>", 0},
	KeyEscape:    {"<Esc>", 0},
	KeyCapsLock:  {"<Caps>", 0},
	KeyLeft:      {"<Left>", 0},
	KeyRight:     {"<Right>", 0},
	KeyDown:      {"<Down>", 0},
	KeyUp:        {"<Up>", 0},
}

var (
	tokenToKey = make(map[string]Key, len(keyTable))
	runeToKey  = make(map[rune]Key, len(keyTable))
)

func init() {
	for k, info := range keyTable {
		tokenToKey[info.token] = k
		if info.char != 0 {
			runeToKey[info.char] = k
		}
	}
}

// String returns the binding token of k.
func (k Key) String() string {
	if info, ok := keyTable[k]; ok {
		return info.token
	}
	if k == KeyNone {
		return "None"
	}
	return fmt.Sprintf("Key(%d)", uint16(k))
}

// Known reports whether k is a key bindings can name.
func (k Key) Known() bool {
	_, ok := keyTable[k]
	return ok
}

// Rune returns the character k types without modifiers.
func (k Key) Rune() (rune, bool) {
	info, ok := keyTable[k]
	if !ok || info.char == 0 {
		return 0, false
	}
	return info.char, true
}

// IsPrintable reports whether k types a visible ASCII character.
func (k Key) IsPrintable() bool {
	r, ok := k.Rune()
	return ok && r > ' ' && r < 0x7f
}

// IsNonPrintable reports whether k is one of the editing keys that
// never produce text: enter, escape, tab and backspace.
func (k Key) IsNonPrintable() bool {
	switch k {
	case KeyEnter, KeyEscape, KeyTab, KeyBackspace:
		return true
	}
	return false
}

// Digit returns the numeric value of a digit key.
func (k Key) Digit() (int, bool) {
	r, ok := k.Rune()
	if !ok || r < '0' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// FromToken returns the key written as token, such as "j" or "<Esc>".
func FromToken(token string) (Key, bool) {
	k, ok := tokenToKey[token]
	return k, ok
}

// FromRune returns the key that types r unshifted.
func FromRune(r rune) (Key, bool) {
	k, ok := runeToKey[r]
	return k, ok
}
