package keymap

// Check is a set of validation rules applied to a configured binding.
type Check uint8

const (
	// RequireModifiers rejects bindings without modifiers.
	RequireModifiers Check = 1 << iota

	// RequirePrintable rejects keys that do not type a visible character.
	RequirePrintable

	// RequireNonPrintable accepts only enter, escape, tab and backspace.
	RequireNonPrintable

	// NotInHintChars rejects keys whose character is a hint character.
	NotInHintChars
)

// Mode tables a spec contributes to.
const (
	tableTrigger uint8 = 1 << iota
	tableHint
	tableGridSelect
	tablePointer
)

// Spec describes one configurable binding and its default.
type Spec struct {
	Field   string
	Action  Action
	Default string
	Checks  Check
	tables  uint8
}

// Specs lists every configurable binding in declaration order.
var Specs = []Spec{
	{"key_show_hints", ActionShowHints, "<S><D>.", RequireModifiers, tableTrigger},
	{"key_show_grid", ActionShowGrid, "<S><D>,", RequireModifiers, tableTrigger},
	{"key_start_scroll", ActionStartScroll, "<S><D>j", RequireModifiers, tableTrigger},
	{"key_close", ActionClose, "<Esc>", NotInHintChars, tableHint | tableGridSelect | tablePointer},
	{"key_enter_search_mode", ActionEnterSearch, "/", NotInHintChars, tableHint},
	{"key_next_search_occurence", ActionNextOccurrence, "<Tab>", RequireNonPrintable, tableHint},
	{"key_prev_search_occurence", ActionPrevOccurrence, "<S><Tab>", RequireNonPrintable, tableHint},
	{"key_select_occurence", ActionSelectOccurrence, "<CR>", RequireNonPrintable, tableHint},
	{"key_drop_last_search_char", ActionDeleteSearchChar, "<BS>", RequireNonPrintable, tableHint},
	{"key_toggle_z_index", ActionToggleZOrder, ";", NotInHintChars, tableHint},
	{"key_mouse_left", ActionMoveLeft, "h", 0, tablePointer},
	{"key_mouse_down", ActionMoveDown, "j", 0, tablePointer},
	{"key_mouse_up", ActionMoveUp, "k", 0, tablePointer},
	{"key_mouse_right", ActionMoveRight, "l", 0, tablePointer},
	{"key_scroll_left", ActionScrollLeft, "<S>h", 0, tablePointer},
	{"key_scroll_down", ActionScrollDown, "<S>j", 0, tablePointer},
	{"key_scroll_up", ActionScrollUp, "<S>k", 0, tablePointer},
	{"key_scroll_right", ActionScrollRight, "<S>l", 0, tablePointer},
	{"key_scroll_page_down", ActionScrollPageDown, "d", 0, tablePointer},
	{"key_scroll_page_up", ActionScrollPageUp, "u", 0, tablePointer},
	{"key_scroll_full_down", ActionScrollFullDown, "<S>g", 0, tablePointer},
	{"key_scroll_full_up", ActionScrollFullUp, "g", 0, tablePointer},
	{"key_enter_visual", ActionToggleDrag, "v", 0, tablePointer},
	{"key_reopen_grid_view", ActionReopenGrid, "/", 0, tablePointer},
	{"key_right_click", ActionRightClick, ".", 0, tablePointer},
	{"key_left_click", ActionLeftClick, "<CR>", 0, tablePointer},
}

// SpecFor returns the spec of a configuration field.
func SpecFor(field string) (Spec, bool) {
	for _, s := range Specs {
		if s.Field == field {
			return s, true
		}
	}
	return Spec{}, false
}

// Defaults returns the default binding string of every field.
func Defaults() map[string]string {
	out := make(map[string]string, len(Specs))
	for _, s := range Specs {
		out[s.Field] = s.Default
	}
	return out
}
