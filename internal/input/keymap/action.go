package keymap

// Action identifies what a binding does.
type Action uint8

const (
	ActionNone Action = iota

	// Triggers, active while no mode is open.
	ActionShowHints
	ActionShowGrid
	ActionStartScroll

	// Shared.
	ActionClose

	// Hint mode.
	ActionEnterSearch
	ActionNextOccurrence
	ActionPrevOccurrence
	ActionSelectOccurrence
	ActionDeleteSearchChar
	ActionToggleZOrder

	// Pointer control.
	ActionMoveLeft
	ActionMoveDown
	ActionMoveUp
	ActionMoveRight
	ActionScrollLeft
	ActionScrollDown
	ActionScrollUp
	ActionScrollRight
	ActionScrollPageDown
	ActionScrollPageUp
	ActionScrollFullDown
	ActionScrollFullUp
	ActionToggleDrag
	ActionReopenGrid
	ActionRightClick
	ActionLeftClick
)

var actionNames = [...]string{
	ActionNone:             "none",
	ActionShowHints:        "show_hints",
	ActionShowGrid:         "show_grid",
	ActionStartScroll:      "start_scroll",
	ActionClose:            "close",
	ActionEnterSearch:      "enter_search_mode",
	ActionNextOccurrence:   "next_search_occurence",
	ActionPrevOccurrence:   "prev_search_occurence",
	ActionSelectOccurrence: "select_occurence",
	ActionDeleteSearchChar: "drop_last_search_char",
	ActionToggleZOrder:     "toggle_z_index",
	ActionMoveLeft:         "mouse_left",
	ActionMoveDown:         "mouse_down",
	ActionMoveUp:           "mouse_up",
	ActionMoveRight:        "mouse_right",
	ActionScrollLeft:       "scroll_left",
	ActionScrollDown:       "scroll_down",
	ActionScrollUp:         "scroll_up",
	ActionScrollRight:      "scroll_right",
	ActionScrollPageDown:   "scroll_page_down",
	ActionScrollPageUp:     "scroll_page_up",
	ActionScrollFullDown:   "scroll_full_down",
	ActionScrollFullUp:     "scroll_full_up",
	ActionToggleDrag:       "enter_visual",
	ActionReopenGrid:       "reopen_grid_view",
	ActionRightClick:       "right_click",
	ActionLeftClick:        "left_click",
}

// String returns the configuration name of the action.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}
