// Package key provides physical key codes, modifiers, key events and the
// binding string parser.
//
// Key values are hardware virtual key codes of the ANSI layout, so a
// binding names a physical key regardless of the active keyboard layout.
//
// # Binding Strings
//
// A binding is zero or more modifier tokens followed by exactly one key:
//
//   - Modifiers: "<S>" shift, "<C>" control, "<M>" option, "<D>" command,
//     "<Fn>" function, or the glyphs "⇧", "⌃", "⌥", "⌘"
//   - Keys: "a"-"z", "0"-"9", punctuation such as ";" and "/", and
//     "<Left>", "<Right>", "<Up>", "<Down>", "<Space>", "<Caps>", "<Tab>",
//     "<BS>", "<Esc>", "<CR>"
//   - A single key may be quoted: "'/'"
//
// Examples: "<S><D>.", "<Esc>", "⇧⌘j", "<S>h".
package key
