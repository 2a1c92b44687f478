package config

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB colour with opacity.
type Color struct {
	colorful.Color
	Alpha float64
}

// Colors holds the overlay colours.
type Colors struct {
	HintBG      Color
	HintFG      Color
	Pointer     Color
	PointerDrag Color
	Outline     Color
}

// ParseColor parses #rrggbb or #rrggbbaa; the leading # is optional.
func ParseColor(s string) (Color, bool) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, false
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return Color{}, false
	}
	c, err := colorful.Hex("#" + hex[:6])
	if err != nil {
		return Color{}, false
	}
	alpha := 1.0
	if len(hex) == 8 {
		a, _ := strconv.ParseUint(hex[6:], 16, 8)
		alpha = float64(a) / 255
	}
	return Color{Color: c, Alpha: alpha}, true
}

func parseColors(s Settings) (Colors, error) {
	var out Colors
	fields := []struct {
		field string
		value string
		dst   *Color
	}{
		{"color_bg", s.ColorBG, &out.HintBG},
		{"color_fg", s.ColorFG, &out.HintFG},
		{"mouse_color_normal", s.MouseColorNormal, &out.Pointer},
		{"mouse_color_visual", s.MouseColorVisual, &out.PointerDrag},
		{"mouse_outline_color", s.MouseOutlineColor, &out.Outline},
	}
	for _, f := range fields {
		c, ok := ParseColor(f.value)
		if !ok {
			return Colors{}, invalid(f.field, "must be a hex string, e.g. #000000")
		}
		*f.dst = c
	}
	return out, nil
}
