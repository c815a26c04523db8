package vecdoc

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var namedColors = map[string]color.NRGBA{
	"black":  {0, 0, 0, 0xff},
	"white":  {0xff, 0xff, 0xff, 0xff},
	"red":    {0xff, 0, 0, 0xff},
	"green":  {0, 0x80, 0, 0xff},
	"blue":   {0, 0, 0xff, 0xff},
	"yellow": {0xff, 0xff, 0, 0xff},
	"gray":   {0x80, 0x80, 0x80, 0xff},
}

// parseColor reads #rgb, #rrggbb, #rrggbbaa or a color name. An empty
// string yields def.
func parseColor(s string, def color.NRGBA) (color.NRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return def, nil
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("color %q: want #rrggbb or a name", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("color %q: bad length", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
