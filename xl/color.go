package xl

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an ARGB color. The zero value means "automatic".
type Color uint32

// ColorAuto leaves the color to the consuming application.
const ColorAuto Color = 0

// Named colors.
const (
	Black   Color = 0xFF000000
	White   Color = 0xFFFFFFFF
	Red     Color = 0xFFFF0000
	Green   Color = 0xFF008000
	Blue    Color = 0xFF0000FF
	Yellow  Color = 0xFFFFFF00
	Orange  Color = 0xFFFF6600
	Gray    Color = 0xFF808080
	Silver  Color = 0xFFC0C0C0
	Navy    Color = 0xFF000080
	Purple  Color = 0xFF800080
	Magenta Color = 0xFFFF00FF
	Cyan    Color = 0xFF00FFFF
	Brown   Color = 0xFF800000
	Lime    Color = 0xFF00FF00
)

// RGB builds an opaque color.
func RGB(r, g, b uint8) Color {
	return Color(0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// ParseColor accepts "#RRGGBB", "RRGGBB" or "AARRGGBB".
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	switch len(h) {
	case 6:
		h = "FF" + h
	case 8:
	default:
		return 0, fmt.Errorf("color %q: %w", s, ErrInvalidNumber)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, ErrInvalidNumber)
	}
	return Color(v), nil
}

// IsAuto reports whether the color is unset.
func (c Color) IsAuto() bool { return c == ColorAuto }

// ARGB renders the color the way the markup expects it, e.g. "FF638EC6".
func (c Color) ARGB() string {
	return fmt.Sprintf("%08X", uint32(c))
}

func (c Color) String() string {
	if c.IsAuto() {
		return "auto"
	}
	return fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF)
}
