package model

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// RGB is an opaque color.
type RGB struct {
	R uint8 `json:"r" toml:"r"`
	G uint8 `json:"g" toml:"g"`
	B uint8 `json:"b" toml:"b"`
}

// White is the default canvas background.
var White = RGB{R: 255, G: 255, B: 255}

// NRGBA returns the color with full opacity.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHexColor parses "#rrggbb", "rrggbb" or the short "#rgb" form.
func ParseHexColor(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("%w: invalid color %q", ErrInvalidSettings, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: invalid color %q", ErrInvalidSettings, s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
