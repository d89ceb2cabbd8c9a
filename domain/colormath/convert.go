// Package colormath holds the pure color conversions used by the board:
// hex/RGB/HSV/HSL, shade variants and WCAG contrast.
package colormath

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGB is an 8-bit sRGB triple
type RGB struct {
	R, G, B uint8
}

// HSV uses degrees for hue and percentages for saturation and value
type HSV struct {
	H, S, V float64
}

// HSL uses degrees for hue and percentages for saturation and lightness
type HSL struct {
	H, S, L float64
}

// HexToRGB parses #RGB or #RRGGBB (hash optional)
func HexToRGB(hex string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// RGBToHex renders #RRGGBB uppercase
func RGBToHex(c RGB) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBToHSV converts to HSV. Hue is undefined for greys and black, and
// saturation is undefined for black; in those cases lastHue and lastSat are
// carried through so a picker does not jump while the value slider moves.
func RGBToHSV(c RGB, lastHue, lastSat float64) HSV {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC
	v := maxC * 100

	if maxC == 0 {
		return HSV{H: lastHue, S: lastSat, V: 0}
	}
	if diff < 0.0001 {
		return HSV{H: lastHue, S: 0, V: v}
	}

	var h float64
	switch maxC {
	case r:
		h = 60 * ((g-b)/diff + boolToFloat(g < b)*6)
	case g:
		h = 60 * ((b-r)/diff + 2)
	default:
		h = 60 * ((r-g)/diff + 4)
	}
	s := diff / maxC * 100

	return HSV{H: math.Round(h), S: math.Round(s), V: math.Round(v)}
}

// HSVToRGB converts back to 8-bit RGB
func HSVToRGB(c HSV) RGB {
	if c.V == 0 {
		return RGB{}
	}
	s := c.S / 100
	v := c.V / 100
	if s == 0 {
		grey := uint8(math.Round(v * 255))
		return RGB{R: grey, G: grey, B: grey}
	}

	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	chroma := v * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - chroma

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = chroma, x, 0
	case h < 120:
		r, g, b = x, chroma, 0
	case h < 180:
		r, g, b = 0, chroma, x
	case h < 240:
		r, g, b = 0, x, chroma
	case h < 300:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}

	return RGB{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
	}
}

// RGBToHSL converts to HSL with rounded components
func RGBToHSL(c RGB) HSL {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC
	l := (maxC + minC) / 2

	var h, s float64
	if diff != 0 {
		if l > 0.5 {
			s = diff / (2 - maxC - minC)
		} else {
			s = diff / (maxC + minC)
		}
		switch maxC {
		case r:
			h = (g-b)/diff + boolToFloat(g < b)*6
		case g:
			h = (b-r)/diff + 2
		default:
			h = (r-g)/diff + 4
		}
		h *= 60
	}

	return HSL{H: math.Round(h), S: math.Round(s * 100), L: math.Round(l * 100)}
}

// HexToHSL is RGBToHSL over a hex string
func HexToHSL(hex string) (HSL, error) {
	c, err := HexToRGB(hex)
	if err != nil {
		return HSL{}, err
	}
	return RGBToHSL(c), nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
