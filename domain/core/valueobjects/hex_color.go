package valueobjects

import (
	"regexp"
	"strings"

	pkgerrors "contrastboard/pkg/errors"
)

var (
	fullHexPattern    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	partialHexPattern = regexp.MustCompile(`^#?[0-9A-Fa-f]{0,6}$`)
	looseHexPattern   = regexp.MustCompile(`^#?([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)
)

// HexColor is a canonical #RRGGBB uppercase color
type HexColor struct {
	value string
}

// White is the placeholder color for fresh nodes
var White = HexColor{value: "#FFFFFF"}

// ParseHexColor accepts #RGB, RGB, #RRGGBB or RRGGBB in any case
func ParseHexColor(s string) (HexColor, error) {
	s = strings.TrimSpace(s)
	if !looseHexPattern.MatchString(s) {
		return HexColor{}, pkgerrors.NewMalformedColorError(s)
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	return HexColor{value: "#" + strings.ToUpper(s)}, nil
}

// MustHexColor is ParseHexColor for literals known to be valid
func MustHexColor(s string) HexColor {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsCanonicalHex reports whether s is a complete #RRGGBB string (any case)
func IsCanonicalHex(s string) bool {
	return fullHexPattern.MatchString(s)
}

// IsPartialHex reports whether s could still become a hex color while typing
func IsPartialHex(s string) bool {
	return partialHexPattern.MatchString(s)
}

// String returns the canonical form
func (c HexColor) String() string {
	return c.value
}

// IsZero checks if the color is unset
func (c HexColor) IsZero() bool {
	return c.value == ""
}

// Equals compares canonical values
func (c HexColor) Equals(other HexColor) bool {
	return c.value == other.value
}

// EqualFold compares against a raw string case-insensitively
func (c HexColor) EqualFold(raw string) bool {
	return strings.EqualFold(c.value, raw)
}
