package colormath

import "math"

// EdgeColor is the stroke a connection gets for its contrast verdict
type EdgeColor string

const (
	EdgeFail EdgeColor = "red"
	EdgePass EdgeColor = "green"
)

// RelativeLuminance is the WCAG 2.x relative luminance of an sRGB color
func RelativeLuminance(c RGB) float64 {
	linear := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*linear(c.R) + 0.7152*linear(c.G) + 0.0722*linear(c.B)
}

// ContrastRatio returns a value in [1, 21]; order of arguments does not matter
func ContrastRatio(hexA, hexB string) (float64, error) {
	a, err := HexToRGB(hexA)
	if err != nil {
		return 0, err
	}
	b, err := HexToRGB(hexB)
	if err != nil {
		return 0, err
	}
	la := RelativeLuminance(a)
	lb := RelativeLuminance(b)
	return (math.Max(la, lb) + 0.05) / (math.Min(la, lb) + 0.05), nil
}

// Passes reports whether ratio meets threshold
func Passes(ratio, threshold float64) bool {
	return ratio >= threshold
}

// EdgeColorFor colors an edge red below threshold and green at or above
func EdgeColorFor(ratio, threshold float64) EdgeColor {
	if Passes(ratio, threshold) {
		return EdgePass
	}
	return EdgeFail
}
