package colormath

import "math"

// Lighten moves each channel toward 255 by pct percent
func Lighten(hex string, pct float64) (string, error) {
	c, err := HexToRGB(hex)
	if err != nil {
		return "", err
	}
	f := clampPercent(pct) / 100
	lift := func(v uint8) uint8 {
		return uint8(math.Min(255, math.Floor(float64(v)+(255-float64(v))*f)))
	}
	return RGBToHex(RGB{R: lift(c.R), G: lift(c.G), B: lift(c.B)}), nil
}

// Darken scales each channel toward 0 by pct percent
func Darken(hex string, pct float64) (string, error) {
	c, err := HexToRGB(hex)
	if err != nil {
		return "", err
	}
	f := clampPercent(pct) / 100
	drop := func(v uint8) uint8 {
		return uint8(math.Max(0, math.Floor(float64(v)*(1-f))))
	}
	return RGBToHex(RGB{R: drop(c.R), G: drop(c.G), B: drop(c.B)}), nil
}

func clampPercent(p float64) float64 {
	return math.Max(0, math.Min(100, p))
}
