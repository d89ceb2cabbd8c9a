package colormath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		name    string
		hex     string
		want    RGB
		wantErr bool
	}{
		{name: "full", hex: "#0AABFF", want: RGB{R: 10, G: 171, B: 255}},
		{name: "no hash lowercase", hex: "0aabff", want: RGB{R: 10, G: 171, B: 255}},
		{name: "short", hex: "#F00", want: RGB{R: 255}},
		{name: "bad length", hex: "#12", wantErr: true},
		{name: "bad digits", hex: "#ZZZZZZ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HexToRGB(tt.hex)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "#0AABFF", RGBToHex(RGB{R: 10, G: 171, B: 255}))
}

func TestContrastRatio(t *testing.T) {
	ratio, err := ContrastRatio("#000000", "#FFFFFF")
	require.NoError(t, err)
	assert.InDelta(t, 21.0, ratio, 1e-9)

	reversed, err := ContrastRatio("#FFFFFF", "#000000")
	require.NoError(t, err)
	assert.InDelta(t, ratio, reversed, 1e-12)

	same, err := ContrastRatio("#777777", "#777777")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, same, 1e-12)

	// #767676 on white is the classic AA boundary, just above 4.5
	grey, err := ContrastRatio("#767676", "#FFFFFF")
	require.NoError(t, err)
	assert.InDelta(t, 4.54, grey, 0.01)
	assert.True(t, Passes(grey, 4.5))
	assert.Equal(t, EdgePass, EdgeColorFor(grey, 4.5))
	assert.Equal(t, EdgeFail, EdgeColorFor(grey, 7))

	_, err = ContrastRatio("nope", "#FFFFFF")
	assert.Error(t, err)
}

func TestShades(t *testing.T) {
	light, err := Lighten("#000000", 30)
	require.NoError(t, err)
	assert.Equal(t, "#4C4C4C", light)

	dark, err := Darken("#FFFFFF", 30)
	require.NoError(t, err)
	assert.Equal(t, "#B2B2B2", dark)

	same, err := Lighten("#123456", 0)
	require.NoError(t, err)
	assert.Equal(t, "#123456", same)

	white, err := Lighten("#123456", 150)
	require.NoError(t, err)
	assert.Equal(t, "#FFFFFF", white)

	short, err := Darken("abc", 0)
	require.NoError(t, err)
	assert.Equal(t, "#AABBCC", short, "bare three-digit hex expands")

	_, err = Darken("#zz", 10)
	assert.Error(t, err)
	_, err = Lighten("12345", 10)
	assert.Error(t, err)
}

func TestHSVRoundTrip(t *testing.T) {
	assert.Equal(t, HSV{H: 0, S: 100, V: 100}, RGBToHSV(RGB{R: 255}, 0, 0))
	assert.Equal(t, RGB{G: 255}, HSVToRGB(HSV{H: 120, S: 100, V: 100}))
	assert.Equal(t, RGB{B: 255}, HSVToRGB(HSV{H: 240, S: 100, V: 100}))
	assert.Equal(t, RGB{}, HSVToRGB(HSV{H: 200, S: 50, V: 0}))
	assert.Equal(t, RGB{R: 128, G: 128, B: 128}, HSVToRGB(HSV{H: 10, S: 0, V: 50.2}))

	// grey keeps the previous hue, black keeps hue and saturation
	grey := RGBToHSV(RGB{R: 128, G: 128, B: 128}, 200, 40)
	assert.Equal(t, 200.0, grey.H)
	assert.Equal(t, 0.0, grey.S)
	black := RGBToHSV(RGB{}, 200, 40)
	assert.Equal(t, HSV{H: 200, S: 40, V: 0}, black)

	for _, c := range []RGB{{R: 255, G: 128}, {R: 12, G: 200, B: 99}, {R: 90, G: 20, B: 240}} {
		back := HSVToRGB(RGBToHSV(c, 0, 0))
		assert.InDelta(t, float64(c.R), float64(back.R), 3)
		assert.InDelta(t, float64(c.G), float64(back.G), 3)
		assert.InDelta(t, float64(c.B), float64(back.B), 3)
	}
}

func TestHexToHSL(t *testing.T) {
	red, err := HexToHSL("#FF0000")
	require.NoError(t, err)
	assert.Equal(t, HSL{H: 0, S: 100, L: 50}, red)

	grey, err := HexToHSL("#808080")
	require.NoError(t, err)
	assert.Equal(t, HSL{H: 0, S: 0, L: 50}, grey)

	_, err = HexToHSL("#12")
	assert.Error(t, err)
}
