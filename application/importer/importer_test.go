package importer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contrastboard/domain/colormath"
	"contrastboard/domain/config"
	"contrastboard/domain/core/valueobjects"
	"contrastboard/pkg/errors"
)

func hexes(colors []valueobjects.HexColor) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.String()
	}
	return out
}

func TestExtractHexColors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"plain list", "#FF0000\n#00ff00\n#0000FF", []string{"#FF0000", "#00FF00", "#0000FF"}},
		{"case-insensitive duplicates", "#abcdef #ABCDEF #AbCdEf", []string{"#ABCDEF"}},
		{"embedded in css", "--primary: #112233; --accent:#445566;", []string{"#112233", "#445566"}},
		{"short form is ignored", "#FFF #12345", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hexes(ExtractHexColors(tt.text)))
		})
	}
}

func TestDedupeDropsMalformed(t *testing.T) {
	got := Dedupe([]string{"#GGGGGG", "fff", "#FFFFFF", "#000"})
	assert.Equal(t, []string{"#FFFFFF", "#000000"}, hexes(got))
}

func TestKMeans(t *testing.T) {
	red := colormath.RGB{R: 255}
	blue := colormath.RGB{B: 255}

	t.Run("no pixels", func(t *testing.T) {
		assert.Nil(t, KMeans(nil, 3, 10, rand.New(rand.NewSource(1))))
	})

	t.Run("zero clusters", func(t *testing.T) {
		assert.Nil(t, KMeans([]colormath.RGB{red}, 0, 10, rand.New(rand.NewSource(1))))
	})

	t.Run("separates two colors for any seed", func(t *testing.T) {
		var pixels []colormath.RGB
		for i := 0; i < 50; i++ {
			pixels = append(pixels, red, blue)
		}
		for seed := int64(0); seed < 10; seed++ {
			got := KMeans(pixels, 2, 10, rand.New(rand.NewSource(seed)))
			assert.ElementsMatch(t, []colormath.RGB{red, blue}, got, "seed %d", seed)
		}
	})

	t.Run("deterministic for a seed", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		pixels := make([]colormath.RGB, 300)
		for i := range pixels {
			pixels[i] = colormath.RGB{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256))}
		}
		a := KMeans(pixels, 5, 10, rand.New(rand.NewSource(9)))
		b := KMeans(pixels, 5, 10, rand.New(rand.NewSource(9)))
		assert.Equal(t, a, b)
		assert.Len(t, a, 5)
	})
}

func encodePNG(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestExtractImagePalette(t *testing.T) {
	opts := ImageOptionsFromConfig(config.DefaultDomainConfig())

	t.Run("uniform image", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 400, 200))
		for y := 0; y < 200; y++ {
			for x := 0; x < 400; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: 0x33, G: 0x66, B: 0x99, A: 255})
			}
		}
		o := opts
		o.Clusters = 1
		got, format, err := ExtractImagePalette(encodePNG(t, img), o)
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, []string{"#336699"}, hexes(got))
	})

	t.Run("transparent pixels are ignored", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
		for y := 0; y < 20; y++ {
			for x := 0; x < 20; x++ {
				c := color.NRGBA{G: 255, A: 255}
				if x < 10 {
					c = color.NRGBA{R: 255, A: 50}
				}
				img.SetNRGBA(x, y, c)
			}
		}
		o := opts
		o.Clusters = 1
		got, _, err := ExtractImagePalette(encodePNG(t, img), o)
		require.NoError(t, err)
		assert.Equal(t, []string{"#00FF00"}, hexes(got))
	})

	t.Run("corrupt input", func(t *testing.T) {
		_, _, err := ExtractImagePalette(strings.NewReader("not an image"), opts)
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	})
}

func TestDownscale(t *testing.T) {
	wide := image.NewNRGBA(image.Rect(0, 0, 400, 200))
	assert.Equal(t, image.Rect(0, 0, 100, 50), downscale(wide, 100).Bounds())

	tall := image.NewNRGBA(image.Rect(0, 0, 30, 300))
	assert.Equal(t, image.Rect(0, 0, 10, 100), downscale(tall, 100).Bounds())

	small := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	assert.Same(t, small, downscale(small, 100))
}
