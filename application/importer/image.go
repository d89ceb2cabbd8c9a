package importer

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math/rand"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"contrastboard/domain/colormath"
	"contrastboard/domain/config"
	"contrastboard/domain/core/valueobjects"
	"contrastboard/pkg/errors"
)

// ImageOptions tunes palette extraction from an image
type ImageOptions struct {
	Clusters     int
	Iterations   int
	MaxDimension int
	// Pixels with alpha at or below the cutoff are ignored
	AlphaCutoff uint8
	Seed        int64
}

// ImageOptionsFromConfig builds options from domain settings
func ImageOptionsFromConfig(cfg *config.DomainConfig) ImageOptions {
	return ImageOptions{
		Clusters:     cfg.DefaultClusterCount,
		Iterations:   cfg.KMeansIterations,
		MaxDimension: cfg.KMeansMaxDimension,
		AlphaCutoff:  cfg.KMeansAlphaCutoff,
		Seed:         cfg.KMeansSeed,
	}
}

// ExtractImagePalette decodes an image, shrinks it so its longest side is
// at most MaxDimension and clusters the opaque pixels into Clusters colors.
// The same input and seed always produce the same palette.
func ExtractImagePalette(r io.Reader, opts ImageOptions) ([]valueobjects.HexColor, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", errors.NewValidationError("unsupported or corrupt image").
			WithCode("INVALID_IMAGE").
			WithCause(err)
	}

	pixels := opaquePixels(downscale(img, opts.MaxDimension), opts.AlphaCutoff)
	centers := KMeans(pixels, opts.Clusters, opts.Iterations, rand.New(rand.NewSource(opts.Seed)))

	out := make([]valueobjects.HexColor, len(centers))
	for i, c := range centers {
		out[i] = valueobjects.MustHexColor(colormath.RGBToHex(c))
	}
	return out, format, nil
}

func downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}
	if w > h {
		h = max(1, int(float64(h)*float64(maxDim)/float64(w)+0.5))
		w = maxDim
	} else {
		w = max(1, int(float64(w)*float64(maxDim)/float64(h)+0.5))
		h = maxDim
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func opaquePixels(img image.Image, cutoff uint8) []colormath.RGB {
	b := img.Bounds()
	out := make([]colormath.RGB, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A <= cutoff {
				continue
			}
			out = append(out, colormath.RGB{R: c.R, G: c.G, B: c.B})
		}
	}
	return out
}
