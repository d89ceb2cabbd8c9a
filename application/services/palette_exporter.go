package services

import (
	"fmt"
	"regexp"
	"strings"

	"contrastboard/domain/colormath"
	"contrastboard/domain/core/entities"
	"contrastboard/pkg/errors"
)

// ExportFormat selects how each color is written
type ExportFormat string

const (
	FormatHex ExportFormat = "hex"
	FormatRGB ExportFormat = "rgb"
	FormatHSL ExportFormat = "hsl"
	FormatCSS ExportFormat = "css"
)

// ExportSeparator selects what goes between exported colors
type ExportSeparator string

const (
	SeparatorNewline ExportSeparator = "newline"
	SeparatorComma   ExportSeparator = "comma"
	SeparatorSpace   ExportSeparator = "space"
)

// ExportOptions configures a palette export
type ExportOptions struct {
	Format    ExportFormat
	Separator ExportSeparator
	// Variants adds a lightened and a darkened entry after each color
	Variants       bool
	VariantPercent float64
}

// PaletteEntry is one color to export
type PaletteEntry struct {
	Title string
	Color string
}

type shade struct {
	suffix string
	color  string
}

var cssNameInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// EntriesFromNodes uses each node's last valid color, so a node in the
// middle of a hex edit still exports its committed color
func EntriesFromNodes(nodes []entities.NodeSnapshot) []PaletteEntry {
	out := make([]PaletteEntry, len(nodes))
	for i, n := range nodes {
		out[i] = PaletteEntry{Title: n.Title, Color: effectiveColor(n)}
	}
	return out
}

// ExportPalette renders entries in the requested format
func ExportPalette(entries []PaletteEntry, opts ExportOptions) (string, error) {
	sep, err := separatorFor(opts.Separator)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, e := range entries {
		variants := []shade{{"", e.Color}}
		if opts.Variants {
			light, err := colormath.Lighten(e.Color, opts.VariantPercent)
			if err != nil {
				return "", errors.NewMalformedColorError(e.Color)
			}
			dark, _ := colormath.Darken(e.Color, opts.VariantPercent)
			variants = append(variants, shade{"-light", light}, shade{"-dark", dark})
		}
		for _, v := range variants {
			s, err := formatColor(v.color, e.Title, v.suffix, opts.Format)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep), nil
}

// CSSName kebab-cases a title for use as a custom property name
func CSSName(title string) string {
	name := cssNameInvalid.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(name, "-")
}

func formatColor(hex, title, suffix string, format ExportFormat) (string, error) {
	rgb, err := colormath.HexToRGB(hex)
	if err != nil {
		return "", errors.NewMalformedColorError(hex)
	}
	switch format {
	case FormatHex, "":
		return strings.ToUpper(hex), nil
	case FormatRGB:
		return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B), nil
	case FormatHSL:
		hsl := colormath.RGBToHSL(rgb)
		return fmt.Sprintf("hsl(%d, %d%%, %d%%)", int(hsl.H), int(hsl.S), int(hsl.L)), nil
	case FormatCSS:
		return fmt.Sprintf("--%s%s: %s;", CSSName(title), suffix, strings.ToUpper(hex)), nil
	default:
		return "", errors.NewValidationError(fmt.Sprintf("unknown export format %q", format)).WithCode("INVALID_FORMAT")
	}
}

func separatorFor(s ExportSeparator) (string, error) {
	switch s {
	case SeparatorNewline, "":
		return "\n", nil
	case SeparatorComma:
		return ", ", nil
	case SeparatorSpace:
		return " ", nil
	default:
		return "", errors.NewValidationError(fmt.Sprintf("unknown separator %q", s)).WithCode("INVALID_SEPARATOR")
	}
}
