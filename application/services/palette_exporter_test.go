package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contrastboard/domain/core/entities"
	"contrastboard/domain/core/valueobjects"
	"contrastboard/pkg/errors"
)

func TestExportPalette(t *testing.T) {
	entries := []PaletteEntry{
		{Title: "Brand Red!", Color: "#ff0000"},
		{Title: "Ink", Color: "#000000"},
	}

	tests := []struct {
		name string
		opts ExportOptions
		want string
	}{
		{
			name: "hex lines by default",
			opts: ExportOptions{},
			want: "#FF0000\n#000000",
		},
		{
			name: "rgb comma separated",
			opts: ExportOptions{Format: FormatRGB, Separator: SeparatorComma},
			want: "rgb(255, 0, 0), rgb(0, 0, 0)",
		},
		{
			name: "hsl space separated",
			opts: ExportOptions{Format: FormatHSL, Separator: SeparatorSpace},
			want: "hsl(0, 100%, 50%) hsl(0, 0%, 0%)",
		},
		{
			name: "css variables",
			opts: ExportOptions{Format: FormatCSS},
			want: "--brand-red: #FF0000;\n--ink: #000000;",
		},
		{
			name: "css variables with variants",
			opts: ExportOptions{Format: FormatCSS, Variants: true, VariantPercent: 30},
			want: "--brand-red: #FF0000;\n--brand-red-light: #FF4C4C;\n--brand-red-dark: #B20000;\n" +
				"--ink: #000000;\n--ink-light: #4C4C4C;\n--ink-dark: #000000;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExportPalette(entries, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExportPaletteRejectsUnknownOptions(t *testing.T) {
	entries := []PaletteEntry{{Title: "a", Color: "#FFFFFF"}}

	_, err := ExportPalette(entries, ExportOptions{Format: "cmyk"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, "INVALID_FORMAT", errors.GetAppError(err).Code)

	_, err = ExportPalette(entries, ExportOptions{Separator: "tab"})
	require.Error(t, err)
	assert.Equal(t, "INVALID_SEPARATOR", errors.GetAppError(err).Code)
}

func TestEntriesFromNodesUseLastValidColor(t *testing.T) {
	node := entities.NewNode(valueobjects.MustNodeID("node-0"), valueobjects.Position{}, valueobjects.MustHexColor("#123456"), "Draft")
	node.SetColor("#12")

	entries := EntriesFromNodes([]entities.NodeSnapshot{node.Snapshot(nil)})
	assert.Equal(t, []PaletteEntry{{Title: "Draft", Color: "#123456"}}, entries)
}

func TestCSSName(t *testing.T) {
	assert.Equal(t, "primary-blue-2", CSSName("  Primary Blue #2 "))
	assert.Equal(t, "", CSSName("!!!"))
}
