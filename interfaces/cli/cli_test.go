package cli

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contrastboard/infrastructure/config"
	apperrors "contrastboard/pkg/errors"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand(Options{
		Out:        &out,
		LoadConfig: func() (*config.Config, error) { return config.DefaultConfig(), nil },
	})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestContrastCommand(t *testing.T) {
	out, err := run(t, "", "contrast", "#000", "ffffff")
	require.NoError(t, err)
	assert.Contains(t, out, "#000000 on ")
	assert.Contains(t, out, "21.00:1 ✓ pass (threshold 4.5)")

	out, err = run(t, "", "contrast", "#777777", "#888888", "--threshold", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "✗ fail (threshold 3)")

	_, err = run(t, "", "contrast", "#777777", "#888888", "--strict")
	assert.True(t, apperrors.IsValidation(err))

	_, err = run(t, "", "contrast", "#000000", "#FFFFFF", "--threshold", "25")
	assert.Error(t, err)

	_, err = run(t, "", "contrast", "#12", "#FFFFFF")
	assert.Equal(t, "MALFORMED_COLOR", apperrors.GetAppError(err).Code)
}

func TestShadesCommand(t *testing.T) {
	out, err := run(t, "", "shades", "#808080", "--lighten", "50", "--darken", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "light  #BFBFBF")
	assert.Contains(t, out, "base   #808080")
	assert.Contains(t, out, "dark   #404040")
}

func TestImportCommand(t *testing.T) {
	path := writeFile(t, "theme.css", []byte(":root { --bg: #ffffff; --fg: #1A1A1A; --link: #FFFFFF; --muted: #ccc; }"))

	out, err := run(t, "", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1  #FFFFFF")
	assert.Contains(t, out, "2  #1A1A1A")
	assert.Contains(t, out, "palette 2 colors")

	out, err = run(t, "no colors here", "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "no colors found")

	_, err = run(t, "", "import", filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 3, ExitCode(err))

	_, err = run(t, "", "import", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
	assert.Equal(t, 1, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"validation", apperrors.NewMalformedColorError("#12"), 2},
		{"wrapped validation", fmt.Errorf("send: %w", apperrors.NewValidationError("bad")), 2},
		{"not found", apperrors.NewNotFoundError("board"), 3},
		{"conflict", apperrors.NewConflictError("taken"), 4},
		{"internal", apperrors.NewInternalError("boom"), 1},
		{"plain", errors.New("unknown flag"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}

	_, err := run(t, "", "contrast", "#777777", "#888888", "--strict")
	assert.Equal(t, 2, ExitCode(err))
}

func TestImportCommandReadsImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := writeFile(t, "swatch", buf.Bytes())

	out, err := run(t, "", "import", path, "-k", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "#336699")
}

func TestExportCommand(t *testing.T) {
	path := writeFile(t, "colors.txt", []byte("#FF0000 #00FF00"))

	out, err := run(t, "", "export", path, "--format", "rgb", "--separator", "comma")
	require.NoError(t, err)
	assert.Equal(t, "rgb(255, 0, 0), rgb(0, 255, 0)\n", out)

	_, err = run(t, "", "export", path, "--format", "cmyk")
	assert.True(t, apperrors.IsValidation(err))
}

func TestReportCommand(t *testing.T) {
	path := writeFile(t, "colors.txt", []byte("#000000 #FFFFFF #777777"))

	out, err := run(t, "", "report", path)
	require.NoError(t, err)
	assert.Contains(t, out, "FROM")
	assert.Contains(t, out, "21.00:1")
	assert.Contains(t, out, "at 4.5:1")

	_, err = run(t, "", "report", path, "--threshold", "21", "--strict")
	assert.Error(t, err)

	out, err = run(t, "#000000", "report", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to compare")
}
