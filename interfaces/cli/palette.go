package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"contrastboard/application/commands"
	"contrastboard/application/commands/bus"
	"contrastboard/application/queries"
	"contrastboard/application/services"
	"contrastboard/domain/colormath"
	"contrastboard/domain/core/aggregates"
	"contrastboard/domain/core/valueobjects"
	"contrastboard/infrastructure/di"
	apperrors "contrastboard/pkg/errors"
)

// errFailing is returned by --strict runs that found a failing pair
var errFailing = apperrors.NewValidationError("contrast below threshold").WithCode("CONTRAST_FAILED")

func newContrastCommand(opts Options) *cobra.Command {
	var threshold float64
	var strict bool

	cmd := &cobra.Command{
		Use:   "contrast FOREGROUND BACKGROUND",
		Short: "Rate the contrast of two colors",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.LoadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Domain.ContrastThreshold
			}
			if threshold < cfg.Domain.MinContrast || threshold > cfg.Domain.MaxContrast {
				return apperrors.NewValidationError(fmt.Sprintf("threshold must be within [%g, %g]",
					cfg.Domain.MinContrast, cfg.Domain.MaxContrast))
			}

			fg, err := valueobjects.ParseHexColor(args[0])
			if err != nil {
				return err
			}
			bg, err := valueobjects.ParseHexColor(args[1])
			if err != nil {
				return err
			}
			ratio, err := colormath.ContrastRatio(fg.String(), bg.String())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			pass := colormath.Passes(ratio, threshold)
			fmt.Fprintf(out, "%s %s on %s %s\n", colorSwatch(fg), fg, colorSwatch(bg), bg)
			fmt.Fprintf(out, "%.2f:1 %s (threshold %g)\n", ratio, verdict(pass), threshold)

			if strict && !pass {
				return errFailing
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum passing ratio (default from configuration)")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when the pair fails")
	return cmd
}

func newShadesCommand(opts Options) *cobra.Command {
	var lighten, darken float64

	cmd := &cobra.Command{
		Use:   "shades COLOR",
		Short: "Print the lightened and darkened variants of a color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.LoadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("lighten") {
				lighten = cfg.Domain.LightenPercent
			}
			if !cmd.Flags().Changed("darken") {
				darken = cfg.Domain.DarkenPercent
			}

			base, err := valueobjects.ParseHexColor(args[0])
			if err != nil {
				return err
			}
			light, err := colormath.Lighten(base.String(), lighten)
			if err != nil {
				return err
			}
			dark, err := colormath.Darken(base.String(), darken)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"light", light, colorSwatch(valueobjects.MustHexColor(light))},
				{"base", base.String(), colorSwatch(base)},
				{"dark", dark, colorSwatch(valueobjects.MustHexColor(dark))},
			}
			table(cmd.OutOrStdout(), []string{"SHADE", "COLOR", ""}, rows)
			return nil
		},
	}
	cmd.Flags().Float64Var(&lighten, "lighten", 0, "lighten percentage (default from configuration)")
	cmd.Flags().Float64Var(&darken, "darken", 0, "darken percentage (default from configuration)")
	return cmd
}

func newImportCommand(opts Options) *cobra.Command {
	var clusters int

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Extract a palette from a text file or an image (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := openBoard(opts)
			if err != nil {
				return err
			}
			defer board.cleanup()

			imported, err := board.importFile(cmd.Context(), cmd.InOrStdin(), args[0], clusters)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(imported.Palette) == 0 {
				subtle.Fprintln(out, "no colors found")
				return nil
			}
			rows := make([][]string, len(imported.Palette))
			for i, hex := range imported.Palette {
				rows[i] = []string{fmt.Sprintf("%d", i+1), hex, colorSwatch(valueobjects.MustHexColor(hex))}
			}
			table(out, []string{"#", "COLOR", ""}, rows)
			fmt.Fprintf(out, "%s %d colors\n", brand.Sprint("palette"), len(imported.Palette))
			return nil
		},
	}
	cmd.Flags().IntVarP(&clusters, "clusters", "k", 0, "colors to extract from an image (default from configuration)")
	return cmd
}

func newExportCommand(opts Options) *cobra.Command {
	var clusters int
	var format, separator string
	var variants bool

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Extract a palette and print it as hex, rgb, hsl or CSS variables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := openBoard(opts)
			if err != nil {
				return err
			}
			defer board.cleanup()

			ctx := cmd.Context()
			if _, err := board.importFile(ctx, cmd.InOrStdin(), args[0], clusters); err != nil {
				return err
			}
			res, err := board.container.QueryBus.Ask(ctx, queries.ExportPaletteQuery{
				BoardScope: board.queryScope(),
				Format:     format,
				Separator:  separator,
				Variants:   variants,
			})
			if err != nil {
				return err
			}

			exported := res.(queries.ExportResult)
			if exported.Content != "" {
				fmt.Fprintln(cmd.OutOrStdout(), exported.Content)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&clusters, "clusters", "k", 0, "colors to extract from an image")
	cmd.Flags().StringVarP(&format, "format", "f", "hex", "hex, rgb, hsl or css")
	cmd.Flags().StringVar(&separator, "separator", "newline", "newline, comma or space")
	cmd.Flags().BoolVar(&variants, "variants", false, "add a lightened and a darkened entry per color")
	return cmd
}

func newReportCommand(opts Options) *cobra.Command {
	var clusters int
	var threshold float64
	var strict bool

	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Rate every pair of colors in a palette",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := openBoard(opts)
			if err != nil {
				return err
			}
			defer board.cleanup()

			ctx := cmd.Context()
			if _, err := board.importFile(ctx, cmd.InOrStdin(), args[0], clusters); err != nil {
				return err
			}
			res, err := board.container.QueryBus.Ask(ctx, queries.GetContrastReportQuery{
				BoardScope: board.queryScope(),
				Threshold:  threshold,
			})
			if err != nil {
				return err
			}

			report := res.(services.ContrastReport)
			out := cmd.OutOrStdout()
			if len(report.Entries) == 0 {
				subtle.Fprintln(out, "fewer than two colors, nothing to compare")
				return nil
			}

			rows := make([][]string, len(report.Entries))
			for i, e := range report.Entries {
				rows[i] = []string{e.FromColor, e.ToColor, fmt.Sprintf("%.2f:1", e.Ratio), verdict(e.Pass)}
			}
			table(out, []string{"FROM", "TO", "RATIO", "WCAG"}, rows)
			fmt.Fprintf(out, "%d passing, %d failing at %g:1\n", report.Passing, report.Failing, report.Threshold)

			if strict && report.Failing > 0 {
				return errFailing
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&clusters, "clusters", "k", 0, "colors to extract from an image")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum passing ratio (default from configuration)")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any pair fails")
	return cmd
}

// offlineBoard is a throwaway in-process board driven through the same
// buses as the API
type offlineBoard struct {
	container *di.Container
	cleanup   func()
}

func openBoard(opts Options) (*offlineBoard, error) {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return nil, err
	}
	cfg.EnableMetrics = false
	cfg.LogLevel = "error"

	container, cleanup, err := di.InitializeContainer(cfg)
	if err != nil {
		return nil, err
	}
	return &offlineBoard{container: container, cleanup: cleanup}, nil
}

func (b *offlineBoard) commandScope() commands.BoardScope {
	return commands.BoardScope{BoardID: aggregates.DefaultBoardID.String()}
}

func (b *offlineBoard) queryScope() queries.BoardScope {
	return queries.BoardScope{BoardID: aggregates.DefaultBoardID.String()}
}

// importFile sniffs the content type; images are clustered, anything else
// is scanned for hex literals
func (b *offlineBoard) importFile(ctx context.Context, stdin io.Reader, path string, clusters int) (*services.ImportResult, error) {
	data, err := readInput(stdin, path)
	if err != nil {
		return nil, err
	}

	var cmd bus.Command
	if strings.HasPrefix(http.DetectContentType(data), "image/") {
		cmd = commands.ImportImageCommand{BoardScope: b.commandScope(), Image: data, Clusters: clusters}
	} else {
		cmd = commands.ImportTextCommand{BoardScope: b.commandScope(), Text: string(data)}
	}

	res, err := b.container.CommandBus.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return res.(commands.Result).Import, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewNotFoundError(path).WithCode("INPUT_NOT_FOUND")
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to read %s", path)
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s is empty", path)).WithCode("EMPTY_INPUT")
	}
	return data, nil
}

func colorSwatch(c valueobjects.HexColor) string {
	rgb, err := colormath.HexToRGB(c.String())
	if err != nil {
		return ""
	}
	return swatch(rgb.R, rgb.G, rgb.B)
}
