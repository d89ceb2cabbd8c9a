// Package cli is the palette command line: one-off color math plus
// offline import, export and contrast reports against a throwaway board.
package cli

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"contrastboard/infrastructure/config"
	apperrors "contrastboard/pkg/errors"
)

// Options configures the command tree
type Options struct {
	Out io.Writer
	// LoadConfig defaults to config.LoadConfig
	LoadConfig func() (*config.Config, error)
}

// NewRootCommand builds the palette command tree
func NewRootCommand(opts Options) *cobra.Command {
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.LoadConfig
	}

	var noColor bool
	root := &cobra.Command{
		Use:   "palette",
		Short: "Check color contrast and manage palettes",
		Long: `palette rates color pairs against the WCAG contrast ratio, extracts
palettes from text and images, and runs the contrastboard API server.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}
	if opts.Out != nil {
		root.SetOut(opts.Out)
		root.SetErr(opts.Out)
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newContrastCommand(opts),
		newShadesCommand(opts),
		newImportCommand(opts),
		newExportCommand(opts),
		newReportCommand(opts),
		newServeCommand(opts),
	)
	return root
}

// ExitCode maps a command error to a process exit status: 2 for rejected
// input, 3 for a missing file or resource, 4 for a conflict, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case apperrors.IsValidation(err):
		return 2
	case apperrors.IsNotFound(err):
		return 3
	case apperrors.IsConflict(err):
		return 4
	default:
		return 1
	}
}
