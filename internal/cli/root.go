package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/engine"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	ConfigPath string  // YAML tuning file overlaid on config.Default()
	Width      float64 // viewport width in points
	Height     float64 // viewport height in points
	Seed       uint32  // 0 derives a seed from the clock
	AlbumsDir  string  // directory of .jpg album art
	Albums     int     // synthetic album count when AlbumsDir is empty

	// SessionIDs allows overriding the session id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	SessionIDs engine.SessionIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the albumwall CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "albumwall",
		Short: "albumwall - flipping and scrolling album art wall",
		Long: `A headless driver for the album wall animation engine.

Stage 1 shows a grid of album covers that flip one at a time. Stage 2
scatters the covers in depth and scrolls them upward forever, recycling
rows, while drag gestures spin the whole field.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML tuning file")
	pf.Float64Var(&opts.Width, "width", 1024, "viewport width in points")
	pf.Float64Var(&opts.Height, "height", 768, "viewport height in points")
	pf.Uint32Var(&opts.Seed, "seed", 0, "random seed (0 derives one from the clock)")
	pf.StringVar(&opts.AlbumsDir, "albums-dir", "", "directory of .jpg album covers")
	pf.IntVar(&opts.Albums, "albums", 8, "number of synthetic albums when --albums-dir is not set")

	// Add subcommands
	cmd.AddCommand(NewSimulateCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
