package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/album"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/config"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/engine"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
)

// host holds what every engine-driving command resolves from the global
// flags before building an engine.
type host struct {
	cfg      config.Config
	albums   []string
	seed     uint32
	viewport layer.Size
	logger   *slog.Logger
	ids      engine.SessionIDGenerator
}

// newHost resolves configuration, albums, seed and viewport from opts.
// Logs go to logOut; --verbose switches the level to debug.
func newHost(opts *RootOptions, logOut io.Writer) (*host, error) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err).withKind(CodeConfig)
		}
		cfg = loaded
	}

	albums, err := resolveAlbums(opts)
	if err != nil {
		return nil, err
	}

	viewport := layer.Size{W: opts.Width, H: opts.Height}
	if _, err := engine.ComputeGeometry(viewport, cfg.RowsPerViewport); err != nil {
		return nil, WrapExitError(ExitCommandError,
			fmt.Sprintf("viewport %gx%g", opts.Width, opts.Height), err).withKind(CodeViewport)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = clockSeed(time.Now())
	}

	ids := opts.SessionIDs
	if ids == nil {
		ids = engine.UUIDv7Generator{}
	}

	logger.Debug("host resolved",
		"seed", seed,
		"albums", len(albums),
		"viewport_w", viewport.W,
		"viewport_h", viewport.H,
	)

	return &host{
		cfg:      cfg,
		albums:   albums,
		seed:     seed,
		viewport: viewport,
		logger:   logger,
		ids:      ids,
	}, nil
}

func resolveAlbums(opts *RootOptions) ([]string, error) {
	if opts.AlbumsDir != "" {
		names, err := album.LoadNames(opts.AlbumsDir)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load albums", err).withKind(CodeAlbums)
		}
		return names, nil
	}
	if opts.Albums <= 0 {
		return nil, NewExitError(ExitCommandError,
			fmt.Sprintf("--albums must be positive, got %d", opts.Albums)).withKind(CodeAlbums)
	}
	return album.Synthetic(opts.Albums), nil
}

// clockSeed folds a timestamp into a non-zero 32-bit seed.
func clockSeed(now time.Time) uint32 {
	n := uint64(now.UnixNano())
	seed := uint32(n) ^ uint32(n>>32)
	if seed == 0 {
		seed = 1
	}
	return seed
}
