// Package testutil provides deterministic fixtures for engine tests.
package testutil

import (
	"io"
	"log/slog"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/album"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/prng"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/sim"
)

// DefaultSeed is the generator seed used when a rig does not set one.
const DefaultSeed uint32 = 2006

// Rig bundles the collaborators an engine needs, all running on virtual time.
type Rig struct {
	Viewport layer.Size
	Tree     *layer.Tree
	Sched    *sim.Scheduler
	Albums   *album.Supplier
	Random   *prng.Generator
}

// RigOption configures a Rig.
type RigOption func(*rigOptions)

type rigOptions struct {
	seed   uint32
	albums []string
	sim    []sim.Option
}

// WithSeed sets the generator seed. Default: DefaultSeed.
func WithSeed(seed uint32) RigOption {
	return func(o *rigOptions) {
		o.seed = seed
	}
}

// WithAlbums sets the album names. Default: album.Synthetic(8).
func WithAlbums(names []string) RigOption {
	return func(o *rigOptions) {
		o.albums = names
	}
}

// WithCommitLog makes the scheduler keep every committed transaction.
func WithCommitLog() RigOption {
	return func(o *rigOptions) {
		o.sim = append(o.sim, sim.WithCommitLog())
	}
}

// NewRig creates a rig for a viewport. Bind the engine to Sched before
// advancing time.
func NewRig(viewport layer.Size, opts ...RigOption) *Rig {
	o := rigOptions{seed: DefaultSeed, albums: album.Synthetic(8)}
	for _, opt := range opts {
		opt(&o)
	}

	return &Rig{
		Viewport: viewport,
		Tree:     layer.NewTree(viewport),
		Sched:    sim.New(o.sim...),
		Albums:   album.NewSupplier(o.albums),
		Random:   prng.FromSeed(o.seed),
	}
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
