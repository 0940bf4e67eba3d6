package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/album"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/anim"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/config"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/prng"
)

// Deps are the collaborators an Engine drives. All are required.
type Deps struct {
	Surface  layer.Surface
	Timer    anim.Timer
	Animator anim.Animator
	Albums   *album.Supplier
	Random   *prng.Generator
}

// Engine is the album wall state machine.
//
// Thread-safety model: none. Engine must be driven from a single goroutine
// (see Loop). Schedulers deliver notifications through OnTimerFired and
// OnAnimationComplete and never call back synchronously from inside
// After or Commit.
type Engine struct {
	cfg     config.Config
	logger  *slog.Logger
	session string

	surface  layer.Surface
	timer    anim.Timer
	animator anim.Animator
	albums   *album.Supplier
	rng      *prng.Generator

	viewport layer.Size
	started  bool
	stage    Stage
	epoch    Epoch
	geom     Geometry

	wrappers []*wrapper // Stage 1 and transitioning, index order
	tiles    []*Tile    // Stage 2, index order while settled

	inflight  int
	flipTimer anim.TimerHandle
	timers    map[anim.TimerHandle]timerRecord
	pending   map[anim.Handle]completion

	flips        int
	rowsSpawned  int
	tilesRetired int
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*engineOptions)

type engineOptions struct {
	cfg    config.Config
	logger *slog.Logger
	ids    SessionIDGenerator
}

// WithConfig sets the tunable parameters. The configuration is expected to
// have passed config.Validate.
//
// Default: config.Default()
func WithConfig(cfg config.Config) EngineOption {
	return func(o *engineOptions) {
		o.cfg = cfg
	}
}

// WithLogger sets the logger. Default: a logger that discards everything.
func WithLogger(l *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = l
	}
}

// WithSessionID sets the generator for the session id attached to log lines.
//
// Default: UUIDv7Generator
func WithSessionID(g SessionIDGenerator) EngineOption {
	return func(o *engineOptions) {
		o.ids = g
	}
}

// New creates an idle engine for the given viewport. Nothing is built or
// scheduled until Start.
//
// Panics if any dependency is nil.
func New(deps Deps, viewport layer.Size, opts ...EngineOption) *Engine {
	if deps.Surface == nil || deps.Timer == nil || deps.Animator == nil || deps.Albums == nil || deps.Random == nil {
		panic("engine: all dependencies are required")
	}

	o := engineOptions{
		cfg:    config.Default(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ids:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	session := o.ids.Generate()
	return &Engine{
		cfg:      o.cfg,
		logger:   o.logger.With("session", session),
		session:  session,
		surface:  deps.Surface,
		timer:    deps.Timer,
		animator: deps.Animator,
		albums:   deps.Albums,
		rng:      deps.Random,
		viewport: viewport,
		stage:    Stage1,
		epoch:    FirstEpoch,
		timers:   make(map[anim.TimerHandle]timerRecord),
		pending:  make(map[anim.Handle]completion),
	}
}

// Start builds the Stage 1 grid and schedules the first flip.
func (e *Engine) Start() error {
	if e.started {
		return ErrAlreadyStarted
	}

	geom, err := ComputeGeometry(e.viewport, e.cfg.RowsPerViewport)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}

	e.started = true
	e.geom = geom
	e.buildStage1Grid()
	e.scheduleFlip(config.Seconds(e.cfg.InitialFlipDelay))

	e.logger.Info("engine started",
		"viewport_w", e.viewport.W,
		"viewport_h", e.viewport.H,
		"tile_size", geom.TileSize,
		"rows", geom.Rows,
		"cols", geom.Cols,
		"epoch", uint64(e.epoch),
	)
	return nil
}

// OnViewportChanged tears the grid down and restarts Stage 1 for the new
// viewport. Work scheduled before the reset becomes stale.
//
// Before Start the size is only recorded. A viewport too small for one tile
// is rejected and the current grid is left running.
func (e *Engine) OnViewportChanged(size layer.Size) error {
	if !e.started {
		e.viewport = size
		return nil
	}

	geom, err := ComputeGeometry(size, e.cfg.RowsPerViewport)
	if err != nil {
		return fmt.Errorf("viewport %gx%g: %w", size.W, size.H, err)
	}

	e.teardown()
	e.viewport = size
	e.geom = geom
	e.stage = Stage1
	e.inflight = 0
	e.flips = 0
	e.rowsSpawned = 0
	e.tilesRetired = 0

	e.buildStage1Grid()
	e.scheduleFlip(config.Seconds(e.cfg.FlipInterval))

	e.logger.Info("viewport changed",
		"viewport_w", size.W,
		"viewport_h", size.H,
		"rows", geom.Rows,
		"cols", geom.Cols,
		"epoch", uint64(e.epoch),
	)
	return nil
}

// Session returns the session id attached to this engine's log lines.
func (e *Engine) Session() string {
	return e.session
}

// Stage returns the current stage.
func (e *Engine) Stage() Stage {
	return e.stage
}

// Epoch returns the current epoch.
func (e *Engine) Epoch() Epoch {
	return e.epoch
}

// Geometry returns the current grid geometry. Rows includes the buffer rows
// once Stage 2 has scattered the grid.
func (e *Engine) Geometry() Geometry {
	return e.geom
}

// Config returns the tunable parameters in use.
func (e *Engine) Config() config.Config {
	return e.cfg
}
