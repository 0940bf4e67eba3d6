package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/album"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/engine"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/prng"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/sim"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Duration time.Duration
	Stage2At time.Duration
	Drags    []float64
}

// DragResult records whether one drag delta started a rotation.
type DragResult struct {
	Delta    float64 `json:"delta"`
	Accepted bool    `json:"accepted"`
}

// SimulationReport is the outcome of a simulate run.
type SimulationReport struct {
	Session   string       `json:"session"`
	Seed      uint32       `json:"seed"`
	Elapsed   string       `json:"elapsed"`
	Stage2At  string       `json:"stage2_at,omitempty"`
	Drags     []DragResult `json:"drags,omitempty"`
	Delivered int          `json:"delivered"`
	Layers    int          `json:"layers"`
	Stats     engine.Stats `json:"stats"`
}

// RenderText implements TextRenderer.
func (r SimulationReport) RenderText(w io.Writer) {
	s := r.Stats
	fmt.Fprintf(w, "session:    %s\n", r.Session)
	fmt.Fprintf(w, "seed:       %d\n", r.Seed)
	fmt.Fprintf(w, "elapsed:    %s (%d notifications)\n", r.Elapsed, r.Delivered)
	fmt.Fprintf(w, "stage:      %s (%s)\n", s.Stage, s.Epoch)
	fmt.Fprintf(w, "grid:       %dx%d tiles of %gpt\n", s.Rows, s.Cols, s.TileSize)
	fmt.Fprintf(w, "tiles:      %d live, %d layers\n", s.Tiles, r.Layers)
	fmt.Fprintf(w, "flips:      %d\n", s.Flips)
	fmt.Fprintf(w, "recycling:  %d rows spawned, %d tiles retired\n", s.RowsSpawned, s.TilesRetired)
	fmt.Fprintf(w, "rotations:  %d in flight\n", s.InflightRotations)
	if len(r.Drags) > 0 {
		parts := make([]string, len(r.Drags))
		for i, d := range r.Drags {
			verdict := "rejected"
			if d.Accepted {
				verdict = "accepted"
			}
			parts[i] = fmt.Sprintf("%g %s", d.Delta, verdict)
		}
		fmt.Fprintf(w, "drags:      %s\n", strings.Join(parts, ", "))
	}
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the engine on virtual time and print its state",
		Long: `Run the album wall engine on a virtual clock and print the final state.

Nothing is rendered and no real time passes: timers and animation
completions are delivered in due order as fast as possible. With
--stage2-at the Stage 2 transition is requested at that virtual time, and
every --drag delta is applied as soon as Stage 2 is entered.

Examples:
  albumwall simulate --duration 30s
  albumwall simulate --seed 2006 --stage2-at 2s --drag -10 --drag 40
  albumwall simulate --albums-dir ./artwork --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, cmd)
		},
	}

	cmd.Flags().DurationVarP(&opts.Duration, "duration", "d", 30*time.Second, "virtual time to simulate")
	cmd.Flags().DurationVar(&opts.Stage2At, "stage2-at", 0, "virtual time at which to request Stage 2")
	cmd.Flags().Float64SliceVar(&opts.Drags, "drag", nil, "drag delta applied on entering Stage 2 (repeatable)")

	return cmd
}

func runSimulate(opts *SimulateOptions, cmd *cobra.Command) error {
	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	wantStage2 := cmd.Flags().Changed("stage2-at")
	if opts.Duration < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--duration must be non-negative, got %s", opts.Duration))
	}
	if wantStage2 && (opts.Stage2At < 0 || opts.Stage2At > opts.Duration) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("--stage2-at %s must lie within --duration %s", opts.Stage2At, opts.Duration))
	}

	h, err := newHost(opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return f.Fail(err)
	}

	tree := layer.NewTree(h.viewport)
	sched := sim.New()
	eng := engine.New(engine.Deps{
		Surface:  tree,
		Timer:    sched,
		Animator: sched,
		Albums:   album.NewSupplier(h.albums),
		Random:   prng.FromSeed(h.seed),
	}, h.viewport,
		engine.WithConfig(h.cfg),
		engine.WithLogger(h.logger),
		engine.WithSessionID(h.ids),
	)
	sched.Bind(eng)
	f.Session = eng.Session()

	f.VerboseLog("simulating %s with seed %d", opts.Duration, h.seed)

	if err := eng.Start(); err != nil {
		return WrapExitError(ExitFailure, "engine start failed", err)
	}

	report := SimulationReport{
		Session: eng.Session(),
		Seed:    h.seed,
	}

	if wantStage2 {
		report.Stage2At = opts.Stage2At.String()
		sched.Advance(opts.Stage2At)
		if err := eng.RequestStage2Transition(); err != nil {
			return WrapExitError(ExitFailure, "stage 2 request failed", err)
		}
		// Deliver notifications until the rebuild lands or time runs out.
		for eng.Stage() != engine.Stage2 {
			due, ok := sched.NextDue()
			if !ok || due > opts.Duration {
				break
			}
			sched.Step()
		}
	}

	for _, dx := range opts.Drags {
		report.Drags = append(report.Drags, DragResult{Delta: dx, Accepted: eng.OnDragDelta(dx)})
	}

	if rest := opts.Duration - sched.Now(); rest > 0 {
		sched.Advance(rest)
	}

	report.Elapsed = sched.Now().String()
	report.Delivered = sched.Delivered()
	report.Layers = tree.Len()
	report.Stats = eng.Stats()

	return f.Success(report)
}
