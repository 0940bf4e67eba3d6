package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/album"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/engine"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/prng"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/wallclock"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Speed    float64
	Duration time.Duration
}

// statsLine renders engine.Stats on one line in text mode.
type statsLine engine.Stats

// RenderText implements TextRenderer.
func (s statsLine) RenderText(w io.Writer) {
	fmt.Fprintf(w, "stage=%s epoch=%d grid=%dx%d tiles=%d inflight=%d flips=%d spawned=%d retired=%d\n",
		s.Stage, uint64(s.Epoch), s.Rows, s.Cols, s.Tiles,
		s.InflightRotations, s.Flips, s.RowsSpawned, s.TilesRetired)
}

// RunReport is printed when the run command stops.
type RunReport struct {
	Session string       `json:"session"`
	Seed    uint32       `json:"seed"`
	Elapsed string       `json:"elapsed"`
	Stats   engine.Stats `json:"stats"`
}

// RenderText implements TextRenderer.
func (r RunReport) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Stopped after %s (seed %d).\n", r.Elapsed, r.Seed)
	statsLine(r.Stats).RenderText(w)
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the engine on real time, driven from stdin",
		Long: `Run the album wall engine on the wall clock without rendering.

The engine runs inside the single-writer event loop; timers and animation
completions fire on real time scaled by --speed. Commands are read from
stdin, one per line:

  drag <dx>        horizontal drag delta
  stage2           request the Stage 2 transition
  resize <w> <h>   change the viewport
  stats            print a snapshot
  quit             stop

The command stops on quit, after --duration, or on SIGINT/SIGTERM, and
prints the final state.

Example:
  albumwall run --speed 4 --duration 1m
  echo stage2 | albumwall run --duration 10s --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(opts, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Speed, "speed", 1, "time scale (2 runs twice as fast)")
	cmd.Flags().DurationVarP(&opts.Duration, "duration", "d", 0, "stop after this long (0 runs until signalled)")

	return cmd
}

func runEngine(opts *RunOptions, cmd *cobra.Command) error {
	out := &lockedWriter{w: cmd.OutOrStdout()}
	errOut := &lockedWriter{w: cmd.ErrOrStderr()}
	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   opts.Verbose,
	}

	if opts.Speed <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--speed must be positive, got %g", opts.Speed))
	}

	h, err := newHost(opts.RootOptions, errOut)
	if err != nil {
		return f.Fail(err)
	}

	sched := wallclock.New(wallclock.WithSpeed(opts.Speed), wallclock.WithLogger(h.logger))
	defer sched.Stop()

	eng := engine.New(engine.Deps{
		Surface:  layer.NewTree(h.viewport),
		Timer:    sched,
		Animator: sched,
		Albums:   album.NewSupplier(h.albums),
		Random:   prng.FromSeed(h.seed),
	}, h.viewport,
		engine.WithConfig(h.cfg),
		engine.WithLogger(h.logger),
		engine.WithSessionID(h.ids),
	)
	loop := engine.NewLoop(eng)
	sched.Bind(loop)
	f.Session = eng.Session()

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()
	if opts.Duration > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, opts.Duration)
		defer stop()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			h.logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	// The loop outlives ctx so the final snapshot can still be taken.
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(context.Background())
	}()

	began := time.Now()
	loop.Start()
	h.logger.Info("engine starting",
		"seed", h.seed,
		"speed", opts.Speed,
		"viewport_w", h.viewport.W,
		"viewport_h", h.viewport.H,
	)
	if opts.Format != "json" {
		fmt.Fprintln(out, "Album wall running. Commands: drag <dx>, stage2, resize <w> <h>, stats, quit.")
	}

	go readCommands(ctx, cmd.InOrStdin(), loop, f, cancel)

	<-ctx.Done()

	statsCtx, statsCancel := context.WithTimeout(context.Background(), time.Second)
	final, statsErr := loop.Stats(statsCtx)
	statsCancel()

	sched.Stop()
	loop.Stop()
	if err := <-loopDone; err != nil {
		return WrapExitError(ExitFailure, "engine error", err)
	}
	if statsErr != nil {
		return WrapExitError(ExitFailure, "failed to read final state", statsErr)
	}

	h.logger.Info("engine stopped gracefully")
	return f.Success(RunReport{
		Session: eng.Session(),
		Seed:    h.seed,
		Elapsed: time.Since(began).Round(time.Millisecond).String(),
		Stats:   final,
	})
}

// hostCommand is one parsed stdin line.
type hostCommand struct {
	name string
	dx   float64
	size layer.Size
}

// parseCommand parses one stdin line. Blank lines and lines starting with
// '#' yield an empty name.
func parseCommand(line string) (hostCommand, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return hostCommand{}, nil
	}

	c := hostCommand{name: fields[0]}
	args := fields[1:]
	switch c.name {
	case "stage2", "stats", "quit":
		if len(args) != 0 {
			return hostCommand{}, fmt.Errorf("%s takes no arguments", c.name)
		}
	case "drag":
		if len(args) != 1 {
			return hostCommand{}, fmt.Errorf("usage: drag <dx>")
		}
		dx, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return hostCommand{}, fmt.Errorf("drag: %w", err)
		}
		c.dx = dx
	case "resize":
		if len(args) != 2 {
			return hostCommand{}, fmt.Errorf("usage: resize <w> <h>")
		}
		w, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return hostCommand{}, fmt.Errorf("resize width: %w", err)
		}
		ht, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return hostCommand{}, fmt.Errorf("resize height: %w", err)
		}
		c.size = layer.Size{W: w, H: ht}
	default:
		return hostCommand{}, fmt.Errorf("unknown command %q", c.name)
	}
	return c, nil
}

// readCommands feeds stdin commands to the loop until EOF or ctx ends.
func readCommands(ctx context.Context, in io.Reader, loop *engine.Loop, f *OutputFormatter, quit context.CancelFunc) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		c, err := parseCommand(scanner.Text())
		if err != nil {
			fmt.Fprintf(f.GetErrWriter(), "error: %v\n", err)
			continue
		}

		switch c.name {
		case "":
		case "drag":
			loop.Drag(c.dx)
		case "stage2":
			loop.RequestStage2()
		case "resize":
			loop.Resize(c.size)
		case "stats":
			st, err := loop.Stats(ctx)
			if err != nil {
				return
			}
			_ = f.Success(statsLine(st))
		case "quit":
			quit()
			return
		}
	}
}

// lockedWriter serializes writes from the stdin reader, the loop's logger
// and the final report.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
