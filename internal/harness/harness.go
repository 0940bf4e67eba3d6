package harness

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/album"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/engine"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/testutil"
)

// DefaultAlbums is the number of synthetic albums when a scenario names none.
const DefaultAlbums = 8

// Harness drives one engine through a scenario on virtual time.
type Harness struct {
	rig    *testutil.Rig
	engine *engine.Engine
	logger *slog.Logger
	quota  *QuotaEnforcer

	// Live tiles above rows*cols observed after delivered notifications.
	violations int
}

// HarnessOption configures Run.
type HarnessOption func(*harnessOptions)

type harnessOptions struct {
	logger *slog.Logger
}

// WithLogger routes engine logs to l. Default: discarded.
func WithLogger(l *slog.Logger) HarnessOption {
	return func(o *harnessOptions) {
		o.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh engine with a fixed seed, synthetic
// albums and a fixed session id, so results are reproducible. An error is
// returned only when the scenario cannot be set up; step and assertion
// failures are reported in the Result.
func Run(scenario *Scenario, opts ...HarnessOption) (*Result, error) {
	o := harnessOptions{logger: testutil.DiscardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := scenario.tuning()
	if err != nil {
		return nil, err
	}

	seed := scenario.Seed
	if seed == 0 {
		seed = testutil.DefaultSeed
	}
	albums := scenario.Albums
	if albums == 0 {
		albums = DefaultAlbums
	}

	viewport := layer.Size{W: scenario.Viewport.Width, H: scenario.Viewport.Height}
	rig := testutil.NewRig(viewport,
		testutil.WithSeed(seed),
		testutil.WithAlbums(album.Synthetic(albums)),
	)

	eng := engine.New(engine.Deps{
		Surface:  rig.Tree,
		Timer:    rig.Sched,
		Animator: rig.Sched,
		Albums:   rig.Albums,
		Random:   rig.Random,
	}, viewport,
		engine.WithConfig(cfg),
		engine.WithLogger(o.logger),
		engine.WithSessionID(testutil.NewFixedSessionGenerator(scenario.Session)),
	)
	rig.Sched.Bind(eng)

	maxDeliveries := scenario.MaxDeliveries
	if maxDeliveries == 0 {
		maxDeliveries = DefaultMaxDeliveries
	}

	h := &Harness{
		rig:    rig,
		engine: eng,
		logger: o.logger,
		quota:  NewQuotaEnforcer(maxDeliveries),
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		result.AddTrace(h.executeStep(i+1, step, result))
	}

	result.Final = eng.Stats()
	result.GridSettled = eng.GridSettled()
	result.TileBoundViolations = h.violations

	for _, assertion := range scenario.Assertions {
		if err := evaluateAssertion(result, assertion); err != nil {
			result.AddError(err.Error())
		}
	}

	return result, nil
}

// executeStep performs one step and checks its expectation.
func (h *Harness) executeStep(n int, step Step, result *Result) TraceEvent {
	ev := TraceEvent{Step: n, Action: step.Action}

	var err, quotaErr error
	switch step.Action {
	case ActionStart:
		err = h.engine.Start()
	case ActionAdvance:
		d, _ := time.ParseDuration(step.Duration)
		ev.Detail = d.String()
		quotaErr = h.advance(n, d)
	case ActionStage2:
		err = h.engine.RequestStage2Transition()
	case ActionDrag:
		ev.Detail = fmt.Sprintf("dx=%g", step.Delta)
		accepted := h.engine.OnDragDelta(step.Delta)
		ev.Accepted = &accepted
	case ActionResize:
		ev.Detail = fmt.Sprintf("%gx%g", step.Width, step.Height)
		err = h.engine.OnViewportChanged(layer.Size{W: step.Width, H: step.Height})
	}
	if err != nil {
		ev.Error = errorName(err)
	}
	ev.At = h.rig.Sched.Now().String()
	ev.Stats = h.engine.Stats()
	h.checkBound()

	h.logger.Debug("step executed",
		"step", n,
		"action", step.Action,
		"at", ev.At,
	)

	if quotaErr != nil {
		ev.Error = "steps_exceeded"
		result.AddError(quotaErr.Error())
		return ev
	}
	if msg := checkExpect(n, step, ev); msg != "" {
		result.AddError(msg)
	}
	return ev
}

// advance delivers notifications one at a time up to now+d, checking the
// tile bound after each one. When the delivery quota runs out, time stays
// at the last delivery.
func (h *Harness) advance(n int, d time.Duration) error {
	sched := h.rig.Sched
	target := sched.Now() + d
	h.quota.Reset()
	for {
		due, ok := sched.NextDue()
		if !ok || due > target {
			break
		}
		if err := h.quota.Check(n); err != nil {
			return err
		}
		sched.Step()
		h.checkBound()
	}
	sched.Advance(target - sched.Now())
	return nil
}

func (h *Harness) checkBound() {
	st := h.engine.Stats()
	if st.Tiles > st.Rows*st.Cols {
		h.violations++
	}
}

// checkExpect returns a failure message, or "" when the step behaved.
func checkExpect(n int, step Step, ev TraceEvent) string {
	want := Expect{}
	if step.Expect != nil {
		want = *step.Expect
	}

	if want.Accepted != nil && ev.Accepted != nil && *want.Accepted != *ev.Accepted {
		return fmt.Sprintf("step %d (%s %s): expected accepted=%t, got %t",
			n, step.Action, ev.Detail, *want.Accepted, *ev.Accepted)
	}
	if want.Error != ev.Error {
		if want.Error == "" {
			return fmt.Sprintf("step %d (%s): unexpected error %s", n, step.Action, ev.Error)
		}
		got := ev.Error
		if got == "" {
			got = "none"
		}
		return fmt.Sprintf("step %d (%s): expected error %s, got %s", n, step.Action, want.Error, got)
	}
	return ""
}

// errorName returns the scenario name of an engine error, or its message
// when it is not one of the named sentinels.
func errorName(err error) string {
	for name, sentinel := range errorNames {
		if errors.Is(err, sentinel) {
			return name
		}
	}
	return err.Error()
}
