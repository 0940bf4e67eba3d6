package harness

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/engine"
)

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

func baseScenario(steps ...Step) *Scenario {
	return &Scenario{
		Name:        "test",
		Description: "test scenario",
		Viewport:    Viewport{Width: 300, Height: 500},
		Steps:       steps,
	}
}

func TestRun_StartBuildsGrid(t *testing.T) {
	result, err := Run(baseScenario(Step{Action: ActionStart}))
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Trace, 1)

	ev := result.Trace[0]
	assert.Equal(t, 1, ev.Step)
	assert.Equal(t, "0s", ev.At)
	assert.Equal(t, engine.Stage1, ev.Stats.Stage)
	assert.Equal(t, 15, ev.Stats.Tiles)
	assert.True(t, result.GridSettled)
}

func TestRun_AdvanceFlips(t *testing.T) {
	result, err := Run(baseScenario(
		Step{Action: ActionStart},
		Step{Action: ActionAdvance, Duration: "3100ms"},
	))
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Equal(t, "3.1s", result.Trace[1].At)
	assert.Equal(t, "3.1s", result.Trace[1].Detail)
	assert.Equal(t, 2, result.Final.Flips)
}

func TestRun_ConfigOverlay(t *testing.T) {
	s := baseScenario(
		Step{Action: ActionStart},
		Step{Action: ActionAdvance, Duration: "3100ms"},
	)
	s.Config = map[string]any{"initial_flip_delay": 2, "rows_per_viewport": 4}

	result, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Final.Rows)
	assert.Equal(t, 125.0, result.Final.TileSize)
	assert.Equal(t, 1, result.Final.Flips)
}

func TestRun_DragExpectations(t *testing.T) {
	s := baseScenario(
		Step{Action: ActionStart},
		Step{Action: ActionDrag, Delta: 50, Expect: &Expect{Accepted: boolPtr(true)}},
	)

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "step 2 (drag dx=50): expected accepted=true, got false")
	require.NotNil(t, result.Trace[1].Accepted)
	assert.False(t, *result.Trace[1].Accepted)
}

func TestRun_UnexpectedError(t *testing.T) {
	result, err := Run(baseScenario(
		Step{Action: ActionStage2},
	))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, "invalid_transition", result.Trace[0].Error)
	assert.Contains(t, result.Errors[0], "unexpected error invalid_transition")
}

func TestRun_MissingExpectedError(t *testing.T) {
	result, err := Run(baseScenario(
		Step{Action: ActionStart, Expect: &Expect{Error: "already_started"}},
	))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected error already_started, got none")
}

func TestRun_ResizeBeforeStart(t *testing.T) {
	result, err := Run(baseScenario(
		Step{Action: ActionResize, Width: 400, Height: 500},
		Step{Action: ActionStart},
	))
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Equal(t, "400x500", result.Trace[0].Detail)
	assert.Equal(t, 4, result.Final.Cols)
	assert.Equal(t, engine.FirstEpoch, result.Final.Epoch)
}

func TestRun_LongScrollStaysBounded(t *testing.T) {
	s := baseScenario(
		Step{Action: ActionStart},
		Step{Action: ActionStage2},
		Step{Action: ActionAdvance, Duration: "10m"},
	)
	s.Assertions = []Assertion{
		{Type: AssertStage, Stage: "stage2"},
		{Type: AssertStat, Stat: "rows_spawned", Min: floatPtr(100)},
		{Type: AssertTilesBounded},
	}

	result, err := Run(s)
	require.NoError(t, err)

	assert.True(t, result.Pass, result.Errors)
	assert.Zero(t, result.TileBoundViolations)
	assert.Equal(t, 7, result.Final.Rows)
	assert.LessOrEqual(t, result.Final.Tiles, 21)
}

func TestRun_Deterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/lifecycle.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
}

func TestRun_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := baseScenario(Step{Action: ActionStart})
	s.Session = "scenario-session"

	_, err := Run(s, WithLogger(logger))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"session":"scenario-session"`)
	assert.Contains(t, buf.String(), `"msg":"step executed"`)
}

func TestRun_ScenarioFiles(t *testing.T) {
	for _, name := range []string{"lifecycle", "host_errors"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, result.Errors)
		})
	}
}

func TestErrorName(t *testing.T) {
	assert.Equal(t, "viewport_too_small", errorName(engine.ErrViewportTooSmall))
	assert.Equal(t, "boom", errorName(errors.New("boom")))
}
