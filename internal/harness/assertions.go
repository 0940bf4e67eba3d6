package harness

import (
	"fmt"
	"strings"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/engine"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s at %s: stage=%s tiles=%d\n",
			event.Step, event.Action, event.Detail, event.At, event.Stats.Stage, event.Stats.Tiles)
	}

	return buf.String()
}

// evaluateAssertion dispatches on the assertion type.
func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertStage:
		return assertStage(result, a)
	case AssertStat:
		return assertStat(result, a)
	case AssertGridSettled:
		return assertGridSettled(result)
	case AssertTilesBounded:
		return assertTilesBounded(result)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// assertStage checks the final stage.
func assertStage(result *Result, a Assertion) error {
	if got := result.Final.Stage.String(); got != a.Stage {
		return &AssertionError{
			Type:     AssertStage,
			Expected: a.Stage,
			Actual:   got,
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertStat checks a final Stats field against equals, min and max.
func assertStat(result *Result, a Assertion) error {
	v, ok := statValue(result.Final, a.Stat)
	if !ok {
		return fmt.Errorf("unknown stat: %s", a.Stat)
	}

	var want []string
	fail := false
	if a.Equals != nil {
		want = append(want, fmt.Sprintf("== %g", *a.Equals))
		fail = fail || v != *a.Equals
	}
	if a.Min != nil {
		want = append(want, fmt.Sprintf(">= %g", *a.Min))
		fail = fail || v < *a.Min
	}
	if a.Max != nil {
		want = append(want, fmt.Sprintf("<= %g", *a.Max))
		fail = fail || v > *a.Max
	}

	if fail {
		return &AssertionError{
			Type:     AssertStat,
			Expected: fmt.Sprintf("%s %s", a.Stat, strings.Join(want, " and ")),
			Actual:   fmt.Sprintf("%s = %g", a.Stat, v),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertGridSettled checks that rows*cols matched the live tile count at
// the end of the run.
func assertGridSettled(result *Result) error {
	if !result.GridSettled {
		return &AssertionError{
			Type:     AssertGridSettled,
			Expected: fmt.Sprintf("%d tiles (%dx%d)", result.Final.Rows*result.Final.Cols, result.Final.Rows, result.Final.Cols),
			Actual:   fmt.Sprintf("%d tiles", result.Final.Tiles),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertTilesBounded checks that the live tile count never exceeded
// rows*cols during the run.
func assertTilesBounded(result *Result) error {
	if result.TileBoundViolations > 0 {
		return &AssertionError{
			Type:     AssertTilesBounded,
			Expected: "live tiles <= rows*cols after every event",
			Actual:   fmt.Sprintf("%d violations", result.TileBoundViolations),
			Trace:    result.Trace,
		}
	}
	return nil
}

// statValue returns a Stats field by its JSON name.
func statValue(s engine.Stats, name string) (float64, bool) {
	switch name {
	case "epoch":
		return float64(s.Epoch), true
	case "rows":
		return float64(s.Rows), true
	case "cols":
		return float64(s.Cols), true
	case "tile_size":
		return s.TileSize, true
	case "tiles":
		return float64(s.Tiles), true
	case "inflight_rotations":
		return float64(s.InflightRotations), true
	case "flips":
		return float64(s.Flips), true
	case "rows_spawned":
		return float64(s.RowsSpawned), true
	case "tiles_retired":
		return float64(s.TilesRetired), true
	default:
		return 0, false
	}
}
