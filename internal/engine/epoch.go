package engine

import "fmt"

// Epoch is the generation counter of the layer tree.
//
// It starts at 1 and is incremented exactly once per structural reset.
// Every pending timer and completion record remembers the epoch it was
// created in; a record whose epoch differs from the current one is stale.
type Epoch uint64

// FirstEpoch is the epoch of a freshly constructed engine.
const FirstEpoch Epoch = 1

func (e Epoch) String() string {
	return fmt.Sprintf("epoch-%d", uint64(e))
}

// Stage is the externally visible animation stage.
type Stage int

const (
	// Stage1 runs the random flip loop over the wrapped grid.
	Stage1 Stage = iota + 1

	// TransitioningToStage2 keeps flipping until the flip in progress
	// finishes, then rebuilds the grid for Stage 2.
	TransitioningToStage2

	// Stage2 scatters, scrolls and recycles tiles and accepts drag rotations.
	Stage2
)

// String returns the stable name used in logs, stats and scenarios.
func (s Stage) String() string {
	switch s {
	case Stage1:
		return "stage1"
	case TransitioningToStage2:
		return "transitioning"
	case Stage2:
		return "stage2"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStage parses a stage name as produced by Stage.String.
func ParseStage(name string) (Stage, error) {
	switch name {
	case "stage1":
		return Stage1, nil
	case "transitioning":
		return TransitioningToStage2, nil
	case "stage2":
		return Stage2, nil
	default:
		return 0, fmt.Errorf("unknown stage %q (valid: stage1, transitioning, stage2)", name)
	}
}
