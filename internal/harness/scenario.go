package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/config"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/engine"
)

// Scenario defines a scripted run of the engine on virtual time.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Viewport is the initial viewport size in points.
	Viewport Viewport `yaml:"viewport"`

	// Seed seeds the random generator. Zero selects testutil.DefaultSeed.
	Seed uint32 `yaml:"seed,omitempty"`

	// Albums is the number of synthetic album names. Zero selects 8.
	Albums int `yaml:"albums,omitempty"`

	// Session is the fixed session id. Empty selects "test-session".
	Session string `yaml:"session,omitempty"`

	// MaxDeliveries bounds the notifications one advance step may deliver.
	// Zero selects DefaultMaxDeliveries.
	MaxDeliveries int `yaml:"max_deliveries,omitempty"`

	// Config overlays tuning parameters on config.Default(), using the
	// same keys as the configuration file.
	Config map[string]any `yaml:"config,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state and the whole run.
	Assertions []Assertion `yaml:"assertions"`
}

// Viewport is a width and height in points.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Step is one host action.
type Step struct {
	// Action is one of start, advance, stage2, drag, resize.
	Action string `yaml:"action"`

	// Duration is the virtual time to advance, in time.ParseDuration
	// syntax (used by advance).
	Duration string `yaml:"duration,omitempty"`

	// Delta is the horizontal drag delta (used by drag).
	Delta float64 `yaml:"delta,omitempty"`

	// Width and Height are the new viewport (used by resize).
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`

	// Expect checks the outcome of the step. If nil, drags may be rejected
	// and any other step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a step.
type Expect struct {
	// Accepted is the expected drag outcome.
	Accepted *bool `yaml:"accepted,omitempty"`

	// Error is the expected error name: already_started,
	// invalid_transition or viewport_too_small.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "stage": final stage equals Stage
	// - "stat": final Stats field Stat equals Equals or lies in [Min, Max]
	// - "grid_settled": rows*cols equals the live tile count
	// - "tiles_bounded": the live tile count never exceeded rows*cols
	Type string `yaml:"type"`

	// Stage is the expected stage name (used by stage).
	Stage string `yaml:"stage,omitempty"`

	// Stat is the Stats field name in its JSON form (used by stat).
	Stat string `yaml:"stat,omitempty"`

	// Equals, Min and Max bound the stat value (used by stat).
	Equals *float64 `yaml:"equals,omitempty"`
	Min    *float64 `yaml:"min,omitempty"`
	Max    *float64 `yaml:"max,omitempty"`
}

// Step action constants.
const (
	ActionStart   = "start"
	ActionAdvance = "advance"
	ActionStage2  = "stage2"
	ActionDrag    = "drag"
	ActionResize  = "resize"
)

// Assertion type constants.
const (
	AssertStage        = "stage"
	AssertStat         = "stat"
	AssertGridSettled  = "grid_settled"
	AssertTilesBounded = "tiles_bounded"
)

// errorNames maps expectable error names to engine sentinels.
var errorNames = map[string]error{
	"already_started":    engine.ErrAlreadyStarted,
	"invalid_transition": engine.ErrInvalidTransition,
	"viewport_too_small": engine.ErrViewportTooSmall,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// tuning returns the scenario configuration overlaid on the defaults.
func (s *Scenario) tuning() (config.Config, error) {
	if len(s.Config) == 0 {
		return config.Default(), nil
	}
	data, err := yaml.Marshal(s.Config)
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	return config.Parse(data)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		return fmt.Errorf("viewport width and height must be positive")
	}

	if s.Albums < 0 {
		return fmt.Errorf("albums must be non-negative")
	}

	if s.MaxDeliveries < 0 {
		return fmt.Errorf("max_deliveries must be non-negative")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if _, err := s.tuning(); err != nil {
		return err
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single step based on its action.
func validateStep(index int, s *Step) error {
	switch s.Action {
	case "":
		return fmt.Errorf("steps[%d]: action is required", index)
	case ActionStart, ActionStage2:
	case ActionAdvance:
		d, err := time.ParseDuration(s.Duration)
		if err != nil {
			return fmt.Errorf("steps[%d]: invalid duration: %w", index, err)
		}
		if d < 0 {
			return fmt.Errorf("steps[%d]: duration must be non-negative", index)
		}
	case ActionDrag:
		if s.Delta == 0 {
			return fmt.Errorf("steps[%d]: delta is required for drag", index)
		}
	case ActionResize:
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("steps[%d]: width and height must be positive for resize", index)
		}
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", index, s.Action)
	}

	if s.Expect == nil {
		return nil
	}
	if s.Expect.Accepted != nil && s.Action != ActionDrag {
		return fmt.Errorf("steps[%d].expect: accepted only applies to drag", index)
	}
	if s.Expect.Error != "" {
		if s.Action == ActionDrag || s.Action == ActionAdvance {
			return fmt.Errorf("steps[%d].expect: %s never fails", index, s.Action)
		}
		if _, ok := errorNames[s.Expect.Error]; !ok {
			return fmt.Errorf("steps[%d].expect: unknown error %q", index, s.Expect.Error)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertStage:
		if _, err := engine.ParseStage(a.Stage); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertStat:
		if _, ok := statValue(engine.Stats{}, a.Stat); !ok {
			return fmt.Errorf("assertions[%d]: unknown stat %q", index, a.Stat)
		}
		if a.Equals == nil && a.Min == nil && a.Max == nil {
			return fmt.Errorf("assertions[%d]: one of equals, min or max is required for stat", index)
		}
	case AssertGridSettled, AssertTilesBounded:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
