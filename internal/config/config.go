// Package config holds the tunable parameters of the album wall animation.
//
// Parameters are fixed for the lifetime of an engine. Hosts start from
// Default() and may overlay a YAML file with Load. Every configuration is
// checked against an embedded CUE schema before use.
//
// Time values are expressed in seconds (as in the YAML file) and converted
// with Seconds when scheduling.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Config is the full set of tunable animation parameters.
type Config struct {
	// Stage 1: flip loop.
	InitialFlipDelay    float64 `yaml:"initial_flip_delay" json:"initial_flip_delay"`
	FlipInterval        float64 `yaml:"flip_interval" json:"flip_interval"`
	FlipDuration        float64 `yaml:"flip_duration" json:"flip_duration"`
	FlipScaleFactor     float64 `yaml:"flip_scale_factor" json:"flip_scale_factor"`
	PerspectiveDistance float64 `yaml:"perspective_distance" json:"perspective_distance"`

	// Layout.
	RowsPerViewport int `yaml:"rows_per_viewport" json:"rows_per_viewport"`
	BufferRows      int `yaml:"buffer_rows" json:"buffer_rows"`

	// Stage 2: scatter and scroll.
	ScaleOutDuration float64 `yaml:"scale_out_duration" json:"scale_out_duration"`
	DepthMin         float64 `yaml:"depth_min" json:"depth_min"`
	DepthMax         float64 `yaml:"depth_max" json:"depth_max"`
	ScrollVelocity   float64 `yaml:"scroll_velocity" json:"scroll_velocity"`

	// Stage 2: drag rotation.
	RotationMinDelta      int     `yaml:"rotation_min_delta" json:"rotation_min_delta"`
	RotationCompoundDelta int     `yaml:"rotation_compound_delta" json:"rotation_compound_delta"`
	MaxInflightRotations  int     `yaml:"max_inflight_rotations" json:"max_inflight_rotations"`
	RotationDuration      float64 `yaml:"rotation_duration" json:"rotation_duration"`
}

// Default returns the reference tuning.
func Default() Config {
	return Config{
		InitialFlipDelay:    0.5,
		FlipInterval:        1.25,
		FlipDuration:        1.35,
		FlipScaleFactor:     0.96,
		PerspectiveDistance: 2000,

		RowsPerViewport: 5,
		BufferRows:      2,

		ScaleOutDuration: 1.5,
		DepthMin:         -700,
		DepthMax:         700,
		ScrollVelocity:   75,

		RotationMinDelta:      5,
		RotationCompoundDelta: 30,
		MaxInflightRotations:  2,
		RotationDuration:      3.5,
	}
}

// Load reads a YAML file and overlays it on Default().
//
// Unknown keys are rejected. An empty file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes over Default() and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against the embedded CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	value := def.Unify(ctx.Encode(c))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Details: cueerrors.Details(err, nil), Err: err}
	}
	return nil
}

// ValidationError reports a configuration that violates the schema.
type ValidationError struct {
	Details string // one line per violated constraint
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s", e.Details)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Seconds converts a duration in seconds to a time.Duration, rounded to the
// nearest nanosecond so that values such as 1.35 stay exact.
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
