package harness

import "github.com/saurabhsharan/wwdc-2006-core-animation/internal/engine"

// TraceEvent records one executed step.
type TraceEvent struct {
	Step     int          `json:"step"` // 1-based
	Action   string       `json:"action"`
	Detail   string       `json:"detail,omitempty"`
	At       string       `json:"at"` // virtual time after the step
	Accepted *bool        `json:"accepted,omitempty"`
	Error    string       `json:"error,omitempty"`
	Stats    engine.Stats `json:"stats"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every step expectation and every
	// assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the engine snapshot after the last step.
	Final engine.Stats `json:"final"`

	// GridSettled reports whether the final grid was settled.
	GridSettled bool `json:"grid_settled"`

	// TileBoundViolations counts delivered notifications after which the
	// live tile count exceeded rows*cols.
	TileBoundViolations int `json:"tile_bound_violations"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
