package harness

import (
	"errors"
	"fmt"
)

// DefaultMaxDeliveries bounds the notifications a single advance step may
// deliver when the scenario sets no limit.
const DefaultMaxDeliveries = 100000

// QuotaEnforcer counts the notifications delivered by one advance step and
// enforces a maximum.
//
// An engine that keeps scheduling zero-length work would otherwise make an
// advance step spin forever without virtual time moving on.
type QuotaEnforcer struct {
	maxSteps int // Maximum deliveries per advance
	current  int // Deliveries so far in this advance
}

// NewQuotaEnforcer creates a new quota enforcer with the given limit.
func NewQuotaEnforcer(maxSteps int) *QuotaEnforcer {
	return &QuotaEnforcer{maxSteps: maxSteps}
}

// Check increments the delivery counter and validates against the limit.
//
// Returns StepsExceededError if the quota is exceeded.
func (q *QuotaEnforcer) Check(step int) error {
	q.current++
	if q.current > q.maxSteps {
		return &StepsExceededError{
			Step:  step,
			Steps: q.current,
			Limit: q.maxSteps,
		}
	}
	return nil
}

// Reset resets the delivery counter to 0 at the start of each advance.
func (q *QuotaEnforcer) Reset() {
	q.current = 0
}

// Current returns the current delivery count.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// MaxSteps returns the maximum deliveries limit.
func (q *QuotaEnforcer) MaxSteps() int {
	return q.maxSteps
}

// StepsExceededError is returned when an advance step exceeds the quota.
// The advance stops where it is; later steps still run.
type StepsExceededError struct {
	Step  int // 1-based scenario step that exceeded the quota
	Steps int // Number of deliveries attempted
	Limit int // Maximum allowed deliveries
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("step %d exceeded max deliveries quota: %d deliveries > %d limit",
		e.Step, e.Steps, e.Limit)
}

// IsStepsExceededError returns true if the error is a StepsExceededError.
// Uses errors.As to handle wrapped errors.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
