package engine

import (
	"errors"
	"fmt"
)

// Host API errors. Check with errors.Is.
var (
	// ErrAlreadyStarted is returned by Start on a running engine.
	ErrAlreadyStarted = errors.New("engine already started")

	// ErrInvalidTransition is returned when a stage change is requested
	// from a stage that does not allow it.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrViewportTooSmall is returned when the viewport cannot hold a
	// single row or column of tiles.
	ErrViewportTooSmall = errors.New("viewport too small")
)

// InvariantError reports corrupted engine bookkeeping.
//
// The engine panics with an *InvariantError: the grid can no longer be
// trusted and there is nothing sensible to continue with.
type InvariantError struct {
	// Code identifies the violated invariant.
	Code InvariantErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// InvariantErrorCode categorizes invariant violations.
type InvariantErrorCode string

const (
	// ErrCodeGridSizeMismatch indicates rows*cols differs from the tile count.
	ErrCodeGridSizeMismatch InvariantErrorCode = "GRID_SIZE_MISMATCH"

	// ErrCodeWrapperTileCount indicates a wrapper does not hold exactly one tile
	// when the Stage 2 rebuild runs.
	ErrCodeWrapperTileCount InvariantErrorCode = "WRAPPER_TILE_COUNT"

	// ErrCodeMissingCompletion indicates a completion for an unknown handle.
	ErrCodeMissingCompletion InvariantErrorCode = "MISSING_COMPLETION"

	// ErrCodeMissingTimer indicates a timer firing for an unknown handle.
	ErrCodeMissingTimer InvariantErrorCode = "MISSING_TIMER"

	// ErrCodeUnknownTile indicates a scroll completion for a tile that is not
	// in the grid.
	ErrCodeUnknownTile InvariantErrorCode = "UNKNOWN_TILE"
)

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvariantError reports whether err is an *InvariantError with the given
// code. Uses errors.As to handle wrapped errors.
func IsInvariantError(err error, code InvariantErrorCode) bool {
	var ie *InvariantError
	if errors.As(err, &ie) {
		return ie.Code == code
	}
	return false
}

// AsInvariantError extracts an *InvariantError from a recovered panic value.
func AsInvariantError(v any) (*InvariantError, bool) {
	err, ok := v.(error)
	if !ok {
		return nil, false
	}
	var ie *InvariantError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

func newGridSizeMismatch(rows, cols, tiles int) *InvariantError {
	return &InvariantError{
		Code:    ErrCodeGridSizeMismatch,
		Message: fmt.Sprintf("grid of %dx%d does not match %d tiles", rows, cols, tiles),
		Details: map[string]string{
			"rows":  fmt.Sprintf("%d", rows),
			"cols":  fmt.Sprintf("%d", cols),
			"tiles": fmt.Sprintf("%d", tiles),
		},
	}
}

func newWrapperTileCount(index, tiles int) *InvariantError {
	return &InvariantError{
		Code:    ErrCodeWrapperTileCount,
		Message: fmt.Sprintf("wrapper %d holds %d tiles, want 1", index, tiles),
		Details: map[string]string{
			"wrapper": fmt.Sprintf("%d", index),
			"tiles":   fmt.Sprintf("%d", tiles),
		},
	}
}

func newMissingCompletion(h uint64) *InvariantError {
	return &InvariantError{
		Code:    ErrCodeMissingCompletion,
		Message: fmt.Sprintf("no completion registered for handle %d", h),
		Details: map[string]string{"handle": fmt.Sprintf("%d", h)},
	}
}

func newMissingTimer(h uint64) *InvariantError {
	return &InvariantError{
		Code:    ErrCodeMissingTimer,
		Message: fmt.Sprintf("no timer registered for handle %d", h),
		Details: map[string]string{"handle": fmt.Sprintf("%d", h)},
	}
}

func newUnknownTile(id uint64, album string) *InvariantError {
	return &InvariantError{
		Code:    ErrCodeUnknownTile,
		Message: fmt.Sprintf("tile %d (%s) is not in the grid", id, album),
		Details: map[string]string{
			"layer": fmt.Sprintf("%d", id),
			"album": album,
		},
	}
}
