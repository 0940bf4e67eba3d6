package engine

import "fmt"

// RequestStage2Transition asks the engine to leave Stage 1.
//
// The stage changes to TransitioningToStage2 immediately. Flipping goes on
// until the flip in progress (or the next one, if none is running) finishes;
// that completion rebuilds the grid and enters Stage 2.
func (e *Engine) RequestStage2Transition() error {
	if !e.started || e.stage != Stage1 {
		return fmt.Errorf("stage 2 requested in %s: %w", e.stage, ErrInvalidTransition)
	}
	e.stage = TransitioningToStage2

	e.logger.Info("stage 2 requested", "epoch", uint64(e.epoch))
	return nil
}
