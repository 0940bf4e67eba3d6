package engine

import (
	"math"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/anim"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/config"
)

// OnDragDelta reacts to a horizontal drag of dx points and reports whether
// it started a rotation.
//
// Rotations only run in Stage 2 and at most MaxInflightRotations at once.
// The first rotation needs |dx| >= RotationMinDelta; compounding onto a
// running one needs |dx| >= RotationCompoundDelta. Each rotation turns the
// whole field a full revolution in the direction of dx, so any number of
// compounded rotations ends facing forward.
func (e *Engine) OnDragDelta(dx float64) bool {
	if e.stage != Stage2 || e.inflight >= e.cfg.MaxInflightRotations {
		return false
	}
	if math.IsNaN(dx) {
		return false
	}

	threshold := e.cfg.RotationMinDelta
	if e.inflight > 0 {
		threshold = e.cfg.RotationCompoundDelta
	}
	if math.Abs(math.Trunc(dx)) < float64(threshold) {
		return false
	}

	direction := 1.0
	if math.Signbit(dx) {
		direction = -1.0
	}

	e.commit(anim.Transaction{Items: []anim.Item{
		{Layer: e.surface.Root(), Animation: anim.Animation{
			Property:            anim.PropSublayerRotationY,
			By:                  &anim.Value{Scalar: direction * 2 * math.Pi},
			Easing:              anim.EaseOut,
			Fill:                anim.FillForwards,
			RemovedOnCompletion: true,
			Duration:            config.Seconds(e.cfg.RotationDuration),
		}},
	}}, completion{kind: kindRotationDone})
	e.inflight++

	e.logger.Debug("rotation started",
		"direction", direction,
		"inflight", e.inflight,
	)
	return true
}

func (e *Engine) onRotationCompleted() {
	e.inflight--
}

// InflightRotations returns the number of rotations still running.
func (e *Engine) InflightRotations() int {
	return e.inflight
}
