package engine

import (
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/anim"
)

// completionKind tags what a committed transaction was for.
type completionKind int

const (
	kindFlipDone completionKind = iota + 1
	kindRebuildDone
	kindScrollDone
	kindRotationDone
)

func (k completionKind) String() string {
	switch k {
	case kindFlipDone:
		return "flip_done"
	case kindRebuildDone:
		return "rebuild_done"
	case kindScrollDone:
		return "scroll_done"
	case kindRotationDone:
		return "rotation_done"
	default:
		return "unknown"
	}
}

// completion is the record kept for every non-silent transaction.
// Only the fields of its kind are set.
type completion struct {
	kind  completionKind
	epoch Epoch

	// kindFlipDone
	wrapper *wrapper
	front   *Tile

	// kindScrollDone
	tile       *Tile
	row        *scrollRow
	firstInRow bool
}

// timerKind tags what an armed timer was for.
type timerKind int

const (
	kindFlipTimer timerKind = iota + 1
)

type timerRecord struct {
	kind  timerKind
	epoch Epoch
}

// commit sends tx to the animator and registers the record that will be
// looked up when it completes.
func (e *Engine) commit(tx anim.Transaction, c completion) anim.Handle {
	c.epoch = e.epoch
	h := e.animator.Commit(tx)
	e.pending[h] = c
	return h
}

// OnAnimationComplete implements anim.Dispatcher.
//
// Panics with an *InvariantError if h was never registered.
func (e *Engine) OnAnimationComplete(h anim.Handle) {
	c, ok := e.pending[h]
	if !ok {
		panic(newMissingCompletion(uint64(h)))
	}
	delete(e.pending, h)

	if c.epoch != e.epoch {
		return
	}

	switch c.kind {
	case kindFlipDone:
		e.onFlipCycleCompleted(c)
	case kindRebuildDone:
		e.scaleOutAndScatter()
	case kindScrollDone:
		e.onScrollCompleted(c)
	case kindRotationDone:
		e.onRotationCompleted()
	}
}

// OnTimerFired implements anim.Dispatcher.
//
// Panics with an *InvariantError if h was never registered.
func (e *Engine) OnTimerFired(h anim.TimerHandle) {
	rec, ok := e.timers[h]
	if !ok {
		panic(newMissingTimer(uint64(h)))
	}
	delete(e.timers, h)
	if e.flipTimer == h {
		e.flipTimer = 0
	}

	if rec.epoch != e.epoch {
		return
	}

	switch rec.kind {
	case kindFlipTimer:
		e.performFlip()
	}
}
