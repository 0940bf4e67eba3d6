// Package anim describes timed layer animations and the scheduling
// capabilities the engine consumes.
//
// The engine never runs callbacks captured in closures. Instead it commits a
// Transaction to an Animator (or arms a Timer), keeps the returned handle,
// and later receives exactly one notification carrying that handle through
// the Dispatcher. What happens next is decided by the engine when the
// notification arrives.
package anim

import (
	"time"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
)

// Handle identifies a committed transaction.
type Handle uint64

// TimerHandle identifies an armed one-shot timer.
type TimerHandle uint64

// Property names the animated key path of a layer.
type Property string

const (
	PropTransform         Property = "transform"
	PropPosition          Property = "position"
	PropSublayerRotationY Property = "sublayerTransform.rotation.y"
)

// Easing selects the timing curve.
type Easing int

const (
	EaseLinear Easing = iota
	EaseIn
	EaseOut
	EaseInOut
)

// Fill controls what the presentation shows outside the active interval.
type Fill int

const (
	FillRemoved   Fill = iota // model value before and after
	FillForwards              // hold the final value after completion
	FillBackwards             // show the first value during the start delay
	FillBoth
)

// Value is one animated value. Only the member matching the Property is used.
type Value struct {
	Transform layer.Transform
	Point     layer.Point
	Scalar    float64
}

// Animation describes one timed change to a single layer property.
//
// Either Keyframes or From/To/By is set. By is relative to the current
// presentation value, which makes successive relative animations compound.
type Animation struct {
	Property            Property
	Keyframes           []Value
	From, To, By        *Value
	Easing              Easing
	Fill                Fill
	RemovedOnCompletion bool
	Delay               time.Duration
	Duration            time.Duration
}

// End returns the offset from commit time at which the animation finishes.
func (a Animation) End() time.Duration {
	delay := a.Delay
	if delay < 0 {
		delay = 0
	}
	return delay + a.Duration
}

// Item attaches an animation to a layer.
type Item struct {
	Layer     layer.ID
	Animation Animation
}

// Transaction groups animations that share one completion notification.
//
// A transaction completes once every item has finished. An empty transaction
// completes as soon as the animator next delivers notifications, which makes
// it a flush point for preceding model changes. Silent transactions never
// report completion.
type Transaction struct {
	Items  []Item
	Silent bool
}

// Span returns the offset from commit time at which the transaction completes.
func (tx Transaction) Span() time.Duration {
	var span time.Duration
	for _, it := range tx.Items {
		if end := it.Animation.End(); end > span {
			span = end
		}
	}
	return span
}

// Animator attaches transactions to layers.
//
// Completion is reported exactly once per non-silent transaction, even when
// the animated layers were removed in the meantime. Implementations never
// report synchronously from inside Commit.
type Animator interface {
	Commit(tx Transaction) Handle
}

// Timer arms one-shot timers.
//
// Cancel reports whether it prevented delivery. A false result means the
// timer already fired or was never armed; its notification may still be in
// flight. Implementations never fire synchronously from inside After.
type Timer interface {
	After(delay time.Duration) TimerHandle
	Cancel(h TimerHandle) bool
}

// Dispatcher receives timer and completion notifications.
type Dispatcher interface {
	OnTimerFired(h TimerHandle)
	OnAnimationComplete(h Handle)
}
