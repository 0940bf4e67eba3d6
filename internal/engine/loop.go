package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/anim"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
)

// ErrLoopStopped is returned when an event cannot be delivered because the
// loop has stopped.
var ErrLoopStopped = errors.New("event loop stopped")

// Loop is the single-writer event loop around an Engine.
//
// Events from any goroutine (schedulers, input readers, signal handlers)
// are queued and processed one at a time in FIFO order by Run, which is the
// only goroutine that touches the engine.
//
// Thread-safety model:
//   - Enqueue() and the helpers built on it: safe from any goroutine
//   - Run(): must be called from exactly one goroutine
type Loop struct {
	engine *Engine
	queue  *eventQueue
	logger *slog.Logger
}

var _ anim.Dispatcher = (*Loop)(nil)

// NewLoop wraps e. Bind the schedulers used by e to the returned Loop.
func NewLoop(e *Engine) *Loop {
	return &Loop{
		engine: e,
		queue:  newEventQueue(),
		logger: e.logger,
	}
}

// Enqueue submits an event for processing by the Run loop.
// Thread-safe: may be called from any goroutine.
//
// Returns false if the loop has been stopped.
func (l *Loop) Enqueue(ev Event) bool {
	return l.queue.Enqueue(ev)
}

// OnTimerFired implements anim.Dispatcher.
func (l *Loop) OnTimerFired(h anim.TimerHandle) {
	l.Enqueue(Event{Type: EventTimerFired, Timer: h})
}

// OnAnimationComplete implements anim.Dispatcher.
func (l *Loop) OnAnimationComplete(h anim.Handle) {
	l.Enqueue(Event{Type: EventAnimationComplete, Handle: h})
}

// Start enqueues EventStart.
func (l *Loop) Start() bool {
	return l.Enqueue(Event{Type: EventStart})
}

// Drag enqueues a drag delta.
func (l *Loop) Drag(dx float64) bool {
	return l.Enqueue(Event{Type: EventDrag, Delta: dx})
}

// Resize enqueues a viewport change.
func (l *Loop) Resize(size layer.Size) bool {
	return l.Enqueue(Event{Type: EventViewportChanged, Viewport: size})
}

// RequestStage2 enqueues a Stage 2 request.
func (l *Loop) RequestStage2() bool {
	return l.Enqueue(Event{Type: EventStage2Requested})
}

// Stats asks the loop for a snapshot and waits for it.
func (l *Loop) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	if !l.Enqueue(Event{Type: EventStats, Reply: reply}) {
		return Stats{}, ErrLoopStopped
	}
	select {
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	case s := <-reply:
		return s, nil
	}
}

// Run starts the single-writer event loop.
// Blocks until context is cancelled or Stop() is called.
//
// ERROR HANDLING: a failed event (for example a Stage 2 request in the wrong
// stage) is logged with its context and processing continues. Invariant
// violations panic.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("event loop starting")

	for {
		event, ok := l.queue.TryDequeue()
		if ok {
			if err := l.process(event); err != nil {
				l.logger.Warn("event failed",
					"event", event.Type.String(),
					"error", err,
				)
			}
			continue
		}

		select {
		case <-ctx.Done():
			l.logger.Info("event loop stopping: context cancelled")
			l.queue.Close()
			return ctx.Err()

		case <-l.queue.Wait():
			// The signal channel closes when the queue is closed, which
			// makes this case fire immediately.
			if l.queue.Len() == 0 && l.closed() {
				l.logger.Info("event loop stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop closes the queue, which makes Run return once it is drained.
func (l *Loop) Stop() {
	l.queue.Close()
}

func (l *Loop) closed() bool {
	l.queue.mu.Lock()
	defer l.queue.mu.Unlock()
	return l.queue.closed
}

// process routes an event to the engine.
// Called only from the Run goroutine.
func (l *Loop) process(ev Event) error {
	e := l.engine
	switch ev.Type {
	case EventStart:
		return e.Start()

	case EventTimerFired:
		e.OnTimerFired(ev.Timer)
		return nil

	case EventAnimationComplete:
		e.OnAnimationComplete(ev.Handle)
		return nil

	case EventDrag:
		accepted := e.OnDragDelta(ev.Delta)
		l.logger.Debug("drag", "delta", ev.Delta, "accepted", accepted)
		return nil

	case EventViewportChanged:
		return e.OnViewportChanged(ev.Viewport)

	case EventStage2Requested:
		return e.RequestStage2Transition()

	case EventStats:
		if ev.Reply == nil {
			return fmt.Errorf("stats event missing reply channel")
		}
		ev.Reply <- e.Stats()
		return nil

	default:
		return fmt.Errorf("unknown event type: %d", ev.Type)
	}
}
