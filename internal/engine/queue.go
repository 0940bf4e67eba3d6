package engine

import (
	"sync"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/anim"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
)

// EventType distinguishes between event kinds.
type EventType int

const (
	// EventStart builds the grid and starts the flip loop.
	EventStart EventType = iota + 1
	// EventTimerFired delivers a timer notification.
	EventTimerFired
	// EventAnimationComplete delivers a transaction completion.
	EventAnimationComplete
	// EventDrag delivers a horizontal drag delta.
	EventDrag
	// EventViewportChanged delivers a new viewport size.
	EventViewportChanged
	// EventStage2Requested asks for the Stage 2 transition.
	EventStage2Requested
	// EventStats asks for a Stats snapshot on Reply.
	EventStats
)

func (t EventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventTimerFired:
		return "timer_fired"
	case EventAnimationComplete:
		return "animation_complete"
	case EventDrag:
		return "drag"
	case EventViewportChanged:
		return "viewport_changed"
	case EventStage2Requested:
		return "stage2_requested"
	case EventStats:
		return "stats"
	default:
		return "unknown"
	}
}

// Event is one unit of work for the Loop. Only the fields of its Type are set.
type Event struct {
	Type     EventType
	Timer    anim.TimerHandle
	Handle   anim.Handle
	Delta    float64
	Viewport layer.Size
	Reply    chan<- Stats // buffered; EventStats only
}

// eventQueue is a thread-safe FIFO queue for events.
//
// The queue is unbounded; Enqueue never blocks.
//
// The queue uses a channel for signaling to enable context-aware waiting
// in the Run loop.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	signal chan struct{} // Signals event availability (buffered, size 1)
}

// newEventQueue creates an empty event queue.
func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an event to the back of the queue.
// Thread-safe: may be called from any goroutine.
// Returns false if the queue is closed.
func (q *eventQueue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.events = append(q.events, e)

	// Non-blocking: the buffer of 1 coalesces multiple signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue attempts to dequeue without blocking.
// Returns (Event{}, false) if queue is empty.
func (q *eventQueue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}

	e := q.events[0]

	// Clear the slot so the backing array does not retain the Reply channel.
	q.events[0] = Event{}

	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}

	return e, true
}

// Wait returns a channel that signals when events may be available.
// Use with select for context-aware waiting:
//
//	select {
//	case <-ctx.Done():
//	    return ctx.Err()
//	case <-q.Wait():
//	    // Try TryDequeue
//	}
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close signals that no more events will be enqueued.
// Wakes any blocked waiters by closing the signal channel.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
