// Package wallclock runs the engine's timers and transaction completions on
// real time.
//
// Each timer or non-silent transaction is backed by a time.AfterFunc.
// Notifications arrive on timer goroutines, so the bound Dispatcher must be
// safe for concurrent use; engine.Loop is the intended receiver.
package wallclock

import (
	"log/slog"
	"sync"
	"time"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/anim"
)

// Scheduler is a real-time anim.Timer and anim.Animator.
//
// Thread-safety: all methods are safe for concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	d       anim.Dispatcher
	speed   float64
	logger  *slog.Logger
	stopped bool

	nextTimer anim.TimerHandle
	nextTx    anim.Handle
	timers    map[anim.TimerHandle]*time.Timer
	txs       map[anim.Handle]*time.Timer
}

var (
	_ anim.Timer    = (*Scheduler)(nil)
	_ anim.Animator = (*Scheduler)(nil)
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSpeed scales time: 2 runs twice as fast, 0.5 half as fast.
// Non-positive values are ignored.
func WithSpeed(speed float64) Option {
	return func(s *Scheduler) {
		if speed > 0 {
			s.speed = speed
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// New creates a scheduler. Bind must be called before anything is scheduled.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		speed:  1,
		logger: slog.Default(),
		timers: make(map[anim.TimerHandle]*time.Timer),
		txs:    make(map[anim.Handle]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bind sets the receiver of notifications.
func (s *Scheduler) Bind(d anim.Dispatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d = d
}

// After implements anim.Timer.
func (s *Scheduler) After(delay time.Duration) anim.TimerHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTimer++
	h := s.nextTimer
	if s.stopped {
		return h
	}

	s.timers[h] = time.AfterFunc(s.scale(delay), func() {
		s.mu.Lock()
		_, live := s.timers[h]
		delete(s.timers, h)
		d := s.d
		s.mu.Unlock()

		if live && d != nil {
			d.OnTimerFired(h)
		}
	})
	return h
}

// Cancel implements anim.Timer.
//
// It reports true whenever the timer was still registered. A callback that
// already started finds the entry gone and drops the notification.
func (s *Scheduler) Cancel(h anim.TimerHandle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(h)
}

func (s *Scheduler) cancelLocked(h anim.TimerHandle) bool {
	t, ok := s.timers[h]
	if !ok {
		return false
	}
	delete(s.timers, h)
	t.Stop()
	return true
}

// Commit implements anim.Animator.
//
// The transaction's visual effect is the renderer's concern; the scheduler
// only reports completion once its span has elapsed.
func (s *Scheduler) Commit(tx anim.Transaction) anim.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTx++
	h := s.nextTx
	if tx.Silent || s.stopped {
		return h
	}

	span := tx.Span()
	s.logger.Debug("transaction committed",
		"handle", uint64(h),
		"items", len(tx.Items),
		"span", span,
	)

	s.txs[h] = time.AfterFunc(s.scale(span), func() {
		s.mu.Lock()
		_, live := s.txs[h]
		delete(s.txs, h)
		d := s.d
		s.mu.Unlock()

		if live && d != nil {
			d.OnAnimationComplete(h)
		}
	})
	return h
}

// Pending returns the number of armed timers and outstanding completions.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers) + len(s.txs)
}

// Stop cancels everything outstanding. Later calls to After and Commit
// return handles that never fire.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	for h, t := range s.timers {
		t.Stop()
		delete(s.timers, h)
	}
	for h, t := range s.txs {
		t.Stop()
		delete(s.txs, h)
	}
}

func (s *Scheduler) scale(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(float64(d) / s.speed)
}
