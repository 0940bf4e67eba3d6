// Package sim runs the engine on deterministic virtual time.
//
// Scheduler implements both anim.Timer and anim.Animator. Nothing happens
// until the caller advances time with Step or Advance; notifications are
// then delivered to the bound Dispatcher one at a time, ordered by due time
// and, for equal due times, by the order in which they were scheduled.
//
// Thread-safety: a Scheduler is not safe for concurrent use. It is meant to
// be driven from the same goroutine that owns the engine.
package sim

import (
	"container/heap"
	"time"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/anim"
)

// Commit is one transaction accepted by the scheduler.
type Commit struct {
	Handle anim.Handle
	At     time.Duration // virtual time of the commit
	Tx     anim.Transaction
}

// Scheduler is a virtual-time Timer and Animator.
type Scheduler struct {
	now  time.Duration
	seq  uint64
	d    anim.Dispatcher
	due  dueHeap
	keep bool

	nextTimer anim.TimerHandle
	nextTx    anim.Handle
	timers    map[anim.TimerHandle]*entry
	txs       map[anim.Handle]*entry
	commits   []Commit
	delivered int
}

var (
	_ anim.Timer    = (*Scheduler)(nil)
	_ anim.Animator = (*Scheduler)(nil)
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithCommitLog keeps every committed transaction for inspection by Commits.
func WithCommitLog() Option {
	return func(s *Scheduler) {
		s.keep = true
	}
}

// New creates a scheduler at virtual time zero.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		timers: make(map[anim.TimerHandle]*entry),
		txs:    make(map[anim.Handle]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bind sets the receiver of notifications. It must be called before the
// first Step or Advance.
func (s *Scheduler) Bind(d anim.Dispatcher) {
	s.d = d
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After implements anim.Timer.
func (s *Scheduler) After(delay time.Duration) anim.TimerHandle {
	if delay < 0 {
		delay = 0
	}
	s.nextTimer++
	h := s.nextTimer
	e := s.push(entry{kind: timerEntry, timer: h, at: s.now + delay})
	s.timers[h] = e
	return h
}

// Cancel implements anim.Timer.
func (s *Scheduler) Cancel(h anim.TimerHandle) bool {
	e, ok := s.timers[h]
	if !ok {
		return false
	}
	delete(s.timers, h)
	heap.Remove(&s.due, e.index)
	return true
}

// Commit implements anim.Animator.
func (s *Scheduler) Commit(tx anim.Transaction) anim.Handle {
	s.nextTx++
	h := s.nextTx
	if s.keep {
		s.commits = append(s.commits, Commit{Handle: h, At: s.now, Tx: tx})
	}
	if tx.Silent {
		return h
	}
	e := s.push(entry{kind: completionEntry, tx: h, at: s.now + tx.Span()})
	s.txs[h] = e
	return h
}

// Step delivers the earliest pending notification, moving virtual time to
// its due time. It reports false when nothing is pending.
func (s *Scheduler) Step() bool {
	if s.due.Len() == 0 {
		return false
	}
	if s.d == nil {
		panic("sim: no dispatcher bound")
	}

	e := heap.Pop(&s.due).(*entry)
	s.now = e.at
	s.delivered++

	switch e.kind {
	case timerEntry:
		delete(s.timers, e.timer)
		s.d.OnTimerFired(e.timer)
	case completionEntry:
		delete(s.txs, e.tx)
		s.d.OnAnimationComplete(e.tx)
	}
	return true
}

// Advance delivers every notification due within d of the current time,
// including those scheduled while advancing, then sets the clock to now+d.
// It returns the number of notifications delivered.
func (s *Scheduler) Advance(d time.Duration) int {
	target := s.now + d
	n := 0
	for s.due.Len() > 0 && s.due[0].at <= target {
		s.Step()
		n++
	}
	if target > s.now {
		s.now = target
	}
	return n
}

// NextDue returns the due time of the earliest pending notification.
func (s *Scheduler) NextDue() (time.Duration, bool) {
	if s.due.Len() == 0 {
		return 0, false
	}
	return s.due[0].at, true
}

// Pending returns the number of armed timers and outstanding completions.
func (s *Scheduler) Pending() int {
	return s.due.Len()
}

// PendingTimers returns the number of armed timers.
func (s *Scheduler) PendingTimers() int {
	return len(s.timers)
}

// Delivered returns the number of notifications delivered so far.
func (s *Scheduler) Delivered() int {
	return s.delivered
}

// Commits returns the transactions committed so far, oldest first.
// It is empty unless the scheduler was created WithCommitLog.
func (s *Scheduler) Commits() []Commit {
	return s.commits
}

// ResetCommits drops the commit log.
func (s *Scheduler) ResetCommits() {
	s.commits = nil
}

func (s *Scheduler) push(e entry) *entry {
	s.seq++
	e.seq = s.seq
	p := &e
	heap.Push(&s.due, p)
	return p
}
