package sim

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/anim"
)

// recorder logs notifications and can run a hook on each one.
type recorder struct {
	s      *Scheduler
	events []string
	onFire func(h anim.TimerHandle)
}

func (r *recorder) OnTimerFired(h anim.TimerHandle) {
	r.events = append(r.events, fmt.Sprintf("%v timer %d", r.s.Now(), h))
	if r.onFire != nil {
		r.onFire(h)
	}
}

func (r *recorder) OnAnimationComplete(h anim.Handle) {
	r.events = append(r.events, fmt.Sprintf("%v tx %d", r.s.Now(), h))
}

func newRecorded(opts ...Option) (*Scheduler, *recorder) {
	s := New(opts...)
	r := &recorder{s: s}
	s.Bind(r)
	return s, r
}

func span(d time.Duration) anim.Transaction {
	return anim.Transaction{Items: []anim.Item{{Layer: 1, Animation: anim.Animation{Duration: d}}}}
}

func TestScheduler_OrdersByDueTimeThenFIFO(t *testing.T) {
	s, r := newRecorded()

	s.After(2 * time.Second)               // timer 1
	s.Commit(span(time.Second))            // tx 1
	s.After(time.Second)                   // timer 2
	s.Commit(span(500 * time.Millisecond)) // tx 2

	for s.Step() {
	}

	assert.Equal(t, []string{
		"500ms tx 2",
		"1s tx 1",
		"1s timer 2",
		"2s timer 1",
	}, r.events)
	assert.Equal(t, 4, s.Delivered())
}

func TestScheduler_NothingHappensUntilTimeMoves(t *testing.T) {
	s, r := newRecorded()

	s.After(0)
	s.Commit(anim.Transaction{})

	assert.Empty(t, r.events, "scheduling must not deliver synchronously")
	assert.Equal(t, 2, s.Pending())

	s.Advance(0)
	assert.Equal(t, []string{"0s timer 1", "0s tx 1"}, r.events)
}

func TestScheduler_Cancel(t *testing.T) {
	s, r := newRecorded()

	h := s.After(time.Second)
	assert.True(t, s.Cancel(h))
	assert.False(t, s.Cancel(h), "second cancel reports nothing prevented")
	assert.Equal(t, 0, s.PendingTimers())

	fired := s.After(time.Second)
	s.Advance(time.Second)
	assert.False(t, s.Cancel(fired), "a delivered timer cannot be cancelled")
	assert.Equal(t, []string{"1s timer 2"}, r.events)
}

func TestScheduler_CancelKeepsHeapOrder(t *testing.T) {
	s, r := newRecorded()

	var hs []anim.TimerHandle
	for i := 1; i <= 6; i++ {
		hs = append(hs, s.After(time.Duration(i)*time.Second))
	}
	s.Cancel(hs[2])
	s.Cancel(hs[0])

	for s.Step() {
	}
	assert.Equal(t, []string{"2s timer 2", "4s timer 4", "5s timer 5", "6s timer 6"}, r.events)
}

func TestScheduler_SilentTransactionsNeverComplete(t *testing.T) {
	s, r := newRecorded(WithCommitLog())

	tx := span(time.Second)
	tx.Silent = true
	h := s.Commit(tx)

	assert.Equal(t, 0, s.Pending())
	s.Advance(time.Minute)
	assert.Empty(t, r.events)

	require.Len(t, s.Commits(), 1)
	assert.Equal(t, h, s.Commits()[0].Handle)
	assert.True(t, s.Commits()[0].Tx.Silent)
}

func TestScheduler_AdvanceDeliversNewlyScheduledWork(t *testing.T) {
	s, r := newRecorded()

	// Each firing re-arms itself one second later, like the flip loop.
	r.onFire = func(anim.TimerHandle) {
		s.After(time.Second)
	}
	s.After(time.Second)

	n := s.Advance(3500 * time.Millisecond)

	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"1s timer 1", "2s timer 2", "3s timer 3"}, r.events)
	assert.Equal(t, 3500*time.Millisecond, s.Now())

	due, ok := s.NextDue()
	require.True(t, ok)
	assert.Equal(t, 4*time.Second, due)
}

func TestScheduler_CommitLogRecordsTime(t *testing.T) {
	s, _ := newRecorded(WithCommitLog())

	s.Advance(250 * time.Millisecond)
	s.Commit(anim.Transaction{})

	require.Len(t, s.Commits(), 1)
	assert.Equal(t, 250*time.Millisecond, s.Commits()[0].At)

	s.ResetCommits()
	assert.Empty(t, s.Commits())
}

func TestScheduler_WithoutCommitLog(t *testing.T) {
	s, _ := newRecorded()
	s.Commit(anim.Transaction{})
	assert.Empty(t, s.Commits())
}

func TestScheduler_StepWithoutDispatcherPanics(t *testing.T) {
	s := New()
	s.After(0)
	assert.Panics(t, func() { s.Step() })
}

func TestScheduler_NegativeDelayClamps(t *testing.T) {
	s, r := newRecorded()
	s.Advance(time.Second)
	s.After(-time.Second)
	s.Advance(0)
	assert.Equal(t, []string{"1s timer 1"}, r.events)
}
