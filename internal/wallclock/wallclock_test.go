package wallclock

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/anim"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// chanDispatcher forwards notifications to channels.
type chanDispatcher struct {
	timers chan anim.TimerHandle
	txs    chan anim.Handle
}

func newChanDispatcher() *chanDispatcher {
	return &chanDispatcher{
		timers: make(chan anim.TimerHandle, 16),
		txs:    make(chan anim.Handle, 16),
	}
}

func (c *chanDispatcher) OnTimerFired(h anim.TimerHandle)   { c.timers <- h }
func (c *chanDispatcher) OnAnimationComplete(h anim.Handle) { c.txs <- h }

func quietScheduler(opts ...Option) *Scheduler {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return New(opts...)
}

func TestScheduler_TimerFires(t *testing.T) {
	s := quietScheduler()
	d := newChanDispatcher()
	s.Bind(d)
	defer s.Stop()

	h := s.After(5 * time.Millisecond)

	select {
	case got := <-d.timers:
		assert.Equal(t, h, got)
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	assert.False(t, s.Cancel(h), "fired timer cannot be cancelled")
}

func TestScheduler_CancelPreventsDelivery(t *testing.T) {
	s := quietScheduler()
	d := newChanDispatcher()
	s.Bind(d)
	defer s.Stop()

	h := s.After(50 * time.Millisecond)
	require.True(t, s.Cancel(h))
	assert.False(t, s.Cancel(h))

	select {
	case <-d.timers:
		t.Fatal("cancelled timer fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestScheduler_CancelWhileCallbackWaits(t *testing.T) {
	s := quietScheduler()
	d := newChanDispatcher()
	s.Bind(d)
	defer s.Stop()

	h := s.After(time.Millisecond)

	// The callback fires and blocks on the scheduler lock.
	s.mu.Lock()
	time.Sleep(30 * time.Millisecond)
	cancelled := s.cancelLocked(h)
	s.mu.Unlock()

	assert.True(t, cancelled, "a registered timer is always cancellable")
	select {
	case <-d.timers:
		t.Fatal("cancelled timer fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestScheduler_TransactionCompletes(t *testing.T) {
	s := quietScheduler(WithSpeed(100))
	d := newChanDispatcher()
	s.Bind(d)
	defer s.Stop()

	// 1s of animation at 100x speed.
	h := s.Commit(anim.Transaction{Items: []anim.Item{
		{Layer: 1, Animation: anim.Animation{Duration: time.Second}},
	}})

	select {
	case got := <-d.txs:
		assert.Equal(t, h, got)
	case <-time.After(time.Second):
		t.Fatal("transaction did not complete")
	}
}

func TestScheduler_SilentTransaction(t *testing.T) {
	s := quietScheduler()
	d := newChanDispatcher()
	s.Bind(d)
	defer s.Stop()

	s.Commit(anim.Transaction{Silent: true})
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_StopCancelsEverything(t *testing.T) {
	s := quietScheduler()
	d := newChanDispatcher()
	s.Bind(d)

	s.After(20 * time.Millisecond)
	s.Commit(anim.Transaction{Items: []anim.Item{
		{Layer: 1, Animation: anim.Animation{Duration: 20 * time.Millisecond}},
	}})
	require.Equal(t, 2, s.Pending())

	s.Stop()
	s.Stop()
	assert.Equal(t, 0, s.Pending())

	s.After(0)
	assert.Equal(t, 0, s.Pending(), "scheduling after stop is a no-op")

	select {
	case <-d.timers:
		t.Fatal("timer fired after stop")
	case <-d.txs:
		t.Fatal("transaction completed after stop")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestScheduler_ConcurrentUse(t *testing.T) {
	s := quietScheduler()
	d := newChanDispatcher()
	d.timers = make(chan anim.TimerHandle, 256)
	s.Bind(d)
	defer s.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 16; j++ {
				h := s.After(time.Millisecond)
				if j%2 == 0 {
					s.Cancel(h)
				}
			}
		}()
	}
	wg.Wait()

	assert.Eventually(t, func() bool { return s.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestWithSpeed_IgnoresNonPositive(t *testing.T) {
	s := New(WithSpeed(0), WithSpeed(-3))
	assert.Equal(t, 1.0, s.speed)
	assert.Equal(t, 500*time.Millisecond, s.scale(500*time.Millisecond))

	fast := New(WithSpeed(4))
	assert.Equal(t, 250*time.Millisecond, fast.scale(time.Second))
	assert.Equal(t, time.Duration(0), fast.scale(-time.Second))
}
