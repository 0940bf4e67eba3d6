package sim

import (
	"time"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/anim"
)

type entryKind int

const (
	timerEntry entryKind = iota + 1
	completionEntry
)

type entry struct {
	kind  entryKind
	at    time.Duration
	seq   uint64
	timer anim.TimerHandle
	tx    anim.Handle
	index int
}

// dueHeap orders entries by due time, then by scheduling order.
type dueHeap []*entry

func (h dueHeap) Len() int { return len(h) }

func (h dueHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h dueHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *dueHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *dueHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
