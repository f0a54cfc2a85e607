package sched

import (
	"container/heap"
	"context"
	"math/rand"
	"sync"
	"time"
)

// Tick channels have capacity 1 and sends never block: a task still busy
// with its previous cycle misses ticks instead of queueing them, so a
// stalled consumer stalls its own cadence rather than growing a backlog.

type item struct {
	name   string
	ch     chan struct{}
	due    int64
	every  time.Duration
	jitter time.Duration
	index  int
}

type itemHeap []*item

func (h itemHeap) Len() int           { return len(h) }
func (h itemHeap) Less(i, j int) bool { return h[i].due < h[j].due }
func (h itemHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *itemHeap) Push(x any)        { it := x.(*item); it.index = len(*h); *h = append(*h, it) }
func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	it.index = -1
	*h = old[:n-1]
	return it
}
func (h itemHeap) top() *item {
	if len(h) == 0 {
		return nil
	}
	return h[0]
}

// Scheduler drives every periodic task in the node from a single timer
// over a min-heap of due times.
type Scheduler struct {
	mu    sync.Mutex
	wake  chan struct{}
	items map[string]*item
	h     itemHeap
	rand  *rand.Rand
}

func New() *Scheduler {
	return &Scheduler{
		wake:  make(chan struct{}, 1),
		items: make(map[string]*item),
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Add registers a periodic tick and returns its channel. Re-adding a name
// updates the interval but keeps the channel. The first fire occurs after
// interval plus a random jitter in [0..jitter]; jitter is re-applied on
// each re-arm.
func (s *Scheduler) Add(name string, every, jitter time.Duration) <-chan struct{} {
	if every <= 0 {
		every = time.Second
	}
	if jitter < 0 {
		jitter = 0
	}

	s.mu.Lock()
	nextDue := time.Now().Add(s.jittered(every, jitter)).UnixNano()
	it := s.items[name]
	if it == nil {
		it = &item{
			name:   name,
			ch:     make(chan struct{}, 1),
			due:    nextDue,
			every:  every,
			jitter: jitter,
			index:  -1,
		}
		s.items[name] = it
		heap.Push(&s.h, it)
	} else {
		it.every = every
		it.jitter = jitter
		it.due = nextDue
		heap.Fix(&s.h, it.index)
	}
	ch := it.ch
	s.mu.Unlock()
	s.wakeup()
	return ch
}

// Stop removes a schedule. Its tick channel stops firing but stays open.
func (s *Scheduler) Stop(name string) {
	s.mu.Lock()
	if it := s.items[name]; it != nil {
		heap.Remove(&s.h, it.index)
		delete(s.items, name)
	}
	s.mu.Unlock()
	s.wakeup()
}

// Run blocks, firing ticks, until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		wait := s.nextWait()
		if wait < 0 {
			select {
			case <-ctx.Done():
				return
			case <-s.wake:
				continue
			}
		}
		if wait == 0 {
			var fire *item

			s.mu.Lock()
			now := time.Now().UnixNano()
			top := s.h.top()
			if top != nil && top.due <= now {
				fire = heap.Pop(&s.h).(*item)
				fire.due = time.Now().Add(s.jittered(fire.every, fire.jitter)).UnixNano()
				heap.Push(&s.h, fire)
			}
			s.mu.Unlock()

			if fire != nil {
				select {
				case fire.ch <- struct{}{}:
				default:
					// consumer still busy; this tick coalesces away
				}
			}
			continue
		}

		timer.Reset(time.Duration(wait))
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			if !timer.Stop() {
				<-timer.C
			}
		case <-timer.C:
		}
	}
}

func (s *Scheduler) nextWait() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	top := s.h.top()
	if top == nil {
		return -1
	}
	now := time.Now().UnixNano()
	if top.due <= now {
		return 0
	}
	return top.due - now
}

func (s *Scheduler) wakeup() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) jittered(every, jitter time.Duration) time.Duration {
	if jitter <= 0 {
		return every
	}
	extra := time.Duration(s.rand.Int63n(int64(jitter) + 1)) // [0..jitter]
	return every + extra
}
