// services/acquire/acquire_test.go
package acquire

import (
	"context"
	"sync"
	"testing"
	"time"

	"rtnode-go/errcode"
	"rtnode-go/types"
)

// scripted sampler: serves a fixed sequence, then errors.
type fakeSampler struct {
	mu  sync.Mutex
	seq []int16
	i   int
	err []bool // err[i] marks call i as a transient fault
}

func (f *fakeSampler) Setup() error { return nil }

func (f *fakeSampler) Convert() (int16, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.i >= len(f.seq) {
		return 0, errcode.ConversionError
	}
	i := f.i
	f.i++
	if i < len(f.err) && f.err[i] {
		return 0, errcode.ConversionError
	}
	return f.seq[i], nil
}

// recording sink: collects commits and signals each one.
type recSink struct {
	mu   sync.Mutex
	got  []types.SensorReading
	note chan struct{}
}

func newRecSink(buf int) *recSink { return &recSink{note: make(chan struct{}, buf)} }

func (r *recSink) Commit(raw int16, derived int) {
	r.mu.Lock()
	r.got = append(r.got, types.SensorReading{Raw: raw, Derived: derived})
	r.mu.Unlock()
	r.note <- struct{}{}
}

func (r *recSink) commits() []types.SensorReading {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.SensorReading(nil), r.got...)
}

func waitCommits(t *testing.T, r *recSink, n int, d time.Duration) {
	t.Helper()
	deadline := time.After(d)
	for i := 0; i < n; i++ {
		select {
		case <-r.note:
		case <-deadline:
			t.Fatalf("timed out waiting for commit %d of %d", i+1, n)
		}
	}
}

func TestPipeline_OrderPreserved(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const n = 25 // more samples than the queue depth
	seq := make([]int16, n)
	for i := range seq {
		seq[i] = int16(i * 37 % 1024)
	}

	tick := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		tick <- struct{}{}
	}

	sink := newRecSink(n)
	p := New(Config{Sampler: &fakeSampler{seq: seq}, Sink: sink, Tick: tick})
	p.Start(ctx)

	waitCommits(t, sink, n, 2*time.Second)

	got := sink.commits()
	for i, r := range got {
		if r.Raw != seq[i] {
			t.Fatalf("commit %d: raw = %d, want %d (reordered?)", i, r.Raw, seq[i])
		}
		if r.Derived != MilliCelsius(seq[i]) {
			t.Fatalf("commit %d: derived = %d, want %d", i, r.Derived, MilliCelsius(seq[i]))
		}
	}
}

func TestPipeline_TransientFaultSkipsCycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tick := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		tick <- struct{}{}
	}

	sink := newRecSink(3)
	p := New(Config{
		Sampler: &fakeSampler{seq: []int16{100, 200, 300}, err: []bool{false, true, false}},
		Sink:    sink,
		Tick:    tick,
	})
	p.Start(ctx)

	// Three ticks, one fault: exactly two commits, and the faulty cycle
	// leaves no gap marker.
	waitCommits(t, sink, 2, 2*time.Second)
	time.Sleep(20 * time.Millisecond)

	got := sink.commits()
	if len(got) != 2 {
		t.Fatalf("got %d commits, want 2", len(got))
	}
	if got[0].Raw != 100 || got[1].Raw != 300 {
		t.Fatalf("commits = %v, want raws 100 then 300", got)
	}
}

func TestPipeline_BackpressureBlocksConverter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := New(Config{QueueDepth: 2, Sink: newRecSink(1)})

	// Fill the reading queue to capacity before the converter runs.
	p.readQ <- types.SensorReading{Raw: 1}
	p.readQ <- types.SensorReading{Raw: 2}

	go p.convertLoop(ctx)

	p.rawQ <- 500

	// The converter must be blocked on the full queue, not dropping.
	time.Sleep(20 * time.Millisecond)
	if n := len(p.readQ); n != 2 {
		t.Fatalf("reading queue length = %d while full, want 2", n)
	}

	// Drain one entry; the blocked push must now complete, in order.
	if r := <-p.readQ; r.Raw != 1 {
		t.Fatalf("first drain = %d, want 1", r.Raw)
	}
	want := types.SensorReading{Raw: 500, Derived: MilliCelsius(500)}
	deadline := time.After(time.Second)
	if r := recvReading(t, p.readQ, deadline); r.Raw != 2 {
		t.Fatalf("second drain = %d, want 2", r.Raw)
	}
	if r := recvReading(t, p.readQ, deadline); r != want {
		t.Fatalf("unblocked push = %+v, want %+v", r, want)
	}
}

func recvReading(t *testing.T, ch <-chan types.SensorReading, deadline <-chan time.Time) types.SensorReading {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-deadline:
		t.Fatal("timed out draining reading queue")
		return types.SensorReading{}
	}
}
