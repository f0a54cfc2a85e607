// services/acquire/acquire.go
package acquire

import (
	"context"

	"rtnode-go/types"
)

// DefaultQueueDepth bounds both pipeline stages. A full queue blocks its
// producer; samples are never dropped or overwritten.
const DefaultQueueDepth = 10

// Committer stores one converted reading. rtdb.SensorWriter satisfies it.
type Committer interface {
	Commit(raw int16, derived int)
}

// Config wires the three pipeline stages.
type Config struct {
	Sampler types.AnalogSampler
	Sink    Committer
	// Tick paces the acquisition stage; one conversion per tick.
	Tick <-chan struct{}
	// QueueDepth overrides DefaultQueueDepth when > 0.
	QueueDepth int
}

// Pipeline is the three-stage acquisition path:
//
//	sampler -> rawQ -> convert -> readQ -> commit
//
// Each queue is single-producer/single-consumer, so samples flow strictly
// FIFO: the Nth raw sample produces the Nth commit.
type Pipeline struct {
	cfg   Config
	rawQ  chan int16
	readQ chan types.SensorReading
}

func New(cfg Config) *Pipeline {
	depth := cfg.QueueDepth
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &Pipeline{
		cfg:   cfg,
		rawQ:  make(chan int16, depth),
		readQ: make(chan types.SensorReading, depth),
	}
}

// Start launches the three stages. They run until ctx is cancelled.
func (p *Pipeline) Start(ctx context.Context) {
	go p.sampleLoop(ctx)
	go p.convertLoop(ctx)
	go p.commitLoop(ctx)
}

// sampleLoop triggers one conversion per tick. A failed conversion is a
// transient sensor fault: the cycle is skipped and retried next period.
// The push blocks when the queue is full, stalling acquisition instead of
// losing samples.
func (p *Pipeline) sampleLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.cfg.Tick:
		}
		raw, err := p.cfg.Sampler.Convert()
		if err != nil {
			continue
		}
		select {
		case p.rawQ <- raw:
		case <-ctx.Done():
			return
		}
	}
}

// convertLoop is a pure function of its input: pop, transform, push.
func (p *Pipeline) convertLoop(ctx context.Context) {
	for {
		var raw int16
		select {
		case <-ctx.Done():
			return
		case raw = <-p.rawQ:
		}
		r := types.SensorReading{Raw: raw, Derived: MilliCelsius(raw)}
		select {
		case p.readQ <- r:
		case <-ctx.Done():
			return
		}
	}
}

// commitLoop is the sole writer of the database's raw/derived pair.
func (p *Pipeline) commitLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-p.readQ:
			p.cfg.Sink.Commit(r.Raw, r.Derived)
		}
	}
}
