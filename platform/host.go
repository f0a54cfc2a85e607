// platform/host.go
//go:build !rp2040 && !rp2350

package platform

import (
	"sync"

	"rtnode-go/errcode"
	"rtnode-go/types"
	"rtnode-go/x/timex"
)

// ----------------------------- GPIO (host) -----------------------------------

// SimPin implements types.DigitalPin for host builds and tests.
type SimPin struct {
	mu    sync.Mutex
	n     int
	level bool
	out   bool
	sets  int
}

func NewSimPin(n int) *SimPin { return &SimPin{n: n} }

func (p *SimPin) ConfigureInput(_ types.Pull) error {
	p.mu.Lock()
	p.out = false
	p.mu.Unlock()
	return nil
}

func (p *SimPin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.out = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *SimPin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.sets++
	p.mu.Unlock()
}

func (p *SimPin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *SimPin) Number() int { return p.n }

// SetLevel drives an input pin from the test side.
func (p *SimPin) SetLevel(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

// Sets reports how many hardware writes the pin has seen.
func (p *SimPin) Sets() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sets
}

var _ types.DigitalPin = (*SimPin)(nil)

// --------------------------- Sampler (host) -----------------------------------

// SimSampler implements types.AnalogSampler over a generator function.
type SimSampler struct {
	mu       sync.Mutex
	next     func() (int16, error)
	setupErr error
}

func NewSimSampler(next func() (int16, error)) *SimSampler {
	return &SimSampler{next: next}
}

// FailSetup makes the next Setup call fail, for startup-path tests.
func (s *SimSampler) FailSetup(err error) {
	s.mu.Lock()
	s.setupErr = err
	s.mu.Unlock()
}

func (s *SimSampler) Setup() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setupErr != nil {
		return s.setupErr
	}
	if s.next == nil {
		return errcode.DeviceNotReady
	}
	return nil
}

func (s *SimSampler) Convert() (int16, error) {
	s.mu.Lock()
	next := s.next
	s.mu.Unlock()
	if next == nil {
		return 0, errcode.ConversionError
	}
	return next()
}

var _ types.AnalogSampler = (*SimSampler)(nil)

// RampWave sweeps the converter's 10-bit span in fixed steps, wrapping at
// full scale. Handy for host demos.
func RampWave(step int16) func() (int16, error) {
	if step <= 0 {
		step = 1
	}
	var v int16
	var mu sync.Mutex
	return func() (int16, error) {
		mu.Lock()
		defer mu.Unlock()
		v += step
		if v > 1023 {
			v = 0
		}
		return v, nil
	}
}

// --------------------------- Transport (host) ---------------------------------

// LoopTransport is an in-memory types.SerialTransport honouring the
// data-ready / receive-disabled contract: each pushed buffer is delivered
// once, followed by a receive-disabled event, and reception stays off
// until EnableReceive re-arms it.
type LoopTransport struct {
	mu      sync.Mutex
	events  chan types.SerialEvent
	sent    []byte
	armed   bool
	sendErr error
}

func NewLoopTransport() *LoopTransport {
	return &LoopTransport{events: make(chan types.SerialEvent, 16)}
}

func (t *LoopTransport) Send(p []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sendErr != nil {
		return t.sendErr
	}
	t.sent = append(t.sent, p...)
	return nil
}

func (t *LoopTransport) EnableReceive() error {
	t.mu.Lock()
	t.armed = true
	t.mu.Unlock()
	return nil
}

func (t *LoopTransport) Events() <-chan types.SerialEvent { return t.events }

// Push delivers one completed receive buffer the way the driver would.
// Returns false when reception is not armed (the buffer is lost, exactly
// as on real hardware).
func (t *LoopTransport) Push(data []byte) bool {
	t.mu.Lock()
	if !t.armed {
		t.mu.Unlock()
		return false
	}
	t.armed = false
	t.mu.Unlock()

	d := append([]byte(nil), data...)
	t.events <- types.SerialEvent{Kind: types.SerialRxData, Data: d, TSms: timex.NowMs()}
	t.events <- types.SerialEvent{Kind: types.SerialRxDisabled, TSms: timex.NowMs()}
	return true
}

// Sent returns everything transmitted so far.
func (t *LoopTransport) Sent() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]byte(nil), t.sent...)
}

// Armed reports whether reception is currently enabled.
func (t *LoopTransport) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed
}

// FailSend makes subsequent Send calls fail.
func (t *LoopTransport) FailSend(err error) {
	t.mu.Lock()
	t.sendErr = err
	t.mu.Unlock()
}

var _ types.SerialTransport = (*LoopTransport)(nil)
