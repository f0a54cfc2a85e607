// platform/board_rp2.go
//go:build rp2040 || rp2350

package platform

import (
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/mcp3008"

	"rtnode-go/errcode"
	"rtnode-go/types"
	"rtnode-go/x/timex"
)

// ----------------------------- GPIO (board) -----------------------------------

// BoardPin adapts machine.Pin to types.DigitalPin.
type BoardPin struct {
	p machine.Pin
	n int
}

func PinByNumber(n int) *BoardPin { return &BoardPin{p: machine.Pin(n), n: n} }

func (b *BoardPin) ConfigureInput(pull types.Pull) error {
	var mode machine.PinMode
	switch pull {
	case types.PullUp:
		mode = machine.PinInputPullup
	case types.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	b.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (b *BoardPin) ConfigureOutput(initial bool) error {
	b.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	b.p.Set(initial)
	return nil
}

func (b *BoardPin) Set(level bool) { b.p.Set(level) }
func (b *BoardPin) Get() bool      { return b.p.Get() }
func (b *BoardPin) Number() int    { return b.n }

var _ types.DigitalPin = (*BoardPin)(nil)

// --------------------------- Sampler (board) -----------------------------------

// MCP3008Sampler reads one channel of an MCP3008 10-bit SPI converter.
type MCP3008Sampler struct {
	spi  *machine.SPI
	cs   machine.Pin
	ch   int
	dev  mcp3008.Device
	freq uint32
}

func NewMCP3008Sampler(spi *machine.SPI, cs machine.Pin, ch int) *MCP3008Sampler {
	return &MCP3008Sampler{spi: spi, cs: cs, ch: ch, freq: 1_350_000}
}

func (s *MCP3008Sampler) Setup() error {
	if s.ch < 0 || s.ch > 7 {
		return errcode.InvalidParams
	}
	if err := s.spi.Configure(machine.SPIConfig{Frequency: s.freq, Mode: 0}); err != nil {
		return &errcode.E{C: errcode.DeviceNotReady, Op: "spi_configure", Err: err}
	}
	s.dev = mcp3008.New(s.spi, s.cs)
	s.dev.Configure()
	return nil
}

func (s *MCP3008Sampler) Convert() (int16, error) {
	v, err := s.dev.Read(s.ch)
	if err != nil {
		return 0, &errcode.E{C: errcode.ConversionError, Op: "mcp3008_read", Err: err}
	}
	// The driver scales to the 16-bit machine.ADC convention; narrow back
	// to the converter's native 10 bits.
	return int16(v >> 6), nil
}

var _ types.AnalogSampler = (*MCP3008Sampler)(nil)

// --------------------------- Transport (board) ---------------------------------

// UARTTransport drives a uartx port as a types.SerialTransport. A receive
// cycle starts once armed: it waits for the first byte, coalesces input
// until the buffer fills or the line goes idle, then reports the buffer
// and a receive-disabled event.
type UARTTransport struct {
	u       *uartx.UART
	events  chan types.SerialEvent
	arm     chan struct{}
	bufSize int
	idle    time.Duration
}

func NewUARTTransport(u *uartx.UART, bufSize int, idle time.Duration) *UARTTransport {
	if bufSize <= 0 {
		bufSize = 10
	}
	if idle <= 0 {
		idle = 100 * time.Millisecond
	}
	t := &UARTTransport{
		u:       u,
		events:  make(chan types.SerialEvent, 16),
		arm:     make(chan struct{}, 1),
		bufSize: bufSize,
		idle:    idle,
	}
	go t.rxPump()
	return t
}

func (t *UARTTransport) Send(p []byte) error {
	n, err := t.u.Write(p)
	if err != nil {
		return &errcode.E{C: errcode.TxFailed, Op: "uart_write", Err: err}
	}
	if n != len(p) {
		return &errcode.E{C: errcode.TxFailed, Op: "uart_write", Msg: "short write"}
	}
	return nil
}

func (t *UARTTransport) EnableReceive() error {
	select {
	case t.arm <- struct{}{}:
	default:
	}
	return nil
}

func (t *UARTTransport) Events() <-chan types.SerialEvent { return t.events }

func (t *UARTTransport) rxPump() {
	buf := make([]byte, t.bufSize)
	for {
		<-t.arm
		// Wait for the first byte of this cycle.
		<-t.u.Readable()
		fill := 0
	drain:
		for fill < len(buf) {
			n := t.u.TryRead(buf[fill:])
			if n > 0 {
				fill += n
				continue
			}
			select {
			case <-t.u.Readable():
			case <-time.After(t.idle):
				break drain
			}
		}
		if fill > 0 {
			data := append([]byte(nil), buf[:fill]...)
			t.events <- types.SerialEvent{Kind: types.SerialRxData, Data: data, TSms: timex.NowMs()}
		}
		t.events <- types.SerialEvent{Kind: types.SerialRxDisabled, TSms: timex.NowMs()}
	}
}

var _ types.SerialTransport = (*UARTTransport)(nil)
