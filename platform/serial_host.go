// platform/serial_host.go
//go:build !rp2040 && !rp2350

package platform

import (
	"sync"
	"time"

	"go.bug.st/serial"

	"rtnode-go/errcode"
	"rtnode-go/types"
	"rtnode-go/x/timex"
)

// SerialPort exposes a host serial device as a types.SerialTransport.
// The read side mimics the board driver: while armed, one bounded read
// (buffer-sized, idle-limited) completes a receive cycle, after which a
// receive-disabled event is emitted and reception stops until re-armed.
type SerialPort struct {
	port    serial.Port
	events  chan types.SerialEvent
	arm     chan struct{}
	bufSize int

	closeOnce sync.Once
	closed    chan struct{}
}

// OpenSerialPort opens name at the given baud rate. idle bounds each read
// cycle; a cycle that sees no data still completes with a receive-disabled
// event, so the command interface's re-arm keeps the port listening.
func OpenSerialPort(name string, baud int, bufSize int, idle time.Duration) (*SerialPort, error) {
	if bufSize <= 0 {
		bufSize = 10
	}
	if idle <= 0 {
		idle = 100 * time.Millisecond
	}
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, &errcode.E{C: errcode.DeviceNotReady, Op: "serial_open", Msg: name, Err: err}
	}
	if err := p.SetReadTimeout(idle); err != nil {
		_ = p.Close()
		return nil, &errcode.E{C: errcode.DeviceNotReady, Op: "serial_timeout", Err: err}
	}
	sp := &SerialPort{
		port:    p,
		events:  make(chan types.SerialEvent, 16),
		arm:     make(chan struct{}, 1),
		bufSize: bufSize,
		closed:  make(chan struct{}),
	}
	go sp.rxPump()
	return sp, nil
}

func (s *SerialPort) Send(p []byte) error {
	n, err := s.port.Write(p)
	if err != nil {
		return &errcode.E{C: errcode.TxFailed, Op: "serial_write", Err: err}
	}
	if n != len(p) {
		return &errcode.E{C: errcode.TxFailed, Op: "serial_write", Msg: "short write"}
	}
	return nil
}

func (s *SerialPort) EnableReceive() error {
	select {
	case <-s.closed:
		return errcode.PortClosed
	default:
	}
	select {
	case s.arm <- struct{}{}:
	default:
		// already armed
	}
	return nil
}

func (s *SerialPort) Events() <-chan types.SerialEvent { return s.events }

// Close stops the pump and closes the device. The event channel closes
// once the pump exits.
func (s *SerialPort) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		err = s.port.Close()
	})
	return err
}

func (s *SerialPort) rxPump() {
	defer close(s.events)
	buf := make([]byte, s.bufSize)
	for {
		select {
		case <-s.closed:
			return
		case <-s.arm:
		}
		// One bounded read per armed cycle; the read timeout set at open
		// plays the driver's receive-timeout role.
		n, err := s.port.Read(buf)
		if err != nil {
			select {
			case <-s.closed:
			default:
				println("[serial] read failed:", err.Error())
			}
			return
		}
		if n > 0 {
			data := append([]byte(nil), buf[:n]...)
			s.events <- types.SerialEvent{Kind: types.SerialRxData, Data: data, TSms: timex.NowMs()}
		}
		s.events <- types.SerialEvent{Kind: types.SerialRxDisabled, TSms: timex.NowMs()}
	}
}

var _ types.SerialTransport = (*SerialPort)(nil)
