// services/command/command.go
package command

import (
	"context"

	"rtnode-go/rtdb"
	"rtnode-go/types"
	"rtnode-go/x/conv"
)

// Interface reacts to transport receive events: it dispatches each byte of
// a completed buffer, answers recognized commands with one synchronous
// send each, and re-arms reception after every receive-disabled event.
// It holds the database's LED write handle; it is the sole writer of the
// LED flags.
type Interface struct {
	db   *rtdb.DB
	leds rtdb.LEDWriter
	tr   types.SerialTransport
}

func New(db *rtdb.DB, leds rtdb.LEDWriter, tr types.SerialTransport) *Interface {
	return &Interface{db: db, leds: leds, tr: tr}
}

func (c *Interface) Start(ctx context.Context) {
	go c.Run(ctx)
}

// Run consumes transport events until ctx is cancelled or the event
// channel closes. Critical sections inside dispatch are single field
// accesses, so this handler never blocks on the database for long.
func (c *Interface) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.tr.Events():
			if !ok {
				return
			}
			switch ev.Kind {
			case types.SerialRxData:
				for _, b := range ev.Data {
					c.dispatch(b)
				}
			case types.SerialRxDisabled:
				// Self-healing: the receiver is expected to always be
				// listening. A mid-run failure is logged, not fatal;
				// the next disabled event retries.
				if err := c.tr.EnableReceive(); err != nil {
					println("[command] rx re-enable failed:", err.Error())
				}
			}
		}
	}
}

// dispatch handles one command byte. Unrecognized bytes produce no
// response and do not interrupt the rest of the buffer.
func (c *Interface) dispatch(b byte) {
	var buf [48]byte
	out := buf[:0]

	switch {
	case b >= '1' && b <= '4':
		n := int(b - '1')
		c.leds.Toggle(n)
		out = append(out, "Toggle LED "...)
		out = conv.AppendInt(out, int64(n+1))
	case b >= '5' && b <= '8':
		n := int(b - '5')
		state := int64(0)
		if c.db.Button(n) {
			state = 1
		}
		out = append(out, "Button "...)
		out = conv.AppendInt(out, int64(n+1))
		out = append(out, " state: "...)
		out = conv.AppendInt(out, state)
	case b == '9':
		out = append(out, "Raw sensor value: "...)
		out = conv.AppendInt(out, int64(c.db.Raw()))
	case b == '0':
		out = append(out, "Processed sensor value: "...)
		out = conv.AppendInt(out, int64(c.db.Derived()))
		out = append(out, "  Celsius"...)
	default:
		return
	}

	out = append(out, '\r', '\n')
	if err := c.tr.Send(out); err != nil {
		println("[command] tx failed:", err.Error())
	}
}
