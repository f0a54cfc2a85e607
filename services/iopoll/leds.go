// services/iopoll/leds.go
package iopoll

import (
	"context"

	"rtnode-go/rtdb"
	"rtnode-go/types"
)

// LEDDriver mirrors the database's commanded LED states onto the pins.
// A shadow copy of the last applied levels keeps hardware writes to
// observed transitions only. The driver never mutates the database;
// the LED flags are owned by the command interface.
type LEDDriver struct {
	pins   [rtdb.NumLEDs]types.DigitalPin
	db     *rtdb.DB
	tick   <-chan struct{}
	shadow [rtdb.NumLEDs]bool
}

func NewLEDDriver(pins [rtdb.NumLEDs]types.DigitalPin, db *rtdb.DB, tick <-chan struct{}) *LEDDriver {
	return &LEDDriver{pins: pins, db: db, tick: tick}
}

func (l *LEDDriver) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-l.tick:
				l.applyOnce()
			}
		}
	}()
}

// applyOnce copies all commanded states under one lock, then writes pins
// outside the lock so no I/O happens while it is held.
func (l *LEDDriver) applyOnce() {
	states := l.db.LEDStates()
	for i, on := range states {
		if on != l.shadow[i] {
			l.pins[i].Set(on)
			l.shadow[i] = on
		}
	}
}
