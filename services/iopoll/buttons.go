// services/iopoll/buttons.go
package iopoll

import (
	"context"

	"rtnode-go/rtdb"
	"rtnode-go/types"
)

// ButtonPoller samples the four button pins on every tick and stores
// changed levels in the database. It is the sole writer of the button
// fields; one critical section covers the whole cycle.
type ButtonPoller struct {
	pins [rtdb.NumButtons]types.DigitalPin
	w    rtdb.ButtonWriter
	tick <-chan struct{}
}

func NewButtonPoller(pins [rtdb.NumButtons]types.DigitalPin, w rtdb.ButtonWriter, tick <-chan struct{}) *ButtonPoller {
	return &ButtonPoller{pins: pins, w: w, tick: tick}
}

func (b *ButtonPoller) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-b.tick:
				b.pollOnce()
			}
		}
	}()
}

// pollOnce reads all four levels inside one lock acquisition. Pin reads
// are plain register reads, so holding the lock across them is bounded.
func (b *ButtonPoller) pollOnce() {
	b.w.Sync(func(i int) bool { return b.pins[i].Get() })
}
