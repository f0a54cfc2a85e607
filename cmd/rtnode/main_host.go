// cmd/rtnode/main_host.go
//go:build !rp2040 && !rp2350

package main

import (
	"context"
	"log"

	"rtnode-go/platform"
	"rtnode-go/rtdb"
	"rtnode-go/services/node"
)

// Host build: the command interface runs over a real serial device while
// buttons, LEDs and the sensor are simulated. Fixed at compile time, like
// the board build.
const (
	serialPortName = "/dev/ttyUSB0"
	serialBaud     = 115200
)

func main() {
	tr, err := platform.OpenSerialPort(serialPortName, serialBaud, node.RxBufSize, node.RxIdleTimeout)
	if err != nil {
		log.Fatalf("rtnode: %v", err)
	}
	defer tr.Close()

	var cfg node.Config
	for i := 0; i < rtdb.NumButtons; i++ {
		cfg.Buttons[i] = platform.NewSimPin(i)
	}
	for i := 0; i < rtdb.NumLEDs; i++ {
		cfg.LEDs[i] = platform.NewSimPin(rtdb.NumButtons + i)
	}
	cfg.Sampler = platform.NewSimSampler(platform.RampWave(7))
	cfg.Transport = tr

	if err := node.New(cfg).Run(context.Background()); err != nil {
		log.Fatalf("rtnode: %v", err)
	}
}
