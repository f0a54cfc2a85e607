// cmd/rtnode/main_rp2.go
//go:build rp2040 || rp2350

package main

import (
	"context"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"rtnode-go/platform"
	"rtnode-go/services/node"
)

// Pico wiring, fixed at compile time.
const (
	uartBaud = 115200

	// MCP3008 on SPI0 (default pins), sensor on channel 1.
	adcCSPin = machine.GP17
	adcChan  = 1
	button0  = 2 // GP2..GP5
	led0     = 6 // GP6..GP9
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(1500 * time.Millisecond)
	println("[rtnode] boot")

	if err := uartx.UART0.Configure(uartx.UARTConfig{
		BaudRate: uartBaud,
		TX:       uartx.UART0_TX_PIN,
		RX:       uartx.UART0_RX_PIN,
	}); err != nil {
		println("[rtnode] uart configure failed")
		return
	}

	var cfg node.Config
	for i := range cfg.Buttons {
		cfg.Buttons[i] = platform.PinByNumber(button0 + i)
	}
	for i := range cfg.LEDs {
		cfg.LEDs[i] = platform.PinByNumber(led0 + i)
	}
	cfg.Sampler = platform.NewMCP3008Sampler(machine.SPI0, adcCSPin, adcChan)
	cfg.Transport = platform.NewUARTTransport(uartx.UART0, node.RxBufSize, node.RxIdleTimeout)

	if err := node.New(cfg).Run(context.Background()); err != nil {
		println("[rtnode] fatal:", err.Error())
	}
}
