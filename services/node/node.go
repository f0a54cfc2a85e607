// services/node/node.go
package node

import (
	"context"
	"time"

	"rtnode-go/errcode"
	"rtnode-go/rtdb"
	"rtnode-go/sched"
	"rtnode-go/services/acquire"
	"rtnode-go/services/command"
	"rtnode-go/services/iopoll"
	"rtnode-go/types"
)

// Banner is transmitted once after the transport passes its readiness
// check.
const Banner = "xxxxxxxxxxxxxx Welcome xxxxxxxxxxxxxx\n\r"

// Compile-time defaults. There is no configuration file and no flags;
// a board build changes these here.
const (
	DefaultSamplePeriod = 1000 * time.Millisecond
	DefaultPollPeriod   = 100 * time.Millisecond
	RxBufSize           = 10
	RxIdleTimeout       = 100 * time.Millisecond
)

// Config assembles the node from its driver boundaries.
type Config struct {
	Buttons   [rtdb.NumButtons]types.DigitalPin
	LEDs      [rtdb.NumLEDs]types.DigitalPin
	Sampler   types.AnalogSampler
	Transport types.SerialTransport

	// Zero values take the compile-time defaults.
	SamplePeriod time.Duration
	PollPeriod   time.Duration
	QueueDepth   int
}

// Node owns the database and the task set.
type Node struct {
	cfg Config
	db  *rtdb.DB
}

func New(cfg Config) *Node {
	if cfg.SamplePeriod <= 0 {
		cfg.SamplePeriod = DefaultSamplePeriod
	}
	if cfg.PollPeriod <= 0 {
		cfg.PollPeriod = DefaultPollPeriod
	}
	return &Node{cfg: cfg, db: rtdb.New()}
}

// DB exposes the database read side (for diagnostics on host builds).
func (n *Node) DB() *rtdb.DB { return n.db }

// Run initializes the hardware, then starts the scheduler and the five
// tasks, and blocks until ctx is cancelled. Startup failures are wiring
// or configuration errors: they are returned, not retried.
func (n *Node) Run(ctx context.Context) error {
	for _, p := range n.cfg.Buttons {
		if p == nil {
			return &errcode.E{C: errcode.InvalidParams, Op: "button_pin", Msg: "missing pin"}
		}
		if err := p.ConfigureInput(types.PullUp); err != nil {
			return &errcode.E{C: errcode.DeviceNotReady, Op: "button_configure", Err: err}
		}
	}
	for _, p := range n.cfg.LEDs {
		if p == nil {
			return &errcode.E{C: errcode.InvalidParams, Op: "led_pin", Msg: "missing pin"}
		}
		if err := p.ConfigureOutput(false); err != nil {
			return &errcode.E{C: errcode.DeviceNotReady, Op: "led_configure", Err: err}
		}
	}

	if n.cfg.Sampler == nil || n.cfg.Transport == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "node", Msg: "missing sampler or transport"}
	}
	if err := n.cfg.Sampler.Setup(); err != nil {
		return &errcode.E{C: errcode.DeviceNotReady, Op: "sampler_setup", Err: err}
	}
	if err := n.cfg.Transport.Send([]byte(Banner)); err != nil {
		return &errcode.E{C: errcode.TxFailed, Op: "banner", Err: err}
	}
	if err := n.cfg.Transport.EnableReceive(); err != nil {
		return &errcode.E{C: errcode.RxEnableFailed, Op: "rx_enable", Err: err}
	}

	s := sched.New()
	pipeline := acquire.New(acquire.Config{
		Sampler:    n.cfg.Sampler,
		Sink:       n.db.SensorWriter(),
		Tick:       s.Add("sample", n.cfg.SamplePeriod, 0),
		QueueDepth: n.cfg.QueueDepth,
	})
	buttons := iopoll.NewButtonPoller(n.cfg.Buttons, n.db.ButtonWriter(), s.Add("buttons", n.cfg.PollPeriod, 0))
	leds := iopoll.NewLEDDriver(n.cfg.LEDs, n.db, s.Add("leds", n.cfg.PollPeriod, 0))
	cmdIf := command.New(n.db, n.db.LEDWriter(), n.cfg.Transport)

	go s.Run(ctx)
	pipeline.Start(ctx)
	buttons.Start(ctx)
	leds.Start(ctx)
	cmdIf.Start(ctx)

	<-ctx.Done()
	return nil
}
