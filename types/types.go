package types

// ---- Pipeline payloads ----

// SensorReading pairs a raw 10-bit sample with its converted physical value.
// It is created by the conversion task and consumed exactly once by the
// database commit task; value semantics, never shared.
type SensorReading struct {
	Raw     int16 // unconverted sample, 0..1023
	Derived int   // milli-degrees Celsius
}

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// DigitalPin is the digital I/O driver boundary: one pin, read or written
// as a logic level. Implementations must be safe for single-goroutine use
// per pin; the node assigns each pin to exactly one task.
type DigitalPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// ---- Analog sampler ----

// AnalogSampler is the ADC driver boundary. Setup is called once at startup;
// a failure there is fatal. Convert performs one blocking conversion and
// returns the raw sample; a conversion error is a transient fault the caller
// may skip and retry next period.
type AnalogSampler interface {
	Setup() error
	Convert() (int16, error)
}
