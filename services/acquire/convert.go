package acquire

import "rtnode-go/x/mathx"

// Fixed sensor transform: 10-bit converter against a 3.0 V reference,
// 60 °C per volt around a 1.0 V offset. All arithmetic is integer so the
// result is bit-for-bit repeatable and no float crosses a goroutine
// boundary.
const (
	fullScale        = 1023 // 10-bit converter
	refMilliVolts    = 3000
	gainPerVolt      = 60 // °C per volt of sensor output
	offsetMilliVolts = 1000
)

// MilliCelsius converts a raw sample to milli-degrees Celsius. Out-of-range
// samples are clamped to the converter's span first.
func MilliCelsius(raw int16) int {
	r := int64(mathx.Clamp(raw, 0, fullScale))
	return int(r*refMilliVolts*gainPerVolt/fullScale) - gainPerVolt*offsetMilliVolts
}
