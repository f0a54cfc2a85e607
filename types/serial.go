package types

// ---- Serial transport ----

type SerialEventKind uint8

const (
	// SerialRxData carries a completed receive buffer.
	SerialRxData SerialEventKind = iota
	// SerialRxDisabled signals that reception stopped (buffer complete or
	// idle timeout) and must be re-armed with EnableReceive.
	SerialRxDisabled
)

func (k SerialEventKind) String() string {
	switch k {
	case SerialRxData:
		return "rx_data"
	case SerialRxDisabled:
		return "rx_disabled"
	default:
		return "unknown"
	}
}

// SerialEvent is delivered on the transport's event channel.
type SerialEvent struct {
	Kind SerialEventKind
	Data []byte // valid for SerialRxData; ownership passes to the receiver
	TSms int64  // producer timestamp (ms)
}

// SerialTransport is the serial driver boundary. Send transmits the whole
// buffer synchronously. The transport stops listening after every completed
// receive buffer and after each idle timeout; it reports that with a
// SerialRxDisabled event and waits for EnableReceive before listening again.
type SerialTransport interface {
	Send(p []byte) error
	EnableReceive() error
	Events() <-chan SerialEvent
}
