// rtdb/rtdb.go
package rtdb

import "sync"

const (
	NumLEDs    = 4
	NumButtons = 4
)

// DB is the real-time database: the one aggregate shared across tasks.
// A single mutex guards the whole struct; every access goes through a
// method that locks, touches fields, and unlocks. No field pointer ever
// escapes, and no method performs I/O while holding the lock.
//
// Each mutable field has exactly one writer, enforced by the handle types
// below: SensorWriter owns raw/derived, ButtonWriter owns the button
// levels, LEDWriter owns the LED flags. Everything else is read-only.
type DB struct {
	mu      sync.Mutex
	led     [NumLEDs]bool
	button  [NumButtons]bool
	raw     int16
	derived int
}

// New returns a zero-initialized database. Allocated once at process
// start; lives for the process lifetime.
func New() *DB { return &DB{} }

// Snapshot is a consistent copy of the whole aggregate, taken under one
// lock acquisition.
type Snapshot struct {
	LED     [NumLEDs]bool
	Button  [NumButtons]bool
	Raw     int16
	Derived int
}

func (db *DB) Snapshot() Snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	return Snapshot{
		LED:     db.led,
		Button:  db.button,
		Raw:     db.raw,
		Derived: db.derived,
	}
}

// ---- Read side ----

// LED reports the commanded state of LED i (0-based).
func (db *DB) LED(i int) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.led[i]
}

// Button reports the last observed level of button i (0-based).
func (db *DB) Button(i int) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.button[i]
}

// Raw reports the most recent unconverted sensor sample.
func (db *DB) Raw() int16 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.raw
}

// Derived reports the most recent converted value (milli-degrees Celsius).
func (db *DB) Derived() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.derived
}

// LEDStates copies all commanded LED states under one lock acquisition,
// so the actuation task can diff against its shadow without holding the
// lock across pin writes.
func (db *DB) LEDStates() [NumLEDs]bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.led
}

// ---- Writer handles ----

// SensorWriter is held by the database commit task: the sole writer of
// the raw and derived fields.
type SensorWriter struct{ db *DB }

func (db *DB) SensorWriter() SensorWriter { return SensorWriter{db: db} }

// Commit stores one reading. Both fields change together, so a reader
// never observes a raw sample paired with a stale derived value.
func (w SensorWriter) Commit(raw int16, derived int) {
	w.db.mu.Lock()
	w.db.raw = raw
	w.db.derived = derived
	w.db.mu.Unlock()
}

// ButtonWriter is held by the button poll task: the sole writer of the
// button levels.
type ButtonWriter struct{ db *DB }

func (db *DB) ButtonWriter() ButtonWriter { return ButtonWriter{db: db} }

// Sync reads every button level via read and overwrites entries that
// changed, all inside one critical section per cycle. read must be a
// plain register read; it runs with the lock held. Returns the number
// of entries that changed.
func (w ButtonWriter) Sync(read func(i int) bool) int {
	w.db.mu.Lock()
	defer w.db.mu.Unlock()
	changed := 0
	for i := 0; i < NumButtons; i++ {
		level := read(i)
		if level != w.db.button[i] {
			w.db.button[i] = level
			changed++
		}
	}
	return changed
}

// LEDWriter is held by the command interface: the sole writer of the
// LED flags.
type LEDWriter struct{ db *DB }

func (db *DB) LEDWriter() LEDWriter { return LEDWriter{db: db} }

// Toggle flips LED i under a single read-modify-write critical section
// and returns the new state.
func (w LEDWriter) Toggle(i int) bool {
	w.db.mu.Lock()
	defer w.db.mu.Unlock()
	w.db.led[i] = !w.db.led[i]
	return w.db.led[i]
}
