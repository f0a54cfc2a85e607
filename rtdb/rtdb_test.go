// rtdb/rtdb_test.go
package rtdb

import (
	"sync"
	"testing"
)

func TestToggle_PairRestores(t *testing.T) {
	db := New()
	w := db.LEDWriter()

	if db.LED(0) {
		t.Fatal("LED 0 should start off")
	}
	if on := w.Toggle(0); !on {
		t.Fatal("first toggle should turn LED 0 on")
	}
	if on := w.Toggle(0); on {
		t.Fatal("second toggle should turn LED 0 off again")
	}
	if db.LED(0) {
		t.Fatal("LED 0 not restored after a toggle pair")
	}
}

func TestSensorCommit_FieldsChangeTogether(t *testing.T) {
	db := New()
	w := db.SensorWriter()

	w.Commit(512, -15)
	s := db.Snapshot()
	if s.Raw != 512 || s.Derived != -15 {
		t.Fatalf("snapshot = {raw:%d derived:%d}, want {512 -15}", s.Raw, s.Derived)
	}
}

func TestButtonSync_OverwritesChangedOnly(t *testing.T) {
	db := New()
	w := db.ButtonWriter()

	levels := [NumButtons]bool{true, false, false, true}
	if n := w.Sync(func(i int) bool { return levels[i] }); n != 2 {
		t.Fatalf("first sync changed %d entries, want 2", n)
	}
	// Same levels again: nothing to overwrite.
	if n := w.Sync(func(i int) bool { return levels[i] }); n != 0 {
		t.Fatalf("second sync changed %d entries, want 0", n)
	}
	if !db.Button(0) || db.Button(1) || db.Button(2) || !db.Button(3) {
		t.Fatalf("button states = %v, want [true false false true]", db.Snapshot().Button)
	}
}

// Snapshot must never observe a torn raw/derived pair while the commit
// writer runs concurrently.
func TestSnapshot_NoTornReads(t *testing.T) {
	db := New()
	w := db.SensorWriter()

	var wg sync.WaitGroup
	wg.Add(1)
	done := make(chan struct{})
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			// derived is always raw*2 in this writer.
			w.Commit(int16(i&0x3FF), int(i&0x3FF)*2)
		}
	}()

	for n := 0; n < 10000; n++ {
		s := db.Snapshot()
		if int(s.Raw)*2 != s.Derived {
			t.Fatalf("torn read: raw=%d derived=%d", s.Raw, s.Derived)
		}
	}
	close(done)
	wg.Wait()
}

func TestLEDStates_IsACopy(t *testing.T) {
	db := New()
	w := db.LEDWriter()
	states := db.LEDStates()
	w.Toggle(2)
	if states[2] {
		t.Fatal("LEDStates must return a copy, not a view")
	}
	if got := db.LEDStates(); !got[2] {
		t.Fatal("toggle not visible in a fresh copy")
	}
}
