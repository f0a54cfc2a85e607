package acquire

import "testing"

func TestMilliCelsius_KnownPoints(t *testing.T) {
	cases := []struct {
		raw  int16
		want int
	}{
		{0, -60000},    // 0.0 V  -> -60 °C
		{341, 0},       // ~1.0 V ->   0 °C
		{512, 30087},   // ~1.5 V -> ~30.1 °C
		{1023, 120000}, // 3.0 V full scale -> 120 °C
	}
	for _, c := range cases {
		if got := MilliCelsius(c.raw); got != c.want {
			t.Errorf("MilliCelsius(%d) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestMilliCelsius_ClampsToConverterSpan(t *testing.T) {
	if got := MilliCelsius(-5); got != MilliCelsius(0) {
		t.Errorf("negative raw not clamped: %d", got)
	}
	if got := MilliCelsius(2000); got != MilliCelsius(1023) {
		t.Errorf("overrange raw not clamped: %d", got)
	}
}

func TestMilliCelsius_Deterministic(t *testing.T) {
	want := MilliCelsius(1023)
	for i := 0; i < 1000; i++ {
		if got := MilliCelsius(1023); got != want {
			t.Fatalf("iteration %d: got %d, want %d", i, got, want)
		}
	}
}
