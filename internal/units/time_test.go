package units

import "testing"

func TestSecondsToNanos(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    int64
	}{
		{"zero", 0, 0},
		{"one tick at 10Hz", 0.1, 100_000_000},
		{"accumulated tenths", 0.1 + 0.1 + 0.1, 300_000_000},
		{"one second", 1, 1_000_000_000},
		{"sub nanosecond rounds", 1.4e-9, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SecondsToNanos(tt.seconds); got != tt.want {
				t.Errorf("SecondsToNanos(%v) = %d, want %d", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestNanosToSeconds(t *testing.T) {
	if got := NanosToSeconds(2_500_000_000); got != 2.5 {
		t.Errorf("NanosToSeconds = %v, want 2.5", got)
	}
}
