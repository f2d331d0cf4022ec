package units

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestNormalizeYaw(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"quarter turn", math.Pi / 2, math.Pi / 2},
		{"pi stays pi", math.Pi, math.Pi},
		{"minus pi maps to pi", -math.Pi, math.Pi},
		{"three halves pi", 1.5 * math.Pi, -0.5 * math.Pi},
		{"full turn", 2 * math.Pi, 0},
		{"negative quarter", -math.Pi / 2, -math.Pi / 2},
		{"several turns", 5*math.Pi + 0.25, -math.Pi + 0.25},
		{"large negative", -7*math.Pi/2 - 0.1, math.Pi/2 - 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeYaw(tt.in)
			if !scalar.EqualWithinAbs(got, tt.want, 1e-9) {
				t.Errorf("NormalizeYaw(%f) = %f, want %f", tt.in, got, tt.want)
			}
			if got <= -math.Pi || got > math.Pi+1e-12 {
				t.Errorf("NormalizeYaw(%f) = %f, outside (-pi, pi]", tt.in, got)
			}
		})
	}
}

func TestNormalizeYaw_NonFinite(t *testing.T) {
	if !math.IsNaN(NormalizeYaw(math.NaN())) {
		t.Error("expected NaN to pass through")
	}
	if !math.IsInf(NormalizeYaw(math.Inf(1)), 1) {
		t.Error("expected +Inf to pass through")
	}
}

func TestDegRadRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 45, 90, 180, 270, -30} {
		got := RadToDeg(DegToRad(deg))
		if math.Abs(got-deg) > 1e-9 {
			t.Errorf("RadToDeg(DegToRad(%f)) = %f", deg, got)
		}
	}
}
