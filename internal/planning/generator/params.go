package generator

import (
	"fmt"
	"math"
)

// RandomLinearParams holds resolved random_linear parameters.
type RandomLinearParams struct {
	MinDistance  float64 // Sampled travel distance lower bound (m)
	MaxDistance  float64 // Sampled travel distance upper bound (m)
	VMax         float64 // Velocity cap of the simulated profile (m/s)
	AMax         float64 // Acceleration cap of the simulated profile (m/s2)
	SamplingRate float64 // Simulation and waypoint rate (Hz)
	NSegments    int     // Children to accept per expansion
	MaxTries     int     // Sampling attempts per expansion
	Planar       bool    // Sample directions in the horizontal plane only
	SampleYaw    bool    // Sample heading independently of travel direction
}

// DefaultRandomLinearParams returns the parameters used when no options are given.
func DefaultRandomLinearParams() RandomLinearParams {
	return (&RandomLinearConfig{}).Params()
}

// Validate rejects parameter sets the generator cannot run with. Nothing is
// clamped; the first violated constraint is reported.
func (p RandomLinearParams) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"min_distance", p.MinDistance},
		{"max_distance", p.MaxDistance},
		{"v_max", p.VMax},
		{"a_max", p.AMax},
		{"sampling_rate", p.SamplingRate},
	} {
		if math.IsInf(f.value, 0) || math.IsNaN(f.value) {
			return fmt.Errorf("%s must be finite, got %g", f.name, f.value)
		}
	}
	switch {
	case !(p.MaxDistance > 0):
		return fmt.Errorf("max_distance expected > 0.0, got %g", p.MaxDistance)
	case p.MaxDistance < p.MinDistance:
		return fmt.Errorf("max_distance needs to be larger than min_distance (min=%g, max=%g)", p.MinDistance, p.MaxDistance)
	case !(p.MinDistance >= 0):
		return fmt.Errorf("min_distance expected >= 0.0, got %g", p.MinDistance)
	case p.NSegments < 1:
		return fmt.Errorf("n_segments expected > 0, got %d", p.NSegments)
	case p.MaxTries < 1:
		return fmt.Errorf("max_tries expected > 0, got %d", p.MaxTries)
	case !(p.VMax > 0):
		return fmt.Errorf("v_max expected > 0.0, got %g", p.VMax)
	case !(p.AMax > 0):
		return fmt.Errorf("a_max expected > 0.0, got %g", p.AMax)
	case !(p.SamplingRate > 0):
		return fmt.Errorf("sampling_rate expected > 0.0, got %g", p.SamplingRate)
	}
	return nil
}
