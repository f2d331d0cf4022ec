package generator

import (
	"fmt"
	"sort"

	"github.com/banshee-data/explore.planner/internal/monitoring"
	"github.com/mitchellh/mapstructure"
)

// RandomLinearConfig is the option set accepted by the random_linear
// generator. Fields left nil take the documented default, so partial option
// maps are safe.
type RandomLinearConfig struct {
	MinDistance  *float64 `mapstructure:"min_distance" json:"min_distance,omitempty"`   // m
	MaxDistance  *float64 `mapstructure:"max_distance" json:"max_distance,omitempty"`   // m
	VMax         *float64 `mapstructure:"v_max" json:"v_max,omitempty"`                 // m/s
	AMax         *float64 `mapstructure:"a_max" json:"a_max,omitempty"`                 // m/s2
	SamplingRate *float64 `mapstructure:"sampling_rate" json:"sampling_rate,omitempty"` // Hz
	NSegments    *int     `mapstructure:"n_segments" json:"n_segments,omitempty"`
	MaxTries     *int     `mapstructure:"max_tries" json:"max_tries,omitempty"`
	Planar       *bool    `mapstructure:"planar" json:"planar,omitempty"`
	SampleYaw    *bool    `mapstructure:"sample_yaw" json:"sample_yaw,omitempty"` // false: face direction of travel
}

// RandomLinearConfigFromOptions decodes a named option map. Numeric options
// accept any numeric or numeric-string value; unknown keys are ignored and
// reported at debug level.
func RandomLinearConfigFromOptions(options map[string]interface{}) (*RandomLinearConfig, error) {
	cfg := &RandomLinearConfig{}
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		Metadata:         &md,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("create option decoder: %w", err)
	}
	if err := dec.Decode(options); err != nil {
		return nil, fmt.Errorf("decode random_linear options: %w", err)
	}
	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		monitoring.Debugf("random_linear: ignoring unknown options %v", md.Unused)
	}
	return cfg, nil
}

// GetMinDistance returns the min_distance value or the default.
func (c *RandomLinearConfig) GetMinDistance() float64 {
	if c.MinDistance == nil {
		return 1.0
	}
	return *c.MinDistance
}

// GetMaxDistance returns the max_distance value or the default.
func (c *RandomLinearConfig) GetMaxDistance() float64 {
	if c.MaxDistance == nil {
		return 1.0
	}
	return *c.MaxDistance
}

// GetVMax returns the v_max value or the default.
func (c *RandomLinearConfig) GetVMax() float64 {
	if c.VMax == nil {
		return 1.0
	}
	return *c.VMax
}

// GetAMax returns the a_max value or the default.
func (c *RandomLinearConfig) GetAMax() float64 {
	if c.AMax == nil {
		return 1.0
	}
	return *c.AMax
}

// GetSamplingRate returns the sampling_rate value or the default.
func (c *RandomLinearConfig) GetSamplingRate() float64 {
	if c.SamplingRate == nil {
		return 20.0
	}
	return *c.SamplingRate
}

// GetNSegments returns the n_segments value or the default.
func (c *RandomLinearConfig) GetNSegments() int {
	if c.NSegments == nil {
		return 5
	}
	return *c.NSegments
}

// GetMaxTries returns the max_tries value or the default.
func (c *RandomLinearConfig) GetMaxTries() int {
	if c.MaxTries == nil {
		return 1000
	}
	return *c.MaxTries
}

// GetPlanar returns the planar value or the default.
func (c *RandomLinearConfig) GetPlanar() bool {
	if c.Planar == nil {
		return true
	}
	return *c.Planar
}

// GetSampleYaw returns the sample_yaw value or the default.
func (c *RandomLinearConfig) GetSampleYaw() bool {
	if c.SampleYaw == nil {
		return false
	}
	return *c.SampleYaw
}

// Params resolves every option to its effective value.
func (c *RandomLinearConfig) Params() RandomLinearParams {
	return RandomLinearParams{
		MinDistance:  c.GetMinDistance(),
		MaxDistance:  c.GetMaxDistance(),
		VMax:         c.GetVMax(),
		AMax:         c.GetAMax(),
		SamplingRate: c.GetSamplingRate(),
		NSegments:    c.GetNSegments(),
		MaxTries:     c.GetMaxTries(),
		Planar:       c.GetPlanar(),
		SampleYaw:    c.GetSampleYaw(),
	}
}

// Validate checks the resolved options.
func (c *RandomLinearConfig) Validate() error {
	return c.Params().Validate()
}
