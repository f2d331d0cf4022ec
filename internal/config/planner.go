package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultConfigPath is the path to the canonical planner defaults file.
const DefaultConfigPath = "config/planner.defaults.json"

// PlannerConfig is the root configuration of a planning simulation: which
// modules to build, the voxel world they plan in, and how long to run.
type PlannerConfig struct {
	Generator *ModuleConfig `json:"generator,omitempty"`
	Updater   *ModuleConfig `json:"updater,omitempty"`

	// Collision map
	VoxelSize           *float64    `json:"voxel_size,omitempty"`       // m
	CollisionRadius     *float64    `json:"collision_radius,omitempty"` // m
	CollisionOptimistic *bool       `json:"collision_optimistic,omitempty"`
	BoundsMin           *[3]float64 `json:"bounds_min,omitempty"`
	BoundsMax           *[3]float64 `json:"bounds_max,omitempty"`
	Obstacles           []Obstacle  `json:"obstacles,omitempty"`

	// Run
	Start              *Pose   `json:"start,omitempty"`
	Cycles             *int    `json:"cycles,omitempty"`
	ExpansionsPerCycle *int    `json:"expansions_per_cycle,omitempty"`
	Seed               *uint64 `json:"seed,omitempty"` // nil: seed from the clock
}

// ModuleConfig names a registered module and carries its option map.
type ModuleConfig struct {
	Type    string                 `json:"type"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// Obstacle is an occupied box that exists for a range of cycles.
type Obstacle struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
	// AppearCycle is the first cycle the obstacle is present (default 1).
	AppearCycle *int `json:"appear_cycle,omitempty"`
	// VanishCycle is the first cycle the obstacle is gone; nil keeps it forever.
	VanishCycle *int `json:"vanish_cycle,omitempty"`
}

// Pose is the vehicle state the tree is rooted at.
type Pose struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Z   float64 `json:"z"`
	Yaw float64 `json:"yaw"`
}

// Box returns the obstacle extent.
func (o Obstacle) Box() r3.Box {
	return r3.NewBox(o.Min[0], o.Min[1], o.Min[2], o.Max[0], o.Max[1], o.Max[2])
}

// ActiveAt reports whether the obstacle exists during cycle.
func (o Obstacle) ActiveAt(cycle int) bool {
	appear := 1
	if o.AppearCycle != nil {
		appear = *o.AppearCycle
	}
	if cycle < appear {
		return false
	}
	return o.VanishCycle == nil || cycle < *o.VanishCycle
}

// EmptyPlannerConfig returns a PlannerConfig with all fields unset.
func EmptyPlannerConfig() *PlannerConfig {
	return &PlannerConfig{}
}

// LoadPlannerConfig loads a PlannerConfig from a JSON file.
// The file must have a .json extension and be at most 1 MiB. Fields omitted
// from the file fall back to the Get* defaults, so partial configs are safe.
func LoadPlannerConfig(path string) (*PlannerConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPlannerConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. Panics if the file
// cannot be loaded; intended for tests and examples.
func MustLoadDefaultConfig() *PlannerConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/planning/<pkg>/
		"../../../../" + DefaultConfigPath, // from internal/planning/storage/sqlite/
	}
	for _, path := range candidates {
		if cfg, err := LoadPlannerConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from the repository root")
}

// Validate checks the host-level values. Module options are validated by the
// module itself when it is built.
func (c *PlannerConfig) Validate() error {
	if c.Generator != nil && c.Generator.Type == "" {
		return errors.New("generator.type must not be empty")
	}
	if c.Updater != nil && c.Updater.Type == "" {
		return errors.New("updater.type must not be empty")
	}
	if c.VoxelSize != nil && !(*c.VoxelSize > 0) {
		return fmt.Errorf("voxel_size must be positive, got %g", *c.VoxelSize)
	}
	if c.CollisionRadius != nil && !(*c.CollisionRadius >= 0) {
		return fmt.Errorf("collision_radius must be non-negative, got %g", *c.CollisionRadius)
	}
	if c.Cycles != nil && *c.Cycles < 1 {
		return fmt.Errorf("cycles must be at least 1, got %d", *c.Cycles)
	}
	if c.ExpansionsPerCycle != nil && *c.ExpansionsPerCycle < 1 {
		return fmt.Errorf("expansions_per_cycle must be at least 1, got %d", *c.ExpansionsPerCycle)
	}

	bounds := c.GetBounds()
	if (c.BoundsMin != nil || c.BoundsMax != nil) && bounds.Empty() {
		return fmt.Errorf("bounds_min %v must be below bounds_max %v on every axis", bounds.Min, bounds.Max)
	}
	for i, o := range c.Obstacles {
		for axis := 0; axis < 3; axis++ {
			if o.Min[axis] > o.Max[axis] {
				return fmt.Errorf("obstacles[%d]: min %v exceeds max %v", i, o.Min, o.Max)
			}
		}
		if o.AppearCycle != nil && o.VanishCycle != nil && *o.VanishCycle <= *o.AppearCycle {
			return fmt.Errorf("obstacles[%d]: vanish_cycle %d must be after appear_cycle %d", i, *o.VanishCycle, *o.AppearCycle)
		}
	}
	if c.Start != nil && bounds != (r3.Box{}) {
		p := r3.Vec{X: c.Start.X, Y: c.Start.Y, Z: c.Start.Z}
		if !bounds.Contains(p) {
			return fmt.Errorf("start %v lies outside the map bounds", p)
		}
	}
	return nil
}

// GetGenerator returns the generator module, random_linear by default.
func (c *PlannerConfig) GetGenerator() ModuleConfig {
	if c.Generator == nil {
		return ModuleConfig{Type: "random_linear"}
	}
	return *c.Generator
}

// GetUpdater returns the updater module, recheck_collision by default.
func (c *PlannerConfig) GetUpdater() ModuleConfig {
	if c.Updater == nil {
		return ModuleConfig{Type: "recheck_collision"}
	}
	return *c.Updater
}

// GetVoxelSize returns the voxel_size value or the default.
func (c *PlannerConfig) GetVoxelSize() float64 {
	if c.VoxelSize == nil {
		return 0.2
	}
	return *c.VoxelSize
}

// GetCollisionRadius returns the collision_radius value or the default.
func (c *PlannerConfig) GetCollisionRadius() float64 {
	if c.CollisionRadius == nil {
		return 0.35
	}
	return *c.CollisionRadius
}

// GetCollisionOptimistic returns the collision_optimistic value or the default.
func (c *PlannerConfig) GetCollisionOptimistic() bool {
	if c.CollisionOptimistic == nil {
		return false
	}
	return *c.CollisionOptimistic
}

// GetBounds returns the map bounds. The zero Box means unbounded; if only one
// corner is configured the other stays at the origin.
func (c *PlannerConfig) GetBounds() r3.Box {
	if c.BoundsMin == nil && c.BoundsMax == nil {
		return r3.Box{}
	}
	var lo, hi [3]float64
	if c.BoundsMin != nil {
		lo = *c.BoundsMin
	}
	if c.BoundsMax != nil {
		hi = *c.BoundsMax
	}
	return r3.Box{
		Min: r3.Vec{X: lo[0], Y: lo[1], Z: lo[2]},
		Max: r3.Vec{X: hi[0], Y: hi[1], Z: hi[2]},
	}
}

// GetStart returns the start pose, the origin facing +X by default.
func (c *PlannerConfig) GetStart() Pose {
	if c.Start == nil {
		return Pose{}
	}
	return *c.Start
}

// GetCycles returns the cycles value or the default.
func (c *PlannerConfig) GetCycles() int {
	if c.Cycles == nil {
		return 10
	}
	return *c.Cycles
}

// GetExpansionsPerCycle returns the expansions_per_cycle value or the default.
func (c *PlannerConfig) GetExpansionsPerCycle() int {
	if c.ExpansionsPerCycle == nil {
		return 20
	}
	return *c.ExpansionsPerCycle
}

// GetSeed returns the configured seed and whether one was set.
func (c *PlannerConfig) GetSeed() (uint64, bool) {
	if c.Seed == nil {
		return 0, false
	}
	return *c.Seed, true
}
