package oracle

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// VoxelState is the occupancy knowledge held for one voxel.
type VoxelState uint8

const (
	VoxelUnknown  VoxelState = iota // Never observed
	VoxelFree                       // Observed empty
	VoxelOccupied                   // Observed obstacle
)

func (s VoxelState) String() string {
	switch s {
	case VoxelFree:
		return "free"
	case VoxelOccupied:
		return "occupied"
	default:
		return "unknown"
	}
}

// VoxelMapConfig holds the geometry and collision policy of a VoxelMap.
type VoxelMapConfig struct {
	VoxelSize       float64 // Edge length of a voxel (metres)
	CollisionRadius float64 // Clearance required around the vehicle centre (metres)
	Optimistic      bool    // Treat unknown voxels as traversable
	Bounds          r3.Box  // Points outside are never traversable; an empty box disables the check
}

type voxelKey struct{ X, Y, Z int64 }

// VoxelMap is a sparse occupancy map. A point is traversable when it lies in
// bounds and every voxel within CollisionRadius of it is free (or unknown, if
// Optimistic is set).
type VoxelMap struct {
	mu     sync.RWMutex
	cfg    VoxelMapConfig
	voxels map[voxelKey]VoxelState
}

// NewVoxelMap validates cfg and returns an empty map where every voxel is
// unknown.
func NewVoxelMap(cfg VoxelMapConfig) (*VoxelMap, error) {
	if !(cfg.VoxelSize > 0) {
		return nil, fmt.Errorf("voxel_size expected > 0, got %g", cfg.VoxelSize)
	}
	if cfg.CollisionRadius < 0 {
		return nil, fmt.Errorf("collision_radius expected >= 0, got %g", cfg.CollisionRadius)
	}
	return &VoxelMap{
		cfg:    cfg,
		voxels: make(map[voxelKey]VoxelState),
	}, nil
}

// Config returns the map configuration.
func (m *VoxelMap) Config() VoxelMapConfig {
	return m.cfg
}

func (m *VoxelMap) keyOf(p r3.Vec) voxelKey {
	s := m.cfg.VoxelSize
	return voxelKey{
		X: int64(math.Floor(p.X / s)),
		Y: int64(math.Floor(p.Y / s)),
		Z: int64(math.Floor(p.Z / s)),
	}
}

func (m *VoxelMap) voxelBox(k voxelKey) r3.Box {
	s := m.cfg.VoxelSize
	lo := r3.Vec{X: float64(k.X) * s, Y: float64(k.Y) * s, Z: float64(k.Z) * s}
	return r3.Box{Min: lo, Max: r3.Add(lo, r3.Vec{X: s, Y: s, Z: s})}
}

// SetBox marks every voxel overlapping box with state. Returns the number of
// voxels written.
func (m *VoxelMap) SetBox(box r3.Box, state VoxelState) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	lo := m.keyOf(box.Min)
	hi := m.keyOf(box.Max)
	// A max face lying exactly on a voxel boundary does not touch the next voxel.
	s := m.cfg.VoxelSize
	if box.Max.X == float64(hi.X)*s && hi.X > lo.X {
		hi.X--
	}
	if box.Max.Y == float64(hi.Y)*s && hi.Y > lo.Y {
		hi.Y--
	}
	if box.Max.Z == float64(hi.Z)*s && hi.Z > lo.Z {
		hi.Z--
	}

	n := 0
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				k := voxelKey{x, y, z}
				if state == VoxelUnknown {
					delete(m.voxels, k)
				} else {
					m.voxels[k] = state
				}
				n++
			}
		}
	}
	return n
}

// SetPoint marks the voxel containing p.
func (m *VoxelMap) SetPoint(p r3.Vec, state VoxelState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := m.keyOf(p)
	if state == VoxelUnknown {
		delete(m.voxels, k)
		return
	}
	m.voxels[k] = state
}

// Clear forgets every observation.
func (m *VoxelMap) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voxels = make(map[voxelKey]VoxelState)
}

// State returns the occupancy state of the voxel containing p.
func (m *VoxelMap) State(p r3.Vec) VoxelState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.voxels[m.keyOf(p)]
}

// Len returns the number of observed voxels.
func (m *VoxelMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.voxels)
}

// InBounds reports whether p lies inside the configured bounds.
func (m *VoxelMap) InBounds(p r3.Vec) bool {
	b := m.cfg.Bounds
	if b.Empty() {
		return true
	}
	return b.Contains(p)
}

// IsTraversable implements Oracle.
func (m *VoxelMap) IsTraversable(p r3.Vec) bool {
	if !m.InBounds(p) {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	r := m.cfg.CollisionRadius
	centre := m.keyOf(p)
	reach := int64(math.Ceil(r / m.cfg.VoxelSize))
	for dx := -reach; dx <= reach; dx++ {
		for dy := -reach; dy <= reach; dy++ {
			for dz := -reach; dz <= reach; dz++ {
				k := voxelKey{centre.X + dx, centre.Y + dy, centre.Z + dz}
				if k != centre && distanceToBox(p, m.voxelBox(k)) > r {
					continue
				}
				switch m.voxels[k] {
				case VoxelOccupied:
					return false
				case VoxelUnknown:
					if !m.cfg.Optimistic {
						return false
					}
				}
			}
		}
	}
	return true
}

// distanceToBox is the Euclidean distance from p to the closest point of b.
func distanceToBox(p r3.Vec, b r3.Box) float64 {
	closest := r3.Vec{
		X: math.Max(b.Min.X, math.Min(p.X, b.Max.X)),
		Y: math.Max(b.Min.Y, math.Min(p.Y, b.Max.Y)),
		Z: math.Max(b.Min.Z, math.Min(p.Z, b.Max.Z)),
	}
	return r3.Norm(r3.Sub(p, closest))
}
