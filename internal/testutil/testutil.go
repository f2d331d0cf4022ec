// Package testutil provides shared test utilities and fixtures.
//
// This package centralises tree builders and oracle fakes so planner tests
// across packages construct scenarios the same way.
package testutil

import (
	"math/rand/v2"
	"sync/atomic"
	"testing"

	"github.com/banshee-data/explore.planner/internal/planning/oracle"
	"github.com/banshee-data/explore.planner/internal/planning/segment"
	"gonum.org/v1/gonum/spatial/r3"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// SeededSource returns a deterministic random source for reproducible sampling.
func SeededSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// CountingOracle wraps an oracle and counts queries. Safe for concurrent use.
type CountingOracle struct {
	Inner oracle.Oracle
	calls atomic.Int64
}

// NewCountingOracle wraps inner.
func NewCountingOracle(inner oracle.Oracle) *CountingOracle {
	return &CountingOracle{Inner: inner}
}

// IsTraversable implements oracle.Oracle.
func (c *CountingOracle) IsTraversable(p r3.Vec) bool {
	c.calls.Add(1)
	return c.Inner.IsTraversable(p)
}

// Calls returns the number of queries so far.
func (c *CountingOracle) Calls() int64 {
	return c.calls.Load()
}

// Reset zeroes the query counter.
func (c *CountingOracle) Reset() {
	c.calls.Store(0)
}

// BlockedSet is an oracle that rejects an explicit set of points and accepts
// everything else.
type BlockedSet map[r3.Vec]struct{}

// Block adds points to the set.
func (b BlockedSet) Block(points ...r3.Vec) {
	for _, p := range points {
		b[p] = struct{}{}
	}
}

// IsTraversable implements oracle.Oracle.
func (b BlockedSet) IsTraversable(p r3.Vec) bool {
	_, blocked := b[p]
	return !blocked
}

// Line returns a segment with n waypoints evenly spaced from a (exclusive)
// to b (inclusive), ten waypoints per second.
func Line(a, b r3.Vec, n int) *segment.Segment {
	s := &segment.Segment{Trajectory: make([]segment.Waypoint, 0, n)}
	for i := 1; i <= n; i++ {
		f := float64(i) / float64(n)
		s.Trajectory = append(s.Trajectory, segment.Waypoint{
			Position:        r3.Add(a, r3.Scale(f, r3.Sub(b, a))),
			TimeFromStartNs: int64(i) * 100_000_000,
		})
	}
	return s
}

// Vec is shorthand for r3.Vec{X: x, Y: y, Z: z}.
func Vec(x, y, z float64) r3.Vec {
	return r3.Vec{X: x, Y: y, Z: z}
}

// Fan builds a tree of the given depth where every segment has width
// straight children, each one metre long. Returns the root.
func Fan(width, depth int) *segment.Segment {
	root := segment.NewRoot(segment.Waypoint{})
	grow(root, r3.Vec{}, width, depth, 0)
	return root
}

func grow(parent *segment.Segment, from r3.Vec, width, depth, level int) {
	if level >= depth {
		return
	}
	for i := 0; i < width; i++ {
		to := r3.Add(from, r3.Vec{X: 1, Y: float64(i - width/2), Z: 0})
		child := Line(from, to, 4)
		parent.AddChild(child)
		grow(child, to, width, depth, level+1)
	}
}
