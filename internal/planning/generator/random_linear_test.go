package generator

import (
	"math"
	"testing"

	"github.com/banshee-data/explore.planner/internal/planning/oracle"
	"github.com/banshee-data/explore.planner/internal/planning/segment"
	"github.com/banshee-data/explore.planner/internal/testutil"
	"github.com/banshee-data/explore.planner/internal/units"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func scenarioParams() RandomLinearParams {
	return RandomLinearParams{
		MinDistance:  1,
		MaxDistance:  1,
		VMax:         1,
		AMax:         1,
		SamplingRate: 10,
		NSegments:    1,
		MaxTries:     1,
		Planar:       true,
	}
}

func newGenerator(t *testing.T, p RandomLinearParams, o oracle.Oracle, seed uint64) *RandomLinear {
	t.Helper()
	g, err := NewRandomLinear(p, o, testutil.SeededSource(seed))
	require.NoError(t, err)
	return g
}

func TestNewRandomLinear_RejectsInvalidParams(t *testing.T) {
	t.Parallel()

	p := scenarioParams()
	p.MinDistance = 5
	_, err := NewRandomLinear(p, oracle.AllFree, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_distance")
}

func TestNewRandomLinear_RequiresOracle(t *testing.T) {
	t.Parallel()

	g, err := NewRandomLinear(scenarioParams(), nil, testutil.SeededSource(1))
	require.Error(t, err)
	assert.Nil(t, g)
	assert.Contains(t, err.Error(), "collision oracle")
}

func TestExpandSegment_SimpleAccept(t *testing.T) {
	t.Parallel()

	start := testutil.Vec(2, -1, 0.5)
	root := segment.NewRoot(segment.Waypoint{Position: start})
	g := newGenerator(t, scenarioParams(), oracle.AllFree, 1)

	out, ok := g.ExpandSegment(root, nil)
	require.True(t, ok)
	require.Len(t, root.Children, 1)
	require.Len(t, out, 1)
	assert.Same(t, root.Children[0], out[0])
	assert.True(t, root.Visited)

	traj := root.Children[0].Trajectory
	require.NotEmpty(t, traj)

	last := traj[len(traj)-1].Position
	assert.InDelta(t, 1.0, r3.Norm(r3.Sub(last, start)), 1e-6, "travels the sampled distance")
	assert.InDelta(t, start.Z, last.Z, 1e-9, "planar motion keeps altitude")
	assert.Equal(t, int64(100_000_000), traj[0].TimeFromStartNs, "first waypoint one tick in")

	// Every waypoint lies on the straight line toward the final point.
	dir := r3.Unit(r3.Sub(last, start))
	for i, w := range traj {
		off := r3.Sub(w.Position, start)
		assert.InDelta(t, 0, r3.Norm(r3.Cross(off, dir)), 1e-9, "waypoint %d off the line", i)
	}
}

func TestExpandSegment_VelocityProfile(t *testing.T) {
	t.Parallel()

	p := scenarioParams()
	p.MaxDistance, p.MinDistance = 4, 4
	p.VMax = 1
	p.AMax = 2
	root := segment.NewRoot(segment.Waypoint{})
	g := newGenerator(t, p, oracle.AllFree, 3)

	_, ok := g.ExpandSegment(root, nil)
	require.True(t, ok)
	traj := root.Children[0].Trajectory

	prev := 0.0
	var prevT int64
	peak := 0.0
	for i, w := range traj {
		x := r3.Norm(w.Position)
		step := (x - prev) * p.SamplingRate // speed over the tick
		assert.LessOrEqual(t, step, p.VMax+1e-9, "speed cap exceeded at %d", i)
		assert.GreaterOrEqual(t, step, -1e-9, "vehicle reversed at %d", i)
		assert.Greater(t, w.TimeFromStartNs, prevT, "time must increase at %d", i)
		if step > peak {
			peak = step
		}
		prev = x
		prevT = w.TimeFromStartNs
	}
	assert.InDelta(t, p.VMax, peak, 1e-9, "long segment reaches cruise speed")
	assert.InDelta(t, 4.0, prev, 0.05)
}

func TestExpandSegment_ForcedDeadEnd(t *testing.T) {
	t.Parallel()

	p := scenarioParams()
	p.MaxTries = 25
	counter := testutil.NewCountingOracle(oracle.AllBlocked)
	g := newGenerator(t, p, counter, 1)
	root := segment.NewRoot(segment.Waypoint{})

	out, ok := g.ExpandSegment(root, nil)
	assert.False(t, ok)
	assert.Empty(t, out)
	assert.Empty(t, root.Children)
	assert.True(t, root.Visited)
	// The first point of every candidate is blocked, so one query per try.
	assert.Equal(t, int64(25), counter.Calls())
}

func TestExpandSegment_RetryBound(t *testing.T) {
	t.Parallel()

	for _, k := range []int{1, 3, 7} {
		p := scenarioParams()
		p.NSegments = k
		p.MaxTries = k + 5
		p.MaxDistance = 2
		g := newGenerator(t, p, oracle.AllFree, uint64(k))
		root := segment.NewRoot(segment.Waypoint{})

		out, ok := g.ExpandSegment(root, nil)
		assert.True(t, ok)
		assert.Len(t, root.Children, k, "n_segments=%d", k)
		assert.Len(t, out, k)
	}
}

func TestExpandSegment_AppendsToExistingOut(t *testing.T) {
	t.Parallel()

	p := scenarioParams()
	p.NSegments = 2
	p.MaxTries = 2
	g := newGenerator(t, p, oracle.AllFree, 5)
	root := segment.NewRoot(segment.Waypoint{})
	sentinel := &segment.Segment{}

	out, ok := g.ExpandSegment(root, []*segment.Segment{sentinel})
	require.True(t, ok)
	require.Len(t, out, 3)
	assert.Same(t, sentinel, out[0])
	assert.Same(t, root.Children[0], out[1])
	assert.Same(t, root.Children[1], out[2])
}

func TestExpandSegment_RespectsOracle(t *testing.T) {
	t.Parallel()

	// Only the half space x < 0.6 is free.
	free := oracle.Func(func(p r3.Vec) bool { return p.X < 0.6 })
	p := scenarioParams()
	p.MinDistance = 0.5
	p.MaxDistance = 2
	p.NSegments = 10
	p.MaxTries = 200
	g := newGenerator(t, p, free, 11)
	root := segment.NewRoot(segment.Waypoint{})

	for i := 0; i < 5; i++ {
		g.ExpandSegment(root, nil)
	}
	require.NotEmpty(t, root.Children)
	for i, c := range root.Children {
		for j, w := range c.Trajectory {
			assert.True(t, free(w.Position), "child %d waypoint %d is blocked: %v", i, j, w.Position)
		}
	}
	assert.NoError(t, root.CheckWellFormed())
}

func TestExpandSegment_PartialCollisionLeavesNoNode(t *testing.T) {
	t.Parallel()

	// Block a ring around 0.5 m wider than one simulation step: every
	// candidate must cross it, so all are abandoned mid-trajectory.
	ring := oracle.Func(func(p r3.Vec) bool {
		d := r3.Norm(p)
		return d < 0.4 || d > 0.6
	})
	p := scenarioParams()
	p.MaxTries = 30
	g := newGenerator(t, p, ring, 2)
	root := segment.NewRoot(segment.Waypoint{})

	_, ok := g.ExpandSegment(root, nil)
	assert.False(t, ok)
	assert.Empty(t, root.Children)
}

func TestExpandSegment_HeadingFollowsTravel(t *testing.T) {
	t.Parallel()

	p := scenarioParams()
	p.NSegments = 8
	p.MaxTries = 8
	g := newGenerator(t, p, oracle.AllFree, 21)
	root := segment.NewRoot(segment.Waypoint{})
	_, ok := g.ExpandSegment(root, nil)
	require.True(t, ok)

	for i, c := range root.Children {
		last := c.Trajectory[len(c.Trajectory)-1].Position
		travel := math.Atan2(last.Y, last.X)
		for _, w := range c.Trajectory {
			assert.True(t, scalar.EqualWithinAbs(units.NormalizeYaw(w.Yaw-travel), 0, 1e-9),
				"child %d heading %f does not face travel %f", i, w.Yaw, travel)
		}
	}
}

func TestExpandSegment_SampledYaw(t *testing.T) {
	t.Parallel()

	p := scenarioParams()
	p.NSegments = 8
	p.MaxTries = 8
	p.SampleYaw = true
	g := newGenerator(t, p, oracle.AllFree, 21)
	root := segment.NewRoot(segment.Waypoint{})
	_, ok := g.ExpandSegment(root, nil)
	require.True(t, ok)

	decoupled := 0
	for _, c := range root.Children {
		last := c.Trajectory[len(c.Trajectory)-1].Position
		travel := math.Atan2(last.Y, last.X)
		yaw := c.Trajectory[0].Yaw
		if math.Abs(units.NormalizeYaw(yaw-travel)) > 1e-6 {
			decoupled++
		}
		for _, w := range c.Trajectory {
			assert.Equal(t, yaw, w.Yaw, "heading is constant along a segment")
			assert.True(t, w.Yaw > -math.Pi && w.Yaw <= math.Pi)
		}
	}
	assert.Greater(t, decoupled, 0, "independent heading should differ from travel direction")
}

func TestExpandSegment_NonPlanarLeavesPlane(t *testing.T) {
	t.Parallel()

	p := scenarioParams()
	p.Planar = false
	p.NSegments = 10
	p.MaxTries = 10
	g := newGenerator(t, p, oracle.AllFree, 8)
	root := segment.NewRoot(segment.Waypoint{})
	_, ok := g.ExpandSegment(root, nil)
	require.True(t, ok)

	climbed := false
	for _, c := range root.Children {
		last := c.Trajectory[len(c.Trajectory)-1].Position
		assert.InDelta(t, 1.0, r3.Norm(last), 1e-6)
		if math.Abs(last.Z) > 1e-3 {
			climbed = true
		}
	}
	assert.True(t, climbed)
}

func TestExpandSegment_Reproducible(t *testing.T) {
	t.Parallel()

	p := scenarioParams()
	p.MaxDistance = 3
	p.NSegments = 4
	p.MaxTries = 4
	p.Planar = false

	a := segment.NewRoot(segment.Waypoint{})
	b := segment.NewRoot(segment.Waypoint{})
	newGenerator(t, p, oracle.AllFree, 99).ExpandSegment(a, nil)
	newGenerator(t, p, oracle.AllFree, 99).ExpandSegment(b, nil)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different trees (-a +b):\n%s", diff)
	}
}

func TestExpandSegment_DegenerateTargets(t *testing.T) {
	t.Parallel()

	g := newGenerator(t, scenarioParams(), oracle.AllFree, 1)

	out, ok := g.ExpandSegment(nil, nil)
	assert.False(t, ok)
	assert.Nil(t, out)

	empty := &segment.Segment{}
	_, ok = g.ExpandSegment(empty, nil)
	assert.False(t, ok)
	assert.True(t, empty.Visited)
	assert.Empty(t, empty.Children)
}

func TestExpandSegment_ZeroDistanceRejected(t *testing.T) {
	t.Parallel()

	g := newGenerator(t, scenarioParams(), oracle.AllFree, 1)
	// A zero-length motion produces no waypoints and must never be attached.
	traj, ok := g.buildTrajectory(r3.Vec{}, linearTarget{direction: r3.Vec{X: 1}, decelDistance: 0})
	assert.False(t, ok)
	assert.Empty(t, traj)
}

func TestSampleTarget_Ranges(t *testing.T) {
	t.Parallel()

	p := scenarioParams()
	p.Planar = false
	p.MinDistance = 1
	p.MaxDistance = 3
	p.VMax = 2
	p.AMax = 1
	g := newGenerator(t, p, oracle.AllFree, 4)

	for i := 0; i < 500; i++ {
		tgt := g.sampleTarget()
		assert.InDelta(t, 1.0, r3.Norm(tgt.direction), 1e-9)
		assert.GreaterOrEqual(t, tgt.yaw, 0.0)
		assert.Less(t, tgt.yaw, 2*math.Pi)
		// distance in [1,3] and v^2/a = 4, so decel = distance/2 in [0.5, 1.5]
		assert.GreaterOrEqual(t, tgt.decelDistance, 0.5-1e-9)
		assert.LessOrEqual(t, tgt.decelDistance, 1.5+1e-9)
	}
}
