package segment

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func wp(x, y, z float64) Waypoint {
	return Waypoint{Position: r3.Vec{X: x, Y: y, Z: z}}
}

func leaf(x float64) *Segment {
	return &Segment{Trajectory: []Waypoint{wp(x, 0, 0)}}
}

// buildTree returns root -> {a -> {a0, a1}, b}.
func buildTree() (root, a, b *Segment) {
	root = NewRoot(wp(0, 0, 0))
	a = leaf(1)
	b = leaf(2)
	a.AddChild(leaf(1.5))
	a.AddChild(leaf(1.6))
	root.AddChild(a)
	root.AddChild(b)
	return root, a, b
}

func TestLastWaypoint(t *testing.T) {
	t.Parallel()

	var nilSeg *Segment
	_, ok := nilSeg.LastWaypoint()
	assert.False(t, ok)

	_, ok = (&Segment{}).LastWaypoint()
	assert.False(t, ok)

	s := &Segment{Trajectory: []Waypoint{wp(0, 0, 0), wp(1, 2, 3)}}
	last, ok := s.LastWaypoint()
	require.True(t, ok)
	assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 3}, last.Position)
}

func TestCountDepthLeaves(t *testing.T) {
	t.Parallel()

	root, a, b := buildTree()
	assert.Equal(t, 5, root.Count())
	assert.Equal(t, 2, root.Depth())
	assert.Equal(t, 0, b.Depth())

	leaves := root.Leaves()
	require.Len(t, leaves, 3)
	assert.Same(t, a.Children[0], leaves[0])
	assert.Same(t, a.Children[1], leaves[1])
	assert.Same(t, b, leaves[2])
}

func TestWalk_SkipSubtree(t *testing.T) {
	t.Parallel()

	root, a, _ := buildTree()
	visited := 0
	root.Walk(func(s *Segment, _ int) bool {
		visited++
		return s != a
	})
	// root, a, b; a's two children are skipped
	assert.Equal(t, 3, visited)
}

func TestFilterChildren_StableOrder(t *testing.T) {
	t.Parallel()

	root := NewRoot(wp(0, 0, 0))
	for i := 0; i < 6; i++ {
		root.AddChild(leaf(float64(i)))
	}

	calls := 0
	removed := root.FilterChildren(func(c *Segment) bool {
		calls++
		x := int(c.Trajectory[0].Position.X)
		return x%2 == 0
	})

	assert.Equal(t, 6, calls, "every child evaluated exactly once")
	assert.Equal(t, 3, removed)
	require.Len(t, root.Children, 3)
	for i, want := range []float64{0, 2, 4} {
		assert.Equal(t, want, root.Children[i].Trajectory[0].Position.X)
	}
}

func TestFilterChildren_AdjacentRemovals(t *testing.T) {
	t.Parallel()

	// Two collided children next to each other is the case a naive
	// erase-while-iterating loop skips.
	root := NewRoot(wp(0, 0, 0))
	for i := 0; i < 4; i++ {
		root.AddChild(leaf(float64(i)))
	}
	removed := root.FilterChildren(func(c *Segment) bool {
		x := c.Trajectory[0].Position.X
		return x == 0 || x == 3
	})
	assert.Equal(t, 2, removed)
	require.Len(t, root.Children, 2)
	assert.Equal(t, 3.0, root.Children[1].Trajectory[0].Position.X)
}

func TestClear(t *testing.T) {
	t.Parallel()

	root, _, _ := buildTree()
	root.Clear()
	assert.Empty(t, root.Children)
	assert.Equal(t, 1, root.Count())

	root.Clear()
	assert.Empty(t, root.Children)
}

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()

	root, a, _ := buildTree()
	a.Visited = true
	clone := root.Clone()

	if diff := cmp.Diff(root, clone); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	clone.Children[0].Trajectory[0].Position.X = 99
	clone.Children[0].Children = nil
	assert.Equal(t, 1.0, a.Trajectory[0].Position.X)
	assert.Len(t, a.Children, 2)
	assert.True(t, clone.Children[0].Visited)
}

func TestCheckWellFormed(t *testing.T) {
	t.Parallel()

	t.Run("valid tree", func(t *testing.T) {
		t.Parallel()
		root, _, _ := buildTree()
		assert.NoError(t, root.CheckWellFormed())
	})

	t.Run("empty child trajectory", func(t *testing.T) {
		t.Parallel()
		root, _, b := buildTree()
		b.AddChild(&Segment{})
		err := root.CheckWellFormed()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmptyTrajectory))
	})

	t.Run("shared child", func(t *testing.T) {
		t.Parallel()
		root, a, b := buildTree()
		b.AddChild(a.Children[0])
		err := root.CheckWellFormed()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSharedSegment))
	})

	t.Run("cycle", func(t *testing.T) {
		t.Parallel()
		root, a, _ := buildTree()
		a.Children[1].AddChild(a)
		assert.ErrorIs(t, root.CheckWellFormed(), ErrSharedSegment)
	})

	t.Run("nil child", func(t *testing.T) {
		t.Parallel()
		root, _, _ := buildTree()
		root.Children = append(root.Children, nil)
		assert.Error(t, root.CheckWellFormed())
	})
}
