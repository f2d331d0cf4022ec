package segment

import (
	"errors"
	"fmt"
)

// NewRoot creates a root segment whose single waypoint is the vehicle pose
// expansion starts from.
func NewRoot(start Waypoint) *Segment {
	return &Segment{Trajectory: []Waypoint{start}}
}

// LastWaypoint returns the final waypoint of the trajectory, the pose any
// child segment launches from.
func (s *Segment) LastWaypoint() (Waypoint, bool) {
	if s == nil || len(s.Trajectory) == 0 {
		return Waypoint{}, false
	}
	return s.Trajectory[len(s.Trajectory)-1], true
}

// AddChild attaches c as the last child of s.
func (s *Segment) AddChild(c *Segment) {
	s.Children = append(s.Children, c)
}

// Clear drops every child and with it every descendant.
func (s *Segment) Clear() {
	for i := range s.Children {
		s.Children[i] = nil
	}
	s.Children = s.Children[:0]
}

// FilterChildren keeps the children for which keep returns true and drops
// the rest, preserving the relative order of survivors. Each child is
// evaluated exactly once, left to right. Returns the number removed.
func (s *Segment) FilterChildren(keep func(*Segment) bool) int {
	n := 0
	for _, c := range s.Children {
		if keep(c) {
			s.Children[n] = c
			n++
		}
	}
	removed := len(s.Children) - n
	// Release dropped subtrees held by the tail of the backing array.
	for i := n; i < len(s.Children); i++ {
		s.Children[i] = nil
	}
	s.Children = s.Children[:n]
	return removed
}

// Walk visits s and its descendants depth first in insertion order. Returning
// false from fn skips the subtree below the current segment.
func (s *Segment) Walk(fn func(seg *Segment, depth int) bool) {
	s.walk(fn, 0)
}

func (s *Segment) walk(fn func(*Segment, int) bool, depth int) {
	if s == nil {
		return
	}
	if !fn(s, depth) {
		return
	}
	for _, c := range s.Children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of segments in the subtree rooted at s, s included.
func (s *Segment) Count() int {
	n := 0
	s.Walk(func(*Segment, int) bool {
		n++
		return true
	})
	return n
}

// Depth returns the number of levels below s; a lone segment has depth 0.
func (s *Segment) Depth() int {
	deepest := 0
	s.Walk(func(_ *Segment, d int) bool {
		if d > deepest {
			deepest = d
		}
		return true
	})
	return deepest
}

// Leaves returns the segments without children, in traversal order.
func (s *Segment) Leaves() []*Segment {
	var out []*Segment
	s.Walk(func(seg *Segment, _ int) bool {
		if len(seg.Children) == 0 {
			out = append(out, seg)
		}
		return true
	})
	return out
}

// Clone returns a deep copy of the subtree rooted at s.
func (s *Segment) Clone() *Segment {
	if s == nil {
		return nil
	}
	out := &Segment{Visited: s.Visited}
	if s.Trajectory != nil {
		out.Trajectory = append([]Waypoint(nil), s.Trajectory...)
	}
	if len(s.Children) > 0 {
		out.Children = make([]*Segment, len(s.Children))
		for i, c := range s.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

var (
	// ErrEmptyTrajectory reports a non-root segment without waypoints.
	ErrEmptyTrajectory = errors.New("segment has empty trajectory")
	// ErrSharedSegment reports a segment reachable through two parents.
	ErrSharedSegment = errors.New("segment reachable from more than one parent")
)

// CheckWellFormed verifies the tree invariants: every non-root segment has a
// non-empty trajectory, no child is nil, and no segment is reachable twice
// (which also rules out cycles).
func (s *Segment) CheckWellFormed() error {
	if s == nil {
		return nil
	}
	seen := map[*Segment]struct{}{s: {}}
	return checkChildren(s, seen, "root")
}

func checkChildren(s *Segment, seen map[*Segment]struct{}, path string) error {
	for i, c := range s.Children {
		childPath := fmt.Sprintf("%s/%d", path, i)
		if c == nil {
			return fmt.Errorf("nil child at %s", childPath)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: %s", ErrSharedSegment, childPath)
		}
		seen[c] = struct{}{}
		if len(c.Trajectory) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyTrajectory, childPath)
		}
		if err := checkChildren(c, seen, childPath); err != nil {
			return err
		}
	}
	return nil
}
