package generator

import "github.com/banshee-data/explore.planner/internal/planning/segment"

// Expander abstracts an expansion strategy.
type Expander interface {
	// ExpandSegment marks target visited and attaches zero or more new,
	// collision-free children to it. Handles to the new children are appended
	// to out and the extended slice is returned; ownership stays with target.
	// The bool is true when at least one child was added. A false result is a
	// dead end, not a failure.
	ExpandSegment(target *segment.Segment, out []*segment.Segment) ([]*segment.Segment, bool)
}

// Verify at compile time that *RandomLinear implements Expander.
var _ Expander = (*RandomLinear)(nil)
