package updater

import (
	"github.com/banshee-data/explore.planner/internal/monitoring"
	"github.com/banshee-data/explore.planner/internal/planning/oracle"
	"github.com/banshee-data/explore.planner/internal/planning/segment"
)

// Updater abstracts tree maintenance run once per planning cycle on the root.
type Updater interface {
	// UpdateSegments mutates the tree below root in place. It returns false
	// only if the tree could not be brought into a usable state; none of the
	// built-in policies can fail.
	UpdateSegments(root *segment.Segment) bool
}

// Verify at compile time that the built-in policies implement Updater.
var (
	_ Updater = ResetTree{}
	_ Updater = UpdateNothing{}
	_ Updater = (*RecheckCollision)(nil)
)

// ResetTree discards every segment below the root. Use it after a large state
// jump when nothing from the previous cycle can be trusted.
type ResetTree struct{}

// UpdateSegments implements Updater.
func (ResetTree) UpdateSegments(root *segment.Segment) bool {
	if root != nil {
		root.Clear()
	}
	return true
}

// UpdateNothing keeps the previous tree untouched.
type UpdateNothing struct{}

// UpdateSegments implements Updater.
func (UpdateNothing) UpdateSegments(*segment.Segment) bool {
	return true
}

// RecheckCollision re-validates every trajectory in the tree against the
// current oracle and drops each subtree whose own trajectory collides.
type RecheckCollision struct {
	oracle oracle.Oracle
}

// NewRecheckCollision returns a RecheckCollision bound to o, normally the
// oracle of the generator that built the tree. o must not be nil.
func NewRecheckCollision(o oracle.Oracle) *RecheckCollision {
	return &RecheckCollision{oracle: o}
}

// UpdateSegments implements Updater.
func (r *RecheckCollision) UpdateSegments(root *segment.Segment) bool {
	if root == nil {
		return true
	}
	removed := r.checkSingle(root)
	if removed > 0 {
		monitoring.Debugf("recheck_collision: pruned %d subtrees", removed)
	}
	return true
}

// checkSingle filters the children of s, then descends into the survivors.
// A segment is only ever tested as a child of its parent, so the root's own
// trajectory is never checked.
func (r *RecheckCollision) checkSingle(s *segment.Segment) int {
	removed := s.FilterChildren(func(c *segment.Segment) bool {
		return !r.isCollided(c.Trajectory)
	})
	for _, c := range s.Children {
		removed += r.checkSingle(c)
	}
	return removed
}

func (r *RecheckCollision) isCollided(trajectory []segment.Waypoint) bool {
	for i := range trajectory {
		if !r.oracle.IsTraversable(trajectory[i].Position) {
			return true
		}
	}
	return false
}
