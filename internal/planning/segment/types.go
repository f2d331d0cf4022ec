package segment

import "gonum.org/v1/gonum/spatial/r3"

// Waypoint is one kinematic sample of a simulated trajectory.
type Waypoint struct {
	Position        r3.Vec  // World frame position (metres)
	Yaw             float64 // Heading in radians, normalised to (-pi, pi]
	TimeFromStartNs int64   // Elapsed time since the segment started
}

// Segment is a node of the expansion tree. A segment owns its children
// exclusively; dropping a segment drops its whole subtree.
//
// Trajectory is append-only while a generator builds it. Children keep
// insertion order. Visited is set by a generator once expansion from this
// segment has been attempted.
type Segment struct {
	Trajectory []Waypoint
	Children   []*Segment
	Visited    bool
}
