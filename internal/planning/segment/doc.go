// Package segment owns the expansion tree shared by every planning stage.
//
// Responsibilities: the TrajectorySegment node, its kinematic waypoints,
// single-owner child bookkeeping, and read-only traversal helpers used by
// evaluators, the snapshot store, and the visualiser.
// Key types: Segment, Waypoint.
//
// Dependency rule: segment depends on no other planning package. Generators
// and updaters mutate the tree; everything else only reads it.
package segment
