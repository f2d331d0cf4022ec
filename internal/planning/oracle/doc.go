// Package oracle defines the collision oracle the planner consults and a
// voxel occupancy implementation of it.
//
// Responsibilities: answering whether a single world point is traversable.
// Key types: Oracle, Func, VoxelMap.
//
// Dependency rule: oracle depends on no other planning package. Queries must
// be safe to issue concurrently; mutation happens between planning cycles.
package oracle
