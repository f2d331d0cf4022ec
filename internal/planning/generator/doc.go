// Package generator grows the expansion tree from a leaf segment.
//
// Responsibilities: the Expander contract every expansion strategy
// implements, and RandomLinear, which samples straight-line motions with an
// accelerate-cruise-decelerate velocity profile and keeps those the collision
// oracle accepts end to end.
// Key types: Expander, RandomLinear, RandomLinearConfig, RandomLinearParams.
//
// Dependency rule: generator may depend on segment and oracle, never on
// updater, registry, or pipeline.
package generator
