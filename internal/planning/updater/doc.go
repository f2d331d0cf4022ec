// Package updater decides what survives of the previous cycle's tree.
//
// Responsibilities: the Updater contract and the three built-in policies:
// ResetTree discards everything, UpdateNothing trusts the old tree, and
// RecheckCollision prunes every subtree whose own trajectory now collides.
// Key types: Updater, ResetTree, UpdateNothing, RecheckCollision.
//
// Dependency rule: updater may depend on segment and oracle, never on
// generator internals, registry, or pipeline.
package updater
