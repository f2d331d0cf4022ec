// Package pipeline drives planning cycles over one expansion tree.
//
// Responsibilities: run the configured updater on the tree root, then expand
// unvisited leaves breadth-first under a per-cycle expansion budget, report
// what happened in CycleStats, and hand the result to an optional snapshot
// sink and cycle callback.
// Key types: Pipeline, CycleStats, SnapshotSink.
//
// Dependency rule: pipeline depends on segment, generator, and updater
// interfaces only. Concrete modules are built by registry; storage plugs in
// through SnapshotSink.
package pipeline
