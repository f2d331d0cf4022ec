// Package sqlite persists expansion tree snapshots in a SQLite database.
//
// Each snapshot stores the whole tree of one planning cycle, one row per
// segment in pre-order with its parent's index, so a snapshot can be reloaded
// for offline inspection and plotting. The schema is managed by embedded
// golang-migrate migrations applied in Open.
package sqlite
