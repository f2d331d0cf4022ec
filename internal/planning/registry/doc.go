// Package registry maps module names from configuration to constructors.
//
// Responsibilities: hold the named generator and updater factories, resolve
// a name plus its option map into a ready module, and list what is available.
// Key types: Registry, Definition, Deps.
//
// Dependency rule: registry may depend on generator, updater, and oracle.
// The pipeline and the CLI depend on registry, never the other way round.
package registry
