// Package timelines implements the list, export, and import operations
// against the open project.
//
// Service carries the orchestration: name resolution with explicit
// ambiguity detection, destination extension handling, fail-fast source
// checks, and mandatory post-import verification. CommandBuilder wires the
// operations into Cobra subcommands.
package timelines
