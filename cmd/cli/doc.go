// Package cli assembles the resolve-otio command hierarchy.
//
// It wires configuration loading, validation, structured logging, and the
// production bridge connector into the check, list, export, and import
// subcommands.
package cli
