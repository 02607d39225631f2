// Package pybridge adapts the vendor's Python scripting bridge to the
// resolve.Connector capability.
//
// The vendor publishes its API as a Python module backed by a shared
// library, so the production connector runs an embedded shim through the
// interpreter and exchanges JSON over stdout. One interpreter invocation is
// issued per CLI operation; the vendor environment variables ride on the
// child process only.
package pybridge
