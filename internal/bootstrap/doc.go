// Package bootstrap resolves the vendor installation layout for the host
// operating system and builds the environment handed to the bridge process.
//
// Detection never mutates the process environment; the resolved variables
// are placed on the spawned interpreter only.
package bootstrap
