// Package resolve defines the object model and capability interfaces for
// driving the DaVinci Resolve scripting API.
//
// Connector and Connection abstract the vendor bridge so commands can run
// against the pybridge adapter in production and stub connections in tests.
// BridgeError carries the categorized failure kinds shared by every command.
package resolve
