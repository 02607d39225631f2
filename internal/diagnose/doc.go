// Package diagnose implements the connection health check: it verifies the
// scripting bridge is reachable and reports version and project status.
package diagnose
