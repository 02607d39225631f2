// Package resolvetest provides stub connectors and connections for exercising
// commands without a running application.
package resolvetest
