// Package ui renders human-facing command output: colored status lines and
// categorized terminal error messages with remediation hints.
package ui
