// Package execshell provides structured helpers for invoking the Python
// interpreter that hosts the vendor scripting bridge.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the CommandRunner abstraction that
// lets the bridge adapter run in tests without spawning processes.
package execshell
