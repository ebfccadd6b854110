// Package subprocess implements SubprocessReader (spec §4.I): spawning a
// child process attached to a buffer, either over a pseudo-terminal or
// plain pipes, reading its output line-by-line without blocking the
// buffer's owning goroutine, and reporting exit.
package subprocess
