package subprocess

// Options configures Start (spec §4.I "Fork (for commands)").
type Options struct {
	// Command is run as `/bin/sh -c Command`, matching the teacher's own
	// shell-command convention for user-triggered build/lint/etc runs.
	Command string

	// Dir is the child's working directory (spec's children_path); empty
	// means inherit the parent's.
	Dir string

	// PTS requests a pseudo-terminal for the child's stdin/stdout/stderr
	// (spec's "if pts variable set: open PTY master/slave"); otherwise
	// the child gets plain pipes, with stdout and stderr read
	// separately.
	PTS bool

	// CommandEnvironmentFile, if non-empty, is read as NAME=VALUE lines
	// (one per line, blank lines and a leading '#' ignored) and merged
	// into the child's environment before CallerEnvironment, matching
	// the composition order spec'd in original_source's
	// run_command_handler.cc: process environ, then
	// commands/<name>/environment, then caller overrides.
	CommandEnvironmentFile string

	// CallerEnvironment are additional NAME=VALUE entries applied last,
	// overriding both the inherited process environment and
	// CommandEnvironmentFile.
	CallerEnvironment []string
}
