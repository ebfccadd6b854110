// Package statefile implements the per-buffer persisted state described
// in spec §6 ("Filesystem layout" / "Persisted state file"): an
// executable script restoring a buffer's cursor position and typed
// variables, plus a companion JSON snapshot of the same variable bag for
// tooling that wants to inspect state without an embedded interpreter.
//
// Grounded on original_source/src/buffer.cc's OpenBuffer::PersistState:
// the state directory mirrors the buffer's absolute path under
// "state/<absolute-path>/" on the first entry of $EDGE_PATH, and the
// script body writes buffer.set_position(...) followed by one
// buffer.set_<var>(...) call per variable, strings escaped for `\`,
// `"`, newline, and tab.
package statefile
