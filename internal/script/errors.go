package script

import "errors"

// ErrEngineClosed is returned by any Engine method called after Close.
var ErrEngineClosed = errors.New("script: engine is closed")

// EvalError wraps a compile or runtime failure from evaluating a script
// body or extension callback (spec §7 "Script evaluation failure":
// logged and surfaced as a warning, never a crash).
type EvalError struct {
	Source string // file path, or "<string>" for DoString
	Err    error
}

func (e *EvalError) Error() string {
	return "script: evaluating " + e.Source + ": " + e.Err.Error()
}

func (e *EvalError) Unwrap() error { return e.Err }
