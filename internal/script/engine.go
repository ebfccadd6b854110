package script

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Default limits, mirroring the teacher's internal/plugin/lua state
// defaults. gopher-lua offers no hard memory ceiling and no instruction
// hook, so DefaultInstructionLimit is advisory (see
// EngineOptions.InstructionLimit) and no wall-clock limit is applied to
// a running script.
const (
	DefaultInstructionLimit = 10_000_000
)

// Engine wraps a gopher-lua state restricted to the safe standard
// libraries (spec §6's "embedded expression language" contract never
// calls for filesystem, process, or debug access from script bodies;
// those stay reserved for the Go side). Not safe for concurrent use
// without external synchronization beyond the mutex here, matching
// gopher-lua's own single-goroutine requirement.
type Engine struct {
	mu sync.Mutex
	L  *lua.LState

	instructionLimit int64
	closed           bool
}

// EngineOptions configures NewEngine.
type EngineOptions struct {
	// InstructionLimit bounds a single DoString/DoFile/Call invocation;
	// 0 uses DefaultInstructionLimit. Advisory only: gopher-lua exposes
	// no hook to count or cap instructions, so nothing enforces this
	// automatically. See Engine.InstructionLimit.
	InstructionLimit int64
}

// NewEngine creates a sandboxed Engine with the base, table, string, and
// math libraries open and io/os/debug/package withheld.
func NewEngine(opts EngineOptions) *Engine {
	limit := opts.InstructionLimit
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	return &Engine{L: L, instructionLimit: limit}
}

// InstructionLimit reports the advisory per-call instruction ceiling.
// gopher-lua exposes no hook to enforce this automatically (the same
// limitation the teacher's own lua.Sandbox documents); callers that
// expose Go functions doing non-trivial work to script bodies are
// expected to check long-running loops against this themselves.
func (e *Engine) InstructionLimit() int64 { return e.instructionLimit }

// LuaState returns the underlying gopher-lua state for callers (other
// internal/script files) that need to register modules directly.
func (e *Engine) LuaState() *lua.LState { return e.L }

// DoString executes code, recovering from a Lua panic into an error
// rather than letting it cross the Go/Lua boundary uncaught.
func (e *Engine) DoString(code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	if err := e.doWithRecovery(func() error { return e.L.DoString(code) }); err != nil {
		return &EvalError{Source: "<string>", Err: err}
	}
	return nil
}

// DoFile executes the script at path.
func (e *Engine) DoFile(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	if err := e.doWithRecovery(func() error { return e.L.DoFile(path) }); err != nil {
		return &EvalError{Source: path, Err: err}
	}
	return nil
}

func (e *Engine) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// CallValue invokes a Lua function value (spec §6: "function values
// coercible to callbacks") with args, returning its results.
func (e *Engine) CallValue(fn lua.LValue, args ...lua.LValue) ([]lua.LValue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}
	if fn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("script: value is not callable (got %s)", fn.Type())
	}

	top := e.L.GetTop()
	e.L.Push(fn)
	for _, a := range args {
		e.L.Push(a)
	}

	var callErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				callErr = fmt.Errorf("panic: %v", r)
			}
		}()
		callErr = e.L.PCall(len(args), lua.MultRet, nil)
	}()
	if callErr != nil {
		return nil, &EvalError{Source: "<callback>", Err: callErr}
	}

	n := e.L.GetTop() - top
	if n <= 0 {
		return []lua.LValue{}, nil
	}
	results := make([]lua.LValue, n)
	for i := 0; i < n; i++ {
		results[i] = e.L.Get(top + i + 1)
	}
	e.L.Pop(n)
	return results, nil
}

// SetGlobal/RegisterFunc forward to the underlying state,
// locking against concurrent Go-side access.
func (e *Engine) SetGlobal(name string, v lua.LValue) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.L.SetGlobal(name, v)
}

func (e *Engine) RegisterFunc(name string, fn lua.LGFunction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.L.SetGlobal(name, e.L.NewFunction(fn))
}

// Close releases the Lua state. Further calls return ErrEngineClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.L.Close()
	e.closed = true
}
