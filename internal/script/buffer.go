package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/alefore/edge-sub003/internal/buffer"
	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/position"
	"github.com/alefore/edge-sub003/internal/engine/transform"
	"github.com/alefore/edge-sub003/internal/input"
	"github.com/alefore/edge-sub003/internal/input/key"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

const bufferMetatableKey = "__edge_buffer_mt"

type varKind uint8

const (
	varBool varKind = iota
	varString
)

// varSpecs lists every compile-time-registered variable name (spec §4.H),
// used to generate the set_<var>/<var> accessor pairs spec §6 requires
// ("set_<var>(v)", "<var>()") without hand-writing one closure pair per
// name.
var varSpecs = []struct {
	name string
	kind varKind
}{
	{buffer.VarSaveOnClose, varBool},
	{buffer.VarAllowDirtyDelete, varBool},
	{buffer.VarTermOnClose, varBool},
	{buffer.VarPTS, varBool},
	{buffer.VarFollowEndOfFile, varBool},
	{buffer.VarReloadAfterExit, varBool},
	{buffer.VarCloseAfterCleanExit, varBool},
	{buffer.VarPersistState, varBool},
	{buffer.VarLinePrefixCharacters, varString},
	{buffer.VarSymbolCharacters, varString},
	{buffer.VarTreeParser, varString},
	{buffer.VarLanguageKeywords, varString},
	{buffer.VarTypos, varString},
	{buffer.VarChildrenPath, varString},
}

// BufferHandle is the Go-side backing for spec §6's OpenBuffer opaque
// type: the scripting environment's sole way to read and mutate a
// buffer. Grounded on the teacher's plugin/api.BufferModule (a Go
// struct holding the domain object and exposing one method per script
// operation) generalized from keystorm's flat ks.buf module functions
// into a single opaque value with methods, since spec §6 names it as a
// type ("OpenBuffer") rather than a free-function namespace.
type BufferHandle struct {
	buf      *buffer.Buffer
	engine   *Engine
	registry *input.Registry
	save     func(*buffer.Buffer) error

	keyboardTransformers []lua.LValue
}

// NewBufferHandle wraps buf for scripting. registry receives bindings
// installed via AddBinding/AddBindingToFile; save backs the Save()
// method (nil means Save always fails).
func NewBufferHandle(buf *buffer.Buffer, e *Engine, registry *input.Registry, save func(*buffer.Buffer) error) *BufferHandle {
	return &BufferHandle{buf: buf, engine: e, registry: registry, save: save}
}

// RegisterOpenBuffer installs the OpenBuffer metatable on e. It returns
// nothing; PushBuffer wraps a BufferHandle as a Lua userdata value.
func RegisterOpenBuffer(e *Engine) {
	L := e.LuaState()
	mt := L.NewTable()
	index := L.NewTable()

	methods := map[string]lua.LGFunction{
		"line_count":                  bufLineCount,
		"position":                    bufPosition,
		"set_position":                bufSetPosition,
		"line":                        bufLine,
		"apply_transformation":        bufApplyTransformation,
		"push_transformation_stack":   bufPushTransformationStack,
		"pop_transformation_stack":    bufPopTransformationStack,
		"delete_characters":           bufDeleteCharacters,
		"insert_text":                 bufInsertText,
		"reload":                      bufReload,
		"save":                        bufSave,
		"map":                         bufMap,
		"filter":                      bufFilter,
		"add_keyboard_text_transformer": bufAddKeyboardTextTransformer,
		"add_binding":                 bufAddBinding,
		"add_binding_to_file":         bufAddBindingToFile,
		"evaluate_file":               bufEvaluateFile,
	}
	for name, fn := range methods {
		L.SetField(index, name, L.NewFunction(fn))
	}
	for _, spec := range varSpecs {
		spec := spec
		L.SetField(index, spec.name, L.NewFunction(func(L *lua.LState) int {
			h := checkBuffer(L, 1)
			switch spec.kind {
			case varBool:
				L.Push(lua.LBool(h.buf.Variables.Bool(spec.name)))
			case varString:
				L.Push(lua.LString(h.buf.Variables.String(spec.name)))
			}
			return 1
		}))
		L.SetField(index, "set_"+spec.name, L.NewFunction(func(L *lua.LState) int {
			h := checkBuffer(L, 1)
			switch spec.kind {
			case varBool:
				h.buf.Variables.SetBool(spec.name, L.OptBool(2, false))
			case varString:
				h.buf.Variables.SetString(spec.name, L.OptString(2, ""))
			}
			return 0
		}))
	}

	L.SetField(mt, "__index", index)
	L.SetField(L.Get(lua.RegistryIndex), bufferMetatableKey, mt)
}

// PushBuffer makes h available to script bodies as the Lua value named
// global (conventionally "buffer").
func PushBuffer(e *Engine, global string, h *BufferHandle) {
	L := e.LuaState()
	ud := L.NewUserData()
	ud.Value = h
	mt, _ := L.GetField(L.Get(lua.RegistryIndex), bufferMetatableKey).(*lua.LTable)
	L.SetMetatable(ud, mt)
	L.SetGlobal(global, ud)
}

func checkBuffer(L *lua.LState, n int) *BufferHandle {
	ud := L.CheckUserData(n)
	h, ok := ud.Value.(*BufferHandle)
	if !ok {
		L.ArgError(n, "expected an OpenBuffer")
	}
	return h
}

func bufLineCount(L *lua.LState) int {
	h := checkBuffer(L, 1)
	L.Push(lua.LNumber(h.buf.Content.Size()))
	return 1
}

func bufPosition(L *lua.LState) int {
	h := checkBuffer(L, 1)
	L.Push(newLineColumn(L, h.buf.Cursors.Active().Current()))
	return 1
}

func bufSetPosition(L *lua.LState) int {
	h := checkBuffer(L, 1)
	pos := checkLineColumn(L, 2)
	h.buf.Cursors.Active().SetCurrent(position.AdjustLineColumn(h.buf.Content, pos))
	return 0
}

func bufLine(L *lua.LState) int {
	h := checkBuffer(L, 1)
	i := L.CheckInt(2)
	if i < 0 || i >= h.buf.Content.Size() {
		L.ArgError(2, "line index out of range")
		return 0
	}
	L.Push(lua.LString(h.buf.Content.Get(i).String()))
	return 1
}

func bufApplyTransformation(L *lua.LState) int {
	h := checkBuffer(L, 1)
	t := checkTransformation(L, 2)
	L.Push(lua.LBool(h.ApplyTransformation(t)))
	return 1
}

func bufPushTransformationStack(L *lua.LState) int {
	checkBuffer(L, 1).PushTransformationStack()
	return 0
}

func bufPopTransformationStack(L *lua.LState) int {
	checkBuffer(L, 1).PopTransformationStack()
	return 0
}

func bufDeleteCharacters(L *lua.LState) int {
	h := checkBuffer(L, 1)
	n := L.CheckInt(2)
	ok := h.ApplyTransformation(&transform.DeleteCharacters{Options: transform.DeleteCharactersOptions{
		Modifiers: modifiers.Default().WithDirection(modifiers.Forwards).WithRepetitions(n),
	}})
	L.Push(lua.LBool(ok))
	return 1
}

func bufInsertText(L *lua.LState) int {
	h := checkBuffer(L, 1)
	text := L.CheckString(2)
	ok := h.ApplyTransformation(&transform.InsertBuffer{Options: transform.InsertBufferOptions{
		Contents: content.FromString(text),
	}})
	L.Push(lua.LBool(ok))
	return 1
}

func bufReload(L *lua.LState) int {
	checkBuffer(L, 1).buf.RequestReload()
	return 0
}

func bufSave(L *lua.LState) int {
	h := checkBuffer(L, 1)
	if h.save == nil {
		L.RaiseError("save: no save hook configured for this buffer")
		return 0
	}
	if err := h.save(h.buf); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	h.buf.ClearDirty()
	L.Push(lua.LTrue)
	return 1
}

// map(fn) calls fn(line_text) for every line; a non-nil string result
// replaces that line's contents. The whole pass is one undo entry.
func bufMap(L *lua.LState) int {
	h := checkBuffer(L, 1)
	fn := L.CheckFunction(2)

	h.PushTransformationStack()
	defer h.PopTransformationStack()

	for i := 0; i < h.buf.Content.Size(); i++ {
		original := h.buf.Content.Get(i).String()
		results, err := h.engine.CallValue(fn, lua.LString(original))
		if err != nil {
			L.RaiseError("map: %v", err)
			return 0
		}
		if len(results) == 0 {
			continue
		}
		replacement, ok := results[0].(lua.LString)
		if !ok || string(replacement) == original {
			continue
		}
		h.replaceLine(i, string(replacement))
	}
	return 0
}

// filter(predicate) removes every line for which predicate(line_text)
// returns false, scanning bottom-to-top so earlier deletions don't
// invalidate indices still to be visited.
func bufFilter(L *lua.LState) int {
	h := checkBuffer(L, 1)
	predicate := L.CheckFunction(2)

	h.PushTransformationStack()
	defer h.PopTransformationStack()

	for i := h.buf.Content.Size() - 1; i >= 0; i-- {
		text := h.buf.Content.Get(i).String()
		results, err := h.engine.CallValue(predicate, lua.LString(text))
		if err != nil {
			L.RaiseError("filter: %v", err)
			return 0
		}
		keep := len(results) > 0 && lua.LVAsBool(results[0])
		if keep {
			continue
		}
		h.ApplyTransformation(&transform.GotoPosition{Pos: position.LineColumn{Line: i, Column: 0}})
		h.ApplyTransformation(&transform.DeleteLines{Options: transform.DeleteLinesOptions{
			Modifiers: modifiers.Default().WithRepetitions(1),
		}})
	}
	return 0
}

func (h *BufferHandle) replaceLine(i int, text string) {
	h.ApplyTransformation(&transform.GotoPosition{Pos: position.LineColumn{Line: i, Column: 0}})
	length := h.buf.Content.Get(i).Length()
	if length > 0 {
		h.ApplyTransformation(&transform.DeleteCharacters{Options: transform.DeleteCharactersOptions{
			Modifiers: modifiers.Default().WithDirection(modifiers.Forwards).WithRepetitions(length),
		}})
	}
	h.ApplyTransformation(&transform.InsertBuffer{Options: transform.InsertBufferOptions{
		Contents: content.FromString(text),
	}})
}

// add_keyboard_text_transformer(fn) registers fn as an
// InsertMode.TransformKeyboardText hook (spec §6). The hooks themselves
// are consulted by whatever InsertMode the host editor builds for this
// buffer; BufferHandle only accumulates them.
func bufAddKeyboardTextTransformer(L *lua.LState) int {
	h := checkBuffer(L, 1)
	fn := L.CheckFunction(2)
	h.keyboardTransformers = append(h.keyboardTransformers, fn)
	return 0
}

// KeyboardTextTransformer composes every registered transformer into a
// single func(string) string suitable for input.InsertMode.TransformKeyboardText.
func (h *BufferHandle) KeyboardTextTransformer() func(string) string {
	if len(h.keyboardTransformers) == 0 {
		return nil
	}
	return func(s string) string {
		for _, fn := range h.keyboardTransformers {
			results, err := h.engine.CallValue(fn, lua.LString(s))
			if err != nil || len(results) == 0 {
				continue
			}
			if str, ok := results[0].(lua.LString); ok {
				s = string(str)
			}
		}
		return s
	}
}

func bufAddBinding(L *lua.LState) int {
	h := checkBuffer(L, 1)
	keys := L.CheckString(2)
	desc := L.CheckString(3)
	fn := L.CheckFunction(4)
	if h.registry == nil {
		L.RaiseError("add_binding: no command registry configured")
		return 0
	}
	h.registry.Register(keys, &scriptCommand{desc: desc, fn: fn, engine: h.engine})
	return 0
}

func bufAddBindingToFile(L *lua.LState) int {
	h := checkBuffer(L, 1)
	keys := L.CheckString(2)
	path := L.CheckString(3)
	if h.registry == nil {
		L.RaiseError("add_binding_to_file: no command registry configured")
		return 0
	}
	h.registry.Register(keys, &scriptFileCommand{path: path, engine: h.engine})
	return 0
}

func bufEvaluateFile(L *lua.LState) int {
	h := checkBuffer(L, 1)
	path := L.CheckString(2)
	if err := h.engine.DoFile(path); err != nil {
		L.RaiseError("evaluate_file: %v", err)
		return 0
	}
	return 0
}

// ApplyTransformation is the Go-callable counterpart of the Lua
// apply_transformation method, also used internally by map/filter. Each
// call pushes its own history entry unless a transformation-stack group
// is open (PushTransformationStack), in which case History.Push
// accumulates it into the group instead.
func (h *BufferHandle) ApplyTransformation(t transform.Transformation) bool {
	active := h.buf.Cursors.Active()
	r := transform.NewResult(h.buf.Content, active.Current(), transform.Final)
	r.Marks = h.buf.Marks
	r.BufferName = h.buf.Name
	t.Apply(r)
	active.SetCurrent(r.Cursor)
	if r.ModifiedBuffer {
		h.buf.MarkDirty()
	}
	h.buf.History.Push(r.UndoStack.AsTransformation(), r.ModifiedBuffer)
	return r.Success
}

// PushTransformationStack opens a history group (spec §6): every
// ApplyTransformation call until the matching PopTransformationStack
// collapses into one undo entry, per History.BeginGroup/EndGroup.
func (h *BufferHandle) PushTransformationStack() {
	h.buf.History.BeginGroup()
}

// PopTransformationStack closes the innermost history group.
func (h *BufferHandle) PopTransformationStack() {
	h.buf.History.EndGroup()
}

// scriptCommand wraps a Lua function as an input.Command (spec §6's
// "AddBinding(keys, desc, fn)").
type scriptCommand struct {
	desc   string
	fn     lua.LValue
	engine *Engine
}

func (c *scriptCommand) Description() string { return c.desc }
func (c *scriptCommand) Category() string    { return "script" }

func (c *scriptCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	_, err := c.engine.CallValue(c.fn)
	return err
}

// scriptFileCommand wraps a file path as an input.Command (spec §6's
// "AddBindingToFile(keys, path)"): every trigger re-evaluates the file.
type scriptFileCommand struct {
	path   string
	engine *Engine
}

func (c *scriptFileCommand) Description() string {
	return fmt.Sprintf("evaluate %s", c.path)
}
func (c *scriptFileCommand) Category() string { return "script" }

func (c *scriptFileCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	return c.engine.DoFile(c.path)
}
