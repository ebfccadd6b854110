package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/transform"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

const transformationMetatableKey = "__edge_transformation_mt"

// RegisterTransformation installs the global `transform` table of
// factory functions producing opaque transformation values, and the
// metatable shared by every such value. Script bodies build these up
// and pass the result to OpenBuffer.ApplyTransformation (spec §6).
func RegisterTransformation(e *Engine) {
	L := e.LuaState()

	mt := L.NewTable()
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString("transformation"))
		return 1
	}))
	L.SetField(L.Get(lua.RegistryIndex), transformationMetatableKey, mt)

	mod := L.NewTable()
	L.SetField(mod, "insert_text", L.NewFunction(luaInsertText))
	L.SetField(mod, "delete_characters", L.NewFunction(luaDeleteCharacters))
	L.SetField(mod, "goto_position", L.NewFunction(luaGotoPosition))
	L.SetField(mod, "sequence", L.NewFunction(luaSequence))
	L.SetGlobal("transform", mod)
}

func newTransformationValue(L *lua.LState, t transform.Transformation) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = t
	mt, _ := L.GetField(L.Get(lua.RegistryIndex), transformationMetatableKey).(*lua.LTable)
	L.SetMetatable(ud, mt)
	return ud
}

// checkTransformation requires argument n to be a value built by one of
// the `transform.*` factories.
func checkTransformation(L *lua.LState, n int) transform.Transformation {
	ud := L.CheckUserData(n)
	t, ok := ud.Value.(transform.Transformation)
	if !ok {
		L.ArgError(n, "expected a transformation")
	}
	return t
}

// transform.insert_text(s) -> transformation
func luaInsertText(L *lua.LState) int {
	text := L.CheckString(1)
	t := &transform.InsertBuffer{Options: transform.InsertBufferOptions{
		Contents: content.FromString(text),
	}}
	L.Push(newTransformationValue(L, t))
	return 1
}

// transform.delete_characters(n[, backwards]) -> transformation
func luaDeleteCharacters(L *lua.LState) int {
	n := L.CheckInt(1)
	backwards := L.OptBool(2, false)
	dir := modifiers.Forwards
	if backwards {
		dir = modifiers.Backwards
	}
	t := &transform.DeleteCharacters{Options: transform.DeleteCharactersOptions{
		Modifiers: modifiers.Default().WithDirection(dir).WithRepetitions(n),
	}}
	L.Push(newTransformationValue(L, t))
	return 1
}

// transform.goto_position(lineColumn) -> transformation
func luaGotoPosition(L *lua.LState) int {
	pos := checkLineColumn(L, 1)
	L.Push(newTransformationValue(L, &transform.GotoPosition{Pos: pos}))
	return 1
}

// transform.sequence(t1, t2, ...) -> transformation
// Composes its arguments into a single TransformationStack (spec
// §4.E.8), applied and undone as one unit.
func luaSequence(L *lua.LState) int {
	n := L.GetTop()
	entries := make([]transform.Transformation, 0, n)
	for i := 1; i <= n; i++ {
		entries = append(entries, checkTransformation(L, i))
	}
	L.Push(newTransformationValue(L, transform.NewTransformationStack(entries...)))
	return 1
}
