package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/alefore/edge-sub003/internal/engine/position"
)

// lineColumnMetatableKey names a field on the Engine's registry table so
// every value built by RegisterLineColumn shares one metatable, mirroring
// how the teacher's Sandbox builds one ad hoc metatable per userdata kind
// (getFileMetatable) rather than gopher-lua's named-type registry.
const lineColumnMetatableKey = "__edge_linecolumn_mt"

// RegisterLineColumn installs the global LineColumn(line, column)
// constructor (spec §6: "LineColumn(line, column) type").
func RegisterLineColumn(e *Engine) {
	L := e.LuaState()
	mt := L.NewTable()
	index := L.NewTable()
	L.SetField(index, "line", L.NewFunction(func(L *lua.LState) int {
		pos := checkLineColumn(L, 1)
		L.Push(lua.LNumber(pos.Line))
		return 1
	}))
	L.SetField(index, "column", L.NewFunction(func(L *lua.LState) int {
		pos := checkLineColumn(L, 1)
		L.Push(lua.LNumber(pos.Column))
		return 1
	}))
	L.SetField(mt, "__index", index)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		pos := checkLineColumn(L, 1)
		L.Push(lua.LString(pos.String()))
		return 1
	}))
	L.SetField(L.Get(lua.RegistryIndex), lineColumnMetatableKey, mt)

	L.SetGlobal("LineColumn", L.NewFunction(func(L *lua.LState) int {
		line := L.CheckInt(1)
		column := L.CheckInt(2)
		L.Push(newLineColumn(L, position.LineColumn{Line: line, Column: column}))
		return 1
	}))
}

func newLineColumn(L *lua.LState, pos position.LineColumn) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = pos
	mt, _ := L.GetField(L.Get(lua.RegistryIndex), lineColumnMetatableKey).(*lua.LTable)
	L.SetMetatable(ud, mt)
	return ud
}

// checkLineColumn requires argument n to be a LineColumn userdata.
func checkLineColumn(L *lua.LState, n int) position.LineColumn {
	ud := L.CheckUserData(n)
	pos, ok := ud.Value.(position.LineColumn)
	if !ok {
		L.ArgError(n, "expected a LineColumn")
	}
	return pos
}
