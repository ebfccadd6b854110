package statefile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alefore/edge-sub003/internal/buffer"
	"github.com/alefore/edge-sub003/internal/engine/position"
)

// Format renders the executable persisted-state script body for pos and
// vars (spec §6): a set_position call, then one set_<var> call per
// variable, strings first, then ints, then floats, then bools, each
// group sorted by name for a deterministic file (original_source
// iterates its per-type variable structs in registration order; since
// Variables has no such fixed order, sorting keeps repeated runs
// byte-identical instead of depending on map iteration order).
//
// Calls use Lua colon syntax (buffer:set_position(...)) rather than the
// dot syntax original_source's own VM sugar shows: OpenBuffer's methods
// live behind a real Lua metatable __index, so dispatching one without
// passing the buffer itself as the receiver would drop the first
// argument.
func Format(pos position.LineColumn, vars *buffer.Variables) string {
	snapshot := vars.Snapshot()

	var strNames, intNames, floatNames, boolNames []string
	for name, v := range snapshot {
		switch v.(type) {
		case string:
			strNames = append(strNames, name)
		case int:
			intNames = append(intNames, name)
		case float64:
			floatNames = append(floatNames, name)
		case bool:
			boolNames = append(boolNames, name)
		}
	}
	sort.Strings(strNames)
	sort.Strings(intNames)
	sort.Strings(floatNames)
	sort.Strings(boolNames)

	var b strings.Builder
	fmt.Fprintf(&b, "buffer:set_position(LineColumn(%d, %d));\n\n", pos.Line, pos.Column)

	if len(strNames) > 0 {
		b.WriteString("-- String variables\n")
		for _, name := range strNames {
			fmt.Fprintf(&b, "buffer:set_%s(\"%s\");\n", name, escapeString(snapshot[name].(string)))
		}
		b.WriteString("\n")
	}

	if len(intNames) > 0 {
		b.WriteString("-- Int variables\n")
		for _, name := range intNames {
			fmt.Fprintf(&b, "buffer:set_%s(%d);\n", name, snapshot[name].(int))
		}
		b.WriteString("\n")
	}

	if len(floatNames) > 0 {
		b.WriteString("-- Float variables\n")
		for _, name := range floatNames {
			fmt.Fprintf(&b, "buffer:set_%s(%g);\n", name, snapshot[name].(float64))
		}
		b.WriteString("\n")
	}

	if len(boolNames) > 0 {
		b.WriteString("-- Bool variables\n")
		for _, name := range boolNames {
			fmt.Fprintf(&b, "buffer:set_%s(%t);\n", name, snapshot[name].(bool))
		}
		b.WriteString("\n")
	}

	return b.String()
}
