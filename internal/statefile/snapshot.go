package statefile

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/alefore/edge-sub003/internal/buffer"
)

// EncodeSnapshot serializes vars into the companion .edge_state.json
// side-channel: a flat JSON object, one field per variable, built
// incrementally with sjson.Set so each value keeps its native JSON type
// (string, number, or bool) rather than round-tripping through a
// generic map[string]any via encoding/json.
func EncodeSnapshot(vars *buffer.Variables) (string, error) {
	doc := "{}"
	for name, value := range vars.Snapshot() {
		var err error
		doc, err = sjson.Set(doc, name, value)
		if err != nil {
			return "", fmt.Errorf("statefile: encoding %q: %w", name, err)
		}
	}
	return doc, nil
}

// DecodeSnapshot parses a .edge_state.json document into a flat
// name->value map (bool, float64, or string, matching gjson's own
// type mapping for JSON scalars).
func DecodeSnapshot(doc string) (map[string]any, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("statefile: invalid JSON snapshot")
	}
	out := map[string]any{}
	gjson.Parse(doc).ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.True, gjson.False:
			out[key.String()] = value.Bool()
		case gjson.Number:
			out[key.String()] = value.Float()
		default:
			out[key.String()] = value.String()
		}
		return true
	})
	return out, nil
}
