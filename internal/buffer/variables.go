package buffer

import "sync"

// Variable names registered at program start (spec §3's "typed variable
// bags ... addressed by compile-time-registered names").
const (
	VarSaveOnClose           = "save_on_close"
	VarAllowDirtyDelete      = "allow_dirty_delete"
	VarTermOnClose           = "term_on_close"
	VarPTS                   = "pts"
	VarFollowEndOfFile       = "follow_end_of_file"
	VarReloadAfterExit       = "reload_after_exit"
	VarCloseAfterCleanExit   = "close_after_clean_exit"
	VarPersistState          = "persist_state"
	VarLinePrefixCharacters  = "line_prefix_characters"
	VarSymbolCharacters      = "symbol_characters"
	VarTreeParser            = "tree_parser"
	VarLanguageKeywords      = "language_keywords"
	VarTypos                 = "typos"
	VarChildrenPath          = "children_path"
	VarMultipleCursors       = "multiple_cursors"
)

// treeParserTriggers names the variables whose assignment must call
// UpdateTreeParser (spec §4.H: "Writing certain strings ... triggers
// UpdateTreeParser").
var treeParserTriggers = map[string]bool{
	VarSymbolCharacters: true,
	VarTreeParser:       true,
	VarLanguageKeywords: true,
	VarTypos:            true,
}

// Variables is a typed bag of bool/int/string/float64 values addressed by
// name, with defaults for every compile-time-registered name and a hook
// fired when a tree-parser-affecting name is written.
type Variables struct {
	mu     sync.Mutex
	bools  map[string]bool
	ints   map[string]int
	floats map[string]float64
	strs   map[string]string

	onTreeParserVar func(name string)
}

// NewVariables returns a bag pre-populated with the documented defaults.
func NewVariables(onTreeParserVar func(name string)) *Variables {
	return &Variables{
		bools: map[string]bool{
			VarSaveOnClose:         false,
			VarAllowDirtyDelete:    false,
			VarTermOnClose:         false,
			VarPTS:                 false,
			VarFollowEndOfFile:     false,
			VarReloadAfterExit:     false,
			VarCloseAfterCleanExit: false,
			VarPersistState:        true,
			VarMultipleCursors:     false,
		},
		ints:   map[string]int{},
		floats: map[string]float64{},
		strs: map[string]string{
			VarLinePrefixCharacters: "",
			VarSymbolCharacters:     "",
			VarTreeParser:           "text",
			VarLanguageKeywords:     "",
			VarTypos:                "",
			VarChildrenPath:         "",
		},
		onTreeParserVar: onTreeParserVar,
	}
}

func (v *Variables) Bool(name string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bools[name]
}

func (v *Variables) SetBool(name string, value bool) {
	v.mu.Lock()
	v.bools[name] = value
	v.mu.Unlock()
	v.fireIfTreeParserTrigger(name)
}

func (v *Variables) Int(name string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ints[name]
}

func (v *Variables) SetInt(name string, value int) {
	v.mu.Lock()
	v.ints[name] = value
	v.mu.Unlock()
	v.fireIfTreeParserTrigger(name)
}

func (v *Variables) Float(name string) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.floats[name]
}

func (v *Variables) SetFloat(name string, value float64) {
	v.mu.Lock()
	v.floats[name] = value
	v.mu.Unlock()
	v.fireIfTreeParserTrigger(name)
}

func (v *Variables) String(name string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.strs[name]
}

func (v *Variables) SetString(name, value string) {
	v.mu.Lock()
	v.strs[name] = value
	v.mu.Unlock()
	v.fireIfTreeParserTrigger(name)
}

func (v *Variables) fireIfTreeParserTrigger(name string) {
	if treeParserTriggers[name] && v.onTreeParserVar != nil {
		v.onTreeParserVar(name)
	}
}

// Snapshot returns a flat name->value map suitable for PersistState
// (gjson/sjson encoding); values are bool, int, float64, or string.
func (v *Variables) Snapshot() map[string]any {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]any, len(v.bools)+len(v.ints)+len(v.floats)+len(v.strs))
	for k, val := range v.bools {
		out[k] = val
	}
	for k, val := range v.ints {
		out[k] = val
	}
	for k, val := range v.floats {
		out[k] = val
	}
	for k, val := range v.strs {
		out[k] = val
	}
	return out
}
