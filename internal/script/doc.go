// Package script implements the embedded expression language contract
// spec §6 requires of the core: an OpenBuffer opaque type with
// line/position/transformation/binding operations, a LineColumn value
// type, and function values coercible to callbacks. gopher-lua is the
// concrete runtime, grounded on the teacher's internal/plugin/lua
// package (sandboxed library set, panic-recovering execution) adapted
// from a plugin host into the core scripting surface spec.md itself
// requires rather than an optional extension layer.
package script
