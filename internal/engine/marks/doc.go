// Package marks implements LineMarks (spec §4.G): a global, mutex-guarded
// multi-index of links from a source buffer's line to a target buffer's
// position, queryable by either endpoint, with an expiry mechanism used
// when a source buffer reloads.
package marks
