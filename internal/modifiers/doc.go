// Package modifiers implements the Modifiers value bundle and the
// Structure enum's seek/limit behaviors (spec §4.J), including the
// FindPartialRange algorithm used by region-scoped transformations.
package modifiers
