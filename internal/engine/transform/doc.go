// Package transform implements the Transformation algebra (spec §4.E):
// the composable, invertible edit operations every editing command
// reduces to, plus the Result value they thread cursor/undo/paste-buffer
// state through.
package transform
