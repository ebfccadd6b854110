// Package parsetree implements ParseTreeEngine (spec §4.D): a
// background worker that turns buffer contents into a simplified,
// depth-limited tree used by navigation and zoom commands.
package parsetree
