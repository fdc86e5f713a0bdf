// Package ptr builds pointers to literals, mostly for the optional bool
// fields on MCP tool annotations.
package ptr

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }
