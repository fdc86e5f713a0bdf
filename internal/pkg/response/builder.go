// Package response assembles the plain-text payloads returned by tool
// handlers, so every tool formats headers, items, and key-value lines the
// same way.
package response

import (
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Builder accumulates formatted lines. Methods chain and return the receiver.
type Builder struct {
	sb strings.Builder
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Header writes a top-level header line.
func (b *Builder) Header(format string, args ...any) *Builder {
	fmt.Fprintf(&b.sb, "═══ "+format+" ═══\n", args...)
	return b
}

// KeyValue writes a bulleted key-value pair.
func (b *Builder) KeyValue(key string, value any) *Builder {
	fmt.Fprintf(&b.sb, "• %s: %v\n", key, value)
	return b
}

// Item writes an indented list entry.
func (b *Builder) Item(format string, args ...any) *Builder {
	fmt.Fprintf(&b.sb, "  → "+format+"\n", args...)
	return b
}

// Line writes a plain formatted line.
func (b *Builder) Line(format string, args ...any) *Builder {
	fmt.Fprintf(&b.sb, format+"\n", args...)
	return b
}

// Blank writes an empty line.
func (b *Builder) Blank() *Builder {
	b.sb.WriteByte('\n')
	return b
}

// Separator writes a horizontal rule.
func (b *Builder) Separator() *Builder {
	b.sb.WriteString("───────────────────────────────\n")
	return b
}

// Section writes a secondary header, lighter than Header.
func (b *Builder) Section(format string, args ...any) *Builder {
	fmt.Fprintf(&b.sb, "── "+format+" ──\n", args...)
	return b
}

// Raw appends text verbatim.
func (b *Builder) Raw(text string) *Builder {
	b.sb.WriteString(text)
	return b
}

// Build returns the assembled string.
func (b *Builder) Build() string {
	return b.sb.String()
}

// TextResult wraps the assembled text in a CallToolResult. Tool handlers
// return this directly.
func (b *Builder) TextResult() *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: b.sb.String()}},
	}
}
