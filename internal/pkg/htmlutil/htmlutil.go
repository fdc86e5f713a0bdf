// Package htmlutil converts HTML email bodies and document exports into
// readable plain text for tool output.
package htmlutil

import (
	"html"
	"regexp"
	"strings"
)

var (
	styleRE      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	scriptRE     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	brRE         = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockRE      = regexp.MustCompile(`(?i)</?(p|div|h[1-6]|li|tr|blockquote)\b[^>]*>`)
	tagRE        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRE = regexp.MustCompile(`[ \t]+`)
	blankLineRE  = regexp.MustCompile(`\n{3,}`)
)

// ToPlainText strips tags from HTML, decodes entities, and normalizes
// whitespace so the result reads as plain text. Style and script blocks are
// dropped entirely; block-level elements and <br> become line breaks.
func ToPlainText(raw string) string {
	if raw == "" {
		return ""
	}

	text := styleRE.ReplaceAllString(raw, "")
	text = scriptRE.ReplaceAllString(text, "")
	text = brRE.ReplaceAllString(text, "\n")
	text = blockRE.ReplaceAllString(text, "\n")
	text = tagRE.ReplaceAllString(text, "")

	text = html.UnescapeString(text)
	// UnescapeString turns &nbsp; into U+00A0, which renders badly in
	// terminal output.
	text = strings.ReplaceAll(text, " ", " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = whitespaceRE.ReplaceAllString(strings.TrimSpace(line), " ")
	}
	text = strings.Join(lines, "\n")
	text = blankLineRE.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
