package docs

import (
	"strings"

	docspb "google.golang.org/api/docs/v1"

	"github.com/workspacemcp/workspace-mcp/internal/pkg/color"
)

// DocContentOutput is the structured output for get_doc_content.
type DocContentOutput struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

// extractDocText flattens a document body into plain text. Paragraph runs are
// concatenated as-is; tables come out one row per line with cells separated
// by pipes.
func extractDocText(doc *docspb.Document) string {
	if doc.Body == nil {
		return ""
	}

	var sb strings.Builder
	for _, elem := range doc.Body.Content {
		if elem.Paragraph != nil {
			writeParagraph(&sb, elem.Paragraph, false)
		}
		if elem.Table != nil {
			for _, row := range elem.Table.TableRows {
				cells := make([]string, 0, len(row.TableCells))
				for _, cell := range row.TableCells {
					var cb strings.Builder
					for _, ce := range cell.Content {
						if ce.Paragraph != nil {
							writeParagraph(&cb, ce.Paragraph, true)
						}
					}
					cells = append(cells, cb.String())
				}
				sb.WriteString(strings.Join(cells, " | "))
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

func writeParagraph(sb *strings.Builder, p *docspb.Paragraph, trim bool) {
	for _, pe := range p.Elements {
		if pe.TextRun == nil {
			continue
		}
		if trim {
			sb.WriteString(strings.TrimSpace(pe.TextRun.Content))
		} else {
			sb.WriteString(pe.TextRun.Content)
		}
	}
}

// escapeQueryLiteral escapes backslashes and single quotes so the value can
// sit inside a quoted Drive query term.
func escapeQueryLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// buildTextStyle assembles a TextStyle from the requested formatting flags.
// Returns nil when nothing was requested, so callers can skip the update.
func buildTextStyle(bold, italic, underline *bool, fontSize *int, fontFamily, textColor, bgColor string) *docspb.TextStyle {
	style := &docspb.TextStyle{}
	set := false

	if bold != nil {
		style.Bold, set = *bold, true
	}
	if italic != nil {
		style.Italic, set = *italic, true
	}
	if underline != nil {
		style.Underline, set = *underline, true
	}
	if fontSize != nil && *fontSize > 0 {
		style.FontSize = &docspb.Dimension{Magnitude: float64(*fontSize), Unit: "PT"}
		set = true
	}
	if fontFamily != "" {
		style.WeightedFontFamily = &docspb.WeightedFontFamily{FontFamily: fontFamily}
		set = true
	}
	if textColor != "" {
		style.ForegroundColor = parseColor(textColor)
		set = true
	}
	if bgColor != "" {
		style.BackgroundColor = parseColor(bgColor)
		set = true
	}

	if !set {
		return nil
	}
	return style
}

// buildTextStyleFields returns the update mask matching buildTextStyle: only
// the fields the caller actually set.
func buildTextStyleFields(bold, italic, underline *bool, fontSize *int, fontFamily, textColor, bgColor string) string {
	fields := make([]string, 0, 7)
	if bold != nil {
		fields = append(fields, "bold")
	}
	if italic != nil {
		fields = append(fields, "italic")
	}
	if underline != nil {
		fields = append(fields, "underline")
	}
	if fontSize != nil {
		fields = append(fields, "fontSize")
	}
	if fontFamily != "" {
		fields = append(fields, "weightedFontFamily")
	}
	if textColor != "" {
		fields = append(fields, "foregroundColor")
	}
	if bgColor != "" {
		fields = append(fields, "backgroundColor")
	}
	return strings.Join(fields, ",")
}

func parseColor(hex string) *docspb.OptionalColor {
	r, g, b, ok := color.HexToRGB(hex)
	if !ok {
		return nil
	}
	return &docspb.OptionalColor{
		Color: &docspb.Color{
			RgbColor: &docspb.RgbColor{Red: r, Green: g, Blue: b},
		},
	}
}
