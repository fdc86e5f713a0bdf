package docs

import (
	"strings"
	"testing"

	docspb "google.golang.org/api/docs/v1"
)

func TestExtractDocText(t *testing.T) {
	doc := &docspb.Document{
		Body: &docspb.Body{
			Content: []*docspb.StructuralElement{
				{
					Paragraph: &docspb.Paragraph{
						Elements: []*docspb.ParagraphElement{
							{TextRun: &docspb.TextRun{Content: "Hello "}},
							{TextRun: &docspb.TextRun{Content: "world.\n"}},
						},
					},
				},
				{
					Table: &docspb.Table{
						TableRows: []*docspb.TableRow{
							{
								TableCells: []*docspb.TableCell{
									{Content: []*docspb.StructuralElement{{
										Paragraph: &docspb.Paragraph{
											Elements: []*docspb.ParagraphElement{
												{TextRun: &docspb.TextRun{Content: "A\n"}},
											},
										},
									}}},
									{Content: []*docspb.StructuralElement{{
										Paragraph: &docspb.Paragraph{
											Elements: []*docspb.ParagraphElement{
												{TextRun: &docspb.TextRun{Content: "B\n"}},
											},
										},
									}}},
								},
							},
						},
					},
				},
			},
		},
	}

	got := extractDocText(doc)
	if !strings.Contains(got, "Hello world.") {
		t.Errorf("missing paragraph text, got %q", got)
	}
	if !strings.Contains(got, "A | B") {
		t.Errorf("missing table row, got %q", got)
	}
}

func TestExtractDocTextNilBody(t *testing.T) {
	if got := extractDocText(&docspb.Document{}); got != "" {
		t.Errorf("expected empty string for nil body, got %q", got)
	}
}

func TestEscapeQueryLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"bob's report", `bob\'s report`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		if got := escapeQueryLiteral(tt.in); got != tt.want {
			t.Errorf("escapeQueryLiteral(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildTextStyle(t *testing.T) {
	t.Run("no formatting returns nil", func(t *testing.T) {
		if style := buildTextStyle(nil, nil, nil, nil, "", "", ""); style != nil {
			t.Errorf("expected nil, got %+v", style)
		}
	})

	t.Run("bold and font", func(t *testing.T) {
		b := true
		size := 14
		style := buildTextStyle(&b, nil, nil, &size, "Arial", "", "")
		if style == nil {
			t.Fatal("expected a style")
		}
		if !style.Bold {
			t.Error("Bold not set")
		}
		if style.FontSize == nil || style.FontSize.Magnitude != 14 {
			t.Errorf("FontSize = %+v", style.FontSize)
		}
		if style.WeightedFontFamily == nil || style.WeightedFontFamily.FontFamily != "Arial" {
			t.Errorf("WeightedFontFamily = %+v", style.WeightedFontFamily)
		}
	})

	t.Run("colors", func(t *testing.T) {
		style := buildTextStyle(nil, nil, nil, nil, "", "#FF0000", "#00FF00")
		if style == nil {
			t.Fatal("expected a style")
		}
		if style.ForegroundColor == nil || style.ForegroundColor.Color.RgbColor.Red != 1 {
			t.Errorf("ForegroundColor = %+v", style.ForegroundColor)
		}
		if style.BackgroundColor == nil || style.BackgroundColor.Color.RgbColor.Green != 1 {
			t.Errorf("BackgroundColor = %+v", style.BackgroundColor)
		}
	})
}

func TestBuildTextStyleFields(t *testing.T) {
	b, i := true, false
	size := 12
	fields := buildTextStyleFields(&b, &i, nil, &size, "Arial", "#FF0000", "")
	want := "bold,italic,fontSize,weightedFontFamily,foregroundColor"
	if fields != want {
		t.Errorf("fields = %q, want %q", fields, want)
	}
}
