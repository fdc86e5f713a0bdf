package response

import (
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestBuilderHeader(t *testing.T) {
	got := New().Header("Test %s", "Header").Build()
	if !strings.Contains(got, "Test Header") {
		t.Errorf("Header missing expected text, got: %s", got)
	}
	if !strings.Contains(got, "═══") {
		t.Errorf("Header missing decoration, got: %s", got)
	}
}

func TestBuilderKeyValue(t *testing.T) {
	got := New().KeyValue("Name", "Alice").Build()
	if want := "• Name: Alice\n"; got != want {
		t.Errorf("KeyValue = %q, want %q", got, want)
	}
}

func TestBuilderItem(t *testing.T) {
	got := New().Item("item %d", 1).Build()
	if want := "  → item 1\n"; got != want {
		t.Errorf("Item = %q, want %q", got, want)
	}
}

func TestBuilderLine(t *testing.T) {
	got := New().Line("hello %s", "world").Build()
	if want := "hello world\n"; got != want {
		t.Errorf("Line = %q, want %q", got, want)
	}
}

func TestBuilderBlankAndRaw(t *testing.T) {
	got := New().Blank().Raw("raw text").Build()
	if want := "\nraw text"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuilderTextResult(t *testing.T) {
	res := New().Line("payload").TextResult()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", res.Content[0])
	}
	if tc.Text != "payload\n" {
		t.Errorf("TextResult text = %q", tc.Text)
	}
}

func TestBuilderComposite(t *testing.T) {
	got := New().
		Header("Results").
		KeyValue("Count", 3).
		Blank().
		Item("First").
		Item("Second").
		Separator().
		Section("Details").
		Line("Some detail").
		Build()

	for _, want := range []string{"Results", "Count: 3", "→ First", "→ Second", "── Details ──", "Some detail"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
