package utils

import (
	"math"
	"strings"
	"testing"
)

type polarity struct {
	Polarity float64 `json:"polarity"`
}

func TestDecodeLenient(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		strategy string
		want     float64
	}{
		{"plain JSON", `{"polarity": 0.5}`, StrategyJSON, 0.5},
		{"code fence", "```json\n{\"polarity\": -0.25}\n```", StrategyJSON, -0.25},
		{"single quotes", `{'polarity': 0.75}`, StrategyRepair, 0.75},
		{"trailing comma", `{"polarity": 0.1,}`, StrategyRepair, 0.1},
		{"unclosed object", `{"polarity": -1`, StrategyRepair, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var p polarity
			strategy, err := DecodeLenient(tc.input, &p)
			if err != nil {
				t.Fatalf("DecodeLenient failed: %v", err)
			}
			// repaired numbers may carry float32 rounding
			if math.Abs(p.Polarity-tc.want) > 1e-6 {
				t.Errorf("expected polarity %v, got %v", tc.want, p.Polarity)
			}
			if tc.strategy == StrategyJSON && strategy != StrategyJSON {
				t.Errorf("expected plain JSON strategy, got %s", strategy)
			}
			if tc.strategy != StrategyJSON && strategy == StrategyJSON {
				t.Errorf("expected a lenient strategy, got %s", strategy)
			}
		})
	}
}

func TestDecodeLenient_Empty(t *testing.T) {
	var p polarity
	if _, err := DecodeLenient("   ", &p); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestStripCodeFence(t *testing.T) {
	if got := StripCodeFence("```\n[1,2]\n```"); got != "[1,2]" {
		t.Errorf("expected [1,2], got %q", got)
	}
	if got := StripCodeFence(" {\"a\":1} "); got != `{"a":1}` {
		t.Errorf("expected untouched object, got %q", got)
	}
}

func TestHTMLToText(t *testing.T) {
	got := HTMLToText(`<p>Apple <b>beats</b> estimates</p><script>x()</script>  &amp; more`)
	if got != "Apple beats estimates & more" {
		t.Errorf("unexpected text %q", got)
	}
	if got := HTMLToText("  plain   text "); got != "plain text" {
		t.Errorf("expected collapsed plain text, got %q", got)
	}
}

func TestMarkdownToHTML(t *testing.T) {
	html, err := MarkdownToHTML("# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<h1>Title</h1>") {
		t.Errorf("expected heading, got %s", html)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("expected table, got %s", html)
	}
}
