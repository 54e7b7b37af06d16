package generator

import (
	"math/rand"
	"strings"
	"testing"
	"unicode"

	"github.com/verte-zerg/typemaster/internal/model"
)

func TestGenerateShape(t *testing.T) {
	g := NewWithSource(rand.NewSource(1), []string{"alpha", "beta", "gamma"})
	text := g.Generate(4, 2, 5)
	lines := strings.Split(text, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), text)
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, ".") {
			t.Fatalf("expected line to end with a period: %q", line)
		}
		if !unicode.IsUpper([]rune(line)[0]) {
			t.Fatalf("expected capitalized line: %q", line)
		}
		n := len(strings.Fields(line))
		if n < 2 || n > 5 {
			t.Fatalf("expected 2..5 words, got %d in %q", n, line)
		}
	}
}

func TestGenerateUsesPool(t *testing.T) {
	pool := []string{"one", "two"}
	g := NewWithSource(rand.NewSource(7), pool)
	for _, word := range Words(g.Generate(10, 3, 3)) {
		word = strings.ToLower(strings.TrimSuffix(word, "."))
		if word != "one" && word != "two" {
			t.Fatalf("unexpected word %q", word)
		}
	}
}

func TestGenerateClampsArguments(t *testing.T) {
	g := NewWithSource(rand.NewSource(3), []string{"word"})
	text := g.Generate(0, 0, -1)
	if text != "Word." {
		t.Fatalf("expected single clamped sentence, got %q", text)
	}
}

func TestParagraphPresets(t *testing.T) {
	g := NewWithSource(rand.NewSource(42), nil)
	tests := []struct {
		mode     model.Mode
		minLines int
		maxLines int
		minWords int
		maxWords int
	}{
		{model.ModeModerate, 15, 15, 6, 12},
		{model.ModeAdvanced, 20, 25, 8, 14},
	}
	for _, tt := range tests {
		for i := 0; i < 20; i++ {
			lines := strings.Split(g.Paragraph(tt.mode), "\n")
			if len(lines) < tt.minLines || len(lines) > tt.maxLines {
				t.Fatalf("%s: expected %d..%d lines, got %d", tt.mode, tt.minLines, tt.maxLines, len(lines))
			}
			for _, line := range lines {
				n := len(strings.Fields(line))
				if n < tt.minWords || n > tt.maxWords {
					t.Fatalf("%s: expected %d..%d words, got %d", tt.mode, tt.minWords, tt.maxWords, n)
				}
			}
		}
	}
}

func TestParagraphEasyIsFlat(t *testing.T) {
	g := NewWithSource(rand.NewSource(5), nil)
	text := g.Paragraph(model.ModeEasy)
	if strings.Contains(text, "\n") {
		t.Fatalf("expected easy paragraph on one line: %q", text)
	}
	n := len(Words(text))
	if n < 12 || n > 24 {
		t.Fatalf("expected 12..24 words, got %d", n)
	}
	if strings.Count(text, ".") != 3 {
		t.Fatalf("expected 3 sentences: %q", text)
	}
}

func TestWordsCollapsesWhitespace(t *testing.T) {
	got := Words("  The quick\n\nbrown \t fox. ")
	want := []string{"The", "quick", "brown", "fox."}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %q at %d, got %q", want[i], i, got[i])
		}
	}
}
