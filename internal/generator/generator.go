// Package generator builds practice paragraphs.
package generator

import (
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/typemaster/internal/model"
)

// Generator produces randomized practice text from a word pool.
type Generator struct {
	rnd  *rand.Rand
	pool []string
}

// New returns a Generator over pool seeded with the current time.
// An empty pool falls back to DefaultPool.
func New(pool []string) *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()), pool)
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source, pool []string) *Generator {
	if len(pool) == 0 {
		pool = DefaultPool
	}
	return &Generator{rnd: rand.New(src), pool: pool}
}

// Generate builds lineCount sentences of minWords..maxWords words each,
// joined with newlines.
func (g *Generator) Generate(lineCount, minWords, maxWords int) string {
	if lineCount < 1 {
		lineCount = 1
	}
	if minWords < 1 {
		minWords = 1
	}
	if maxWords < minWords {
		maxWords = minWords
	}
	lines := make([]string, 0, lineCount)
	for i := 0; i < lineCount; i++ {
		count := minWords + g.rnd.Intn(maxWords-minWords+1)
		parts := make([]string, 0, count)
		for j := 0; j < count; j++ {
			parts = append(parts, g.pool[g.rnd.Intn(len(g.pool))])
		}
		lines = append(lines, capitalize(strings.Join(parts, " "))+".")
	}
	return strings.Join(lines, "\n")
}

// Paragraph generates text shaped by the preset of mode.
// Unknown modes use the easy preset.
func (g *Generator) Paragraph(mode model.Mode) string {
	preset, ok := model.PresetFor(mode)
	if !ok {
		preset, _ = model.PresetFor(model.ModeEasy)
	}
	lines := preset.MinLines
	if preset.MaxLines > preset.MinLines {
		lines += g.rnd.Intn(preset.MaxLines - preset.MinLines + 1)
	}
	text := g.Generate(lines, preset.MinWords, preset.MaxWords)
	if preset.Flatten {
		text = strings.ReplaceAll(text, "\n", " ")
	}
	return text
}

// Words splits text on whitespace, dropping empty entries.
func Words(text string) []string {
	return strings.Fields(text)
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
