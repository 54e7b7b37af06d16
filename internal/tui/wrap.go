package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typemaster/internal/session"
)

type styledWord struct {
	s     string
	width int
}

// paragraphWords styles the paragraph one source line at a time. Words
// carry their global target index so line breaks in the paragraph are kept
// while scoring follows the flat word sequence.
func paragraphWords(snap session.Snapshot) [][]styledWord {
	lines := strings.Split(snap.Paragraph, "\n")
	out := make([][]styledWord, 0, len(lines))
	idx := 0
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		row := make([]styledWord, 0, len(fields))
		for _, word := range fields {
			row = append(row, styledWord{
				s:     wordStyle(snap, idx).Render(word),
				width: runewidth.StringWidth(word),
			})
			idx++
		}
		out = append(out, row)
	}
	return out
}

func wordStyle(snap session.Snapshot, i int) lipgloss.Style {
	switch {
	case i < len(snap.TypedWords):
		if snap.WordCorrect(i) {
			return correctStyle
		}
		return incorrectStyle
	case i == snap.Cursor:
		if snap.Input != "" && !strings.HasPrefix(snap.TargetWords[i], snap.Input) {
			return wrongWordStyle
		}
		return currentWordStyle
	default:
		return pendingStyle
	}
}

// echoWords styles what the user has typed so far followed by the
// uncommitted input.
func echoWords(snap session.Snapshot) []styledWord {
	out := make([]styledWord, 0, len(snap.TypedWords)+1)
	for i, word := range snap.TypedWords {
		style := incorrectStyle
		if snap.WordCorrect(i) {
			style = correctStyle
		}
		out = append(out, styledWord{s: style.Render(word), width: runewidth.StringWidth(word)})
	}
	return out
}

// cursorLine returns the wrapped line index holding the word at cursor.
func cursorLine(lines [][]styledWord, width, cursor int) int {
	seen := 0
	row := 0
	for _, line := range lines {
		for _, wrapped := range wrapWords(line, width) {
			if cursor < seen+len(wrapped) {
				return row
			}
			seen += len(wrapped)
			row++
		}
	}
	if row > 0 {
		return row - 1
	}
	return 0
}

// wrapWords breaks words greedily into lines no wider than width. A word
// wider than width gets a line of its own.
func wrapWords(words []styledWord, width int) [][]styledWord {
	if len(words) == 0 {
		return nil
	}
	if width <= 0 {
		return [][]styledWord{words}
	}
	var out [][]styledWord
	line := make([]styledWord, 0, len(words))
	lineWidth := 0
	for _, w := range words {
		needed := w.width
		if len(line) > 0 {
			needed++
		}
		if lineWidth+needed > width && len(line) > 0 {
			out = append(out, line)
			line = make([]styledWord, 0, len(words))
			lineWidth = 0
			needed = w.width
		}
		line = append(line, w)
		lineWidth += needed
	}
	return append(out, line)
}

func renderLine(line []styledWord) string {
	var b strings.Builder
	for i, w := range line {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w.s)
	}
	return b.String()
}

func renderWrapped(lines [][]styledWord, width int) []string {
	var out []string
	for _, line := range lines {
		for _, wrapped := range wrapWords(line, width) {
			out = append(out, renderLine(wrapped))
		}
	}
	return out
}
