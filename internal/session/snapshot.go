package session

import (
	"github.com/verte-zerg/typemaster/internal/countdown"
	"github.com/verte-zerg/typemaster/internal/model"
)

// Snapshot is an immutable copy of the machine state.
type Snapshot struct {
	Mode        model.Mode
	Paragraph   string
	TargetWords []string
	TypedWords  []string
	Cursor      int
	Input       string
	Duration    int
	TimeLeft    int
	Active      bool
	Paused      bool
	Editing     bool
	EditBuffer  string
	Points      int

	// Ticking reports that a tick scheduled under TickToken would apply.
	Ticking   bool
	TickToken countdown.Token

	// Result of the most recent ended session, if any.
	Result *Result
}

// CurrentTarget returns the word expected at the cursor, or "".
func (s Snapshot) CurrentTarget() string {
	if s.Cursor < len(s.TargetWords) {
		return s.TargetWords[s.Cursor]
	}
	return ""
}

// WordCorrect reports whether the typed word at i matches its target.
func (s Snapshot) WordCorrect(i int) bool {
	if i < 0 || i >= len(s.TypedWords) {
		return false
	}
	if i >= len(s.TargetWords) {
		return false
	}
	return s.TypedWords[i] == s.TargetWords[i]
}
