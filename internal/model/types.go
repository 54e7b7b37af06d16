// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Mode is a difficulty preset.
type Mode string

// Supported modes.
const (
	ModeEasy     Mode = "easy"
	ModeModerate Mode = "moderate"
	ModeAdvanced Mode = "advanced"
)

// Modes lists the modes in menu order.
var Modes = []Mode{ModeEasy, ModeModerate, ModeAdvanced}

// ParseMode maps a user-supplied name to a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", &ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", s)}
}

// Title returns the capitalized display name.
func (m Mode) Title() string {
	switch m {
	case ModeEasy:
		return "Easy"
	case ModeModerate:
		return "Moderate"
	case ModeAdvanced:
		return "Advanced"
	default:
		return string(m)
	}
}

// Preset controls paragraph shape for a mode.
type Preset struct {
	MinLines int
	MaxLines int
	MinWords int
	MaxWords int
	// Flatten joins lines with spaces instead of newlines.
	Flatten bool
}

// PresetFor returns the paragraph preset for a mode.
func PresetFor(m Mode) (Preset, bool) {
	switch m {
	case ModeEasy:
		return Preset{MinLines: 3, MaxLines: 3, MinWords: 4, MaxWords: 8, Flatten: true}, true
	case ModeModerate:
		return Preset{MinLines: 15, MaxLines: 15, MinWords: 6, MaxWords: 12}, true
	case ModeAdvanced:
		return Preset{MinLines: 20, MaxLines: 25, MinWords: 8, MaxWords: 14}, true
	default:
		return Preset{}, false
	}
}

// Durations maps each mode to its session length in seconds.
type Durations struct {
	Easy     int `validate:"gte=1"`
	Moderate int `validate:"gte=1"`
	Advanced int `validate:"gte=1"`
}

// DefaultDurations returns the stock duration table.
func DefaultDurations() Durations {
	return Durations{Easy: 60, Moderate: 180, Advanced: 300}
}

// For returns the duration for a mode, or 0 for unknown modes.
func (d Durations) For(m Mode) int {
	switch m {
	case ModeEasy:
		return d.Easy
	case ModeModerate:
		return d.Moderate
	case ModeAdvanced:
		return d.Advanced
	default:
		return 0
	}
}

// Config defines game settings after config, env and flag resolution.
type Config struct {
	DBPath      string `validate:"required"`
	WordPool    string
	ASCIIOnly   bool
	AwardOnStop bool
	LogLevel    string `validate:"oneof=debug info warn error"`
	Durations   Durations
}

// Account is a registered player.
type Account struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	TotalPoints int    `json:"totalPoints"`
}

// EndReason records why a session ended.
type EndReason string

// End reasons.
const (
	EndTimeout EndReason = "timeout"
	EndStop    EndReason = "stop"
	EndLogout  EndReason = "logout"
)

// SessionRecord is a persisted summary of an ended session.
type SessionRecord struct {
	ID              string
	Username        string
	Mode            Mode
	Points          int
	Typed           int
	DurationSeconds int
	ElapsedSeconds  int
	Reason          EndReason
	Awarded         bool
	EndedAt         time.Time
}

// HistoryFilter narrows session history queries.
type HistoryFilter struct {
	Username string
	Mode     Mode
	Last     int
}
