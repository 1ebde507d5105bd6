package domain

import "strings"

// Level enumerates risk tiers for a classified command.
type Level string

const (
	LevelSafe      Level = "safe"
	LevelModerate  Level = "moderate"
	LevelDangerous Level = "dangerous"
)

// ParseLevel maps a raw string onto a Level.
func ParseLevel(value string) (Level, bool) {
	switch Level(strings.ToLower(strings.TrimSpace(value))) {
	case LevelSafe:
		return LevelSafe, true
	case LevelModerate:
		return LevelModerate, true
	case LevelDangerous:
		return LevelDangerous, true
	default:
		return "", false
	}
}

// Valid reports whether the level is one of the three known tiers.
func (l Level) Valid() bool {
	_, ok := ParseLevel(string(l))
	return ok
}

// Verdict is the structured result of classifying a single command.
// A Verdict is immutable once constructed.
type Verdict struct {
	Level           Level  `json:"level"`
	Reason          string `json:"reason"`
	SuggestedAction string `json:"suggestedAction,omitempty"`
	Consequences    string `json:"consequences,omitempty"`
}

// Source identifies which path of the pipeline produced a verdict.
type Source string

const (
	SourceCache Source = "cache"
	SourceAI    Source = "ai"
	SourceRules Source = "rules"
)
