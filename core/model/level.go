package model

import "fmt"

// Level is the severity of a log entry. Values match syslog severities so
// they can be forwarded to GELF collectors unchanged.
type Level int

const (
	LevelEmergency Level = iota
	LevelAlert
	LevelCritical
	LevelError
	LevelWarning
	LevelNotice
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{
	LevelEmergency: "emergency",
	LevelAlert:     "alert",
	LevelCritical:  "critical",
	LevelError:     "error",
	LevelWarning:   "warning",
	LevelNotice:    "notice",
	LevelInfo:      "info",
	LevelDebug:     "debug",
}

// String returns the lowercase level name.
func (l Level) String() string {
	if !l.Valid() {
		return "unknown"
	}
	return levelNames[l]
}

// Valid reports whether l is one of the eight known levels.
func (l Level) Valid() bool {
	return l >= LevelEmergency && l <= LevelDebug
}

// IsErrorStream reports whether console output for l belongs on stderr.
func (l Level) IsErrorStream() bool {
	switch l {
	case LevelEmergency, LevelAlert, LevelCritical, LevelError:
		return true
	default:
		return false
	}
}

// Levels returns every level ordered from most to least severe.
func Levels() []Level {
	out := make([]Level, 0, len(levelNames))
	for l := range levelNames {
		out = append(out, Level(l))
	}
	return out
}

// ParseLevel maps a level name back to its Level.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}
	return 0, fmt.Errorf("unknown level %q", s)
}
