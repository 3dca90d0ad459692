package domain

import "fmt"

// Level is the severity of a finding, a check result or a whole report.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelNotice  Level = "notice"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelFatal   Level = "fatal"
)

// Levels returns all levels ordered by ascending severity.
func Levels() []Level {
	return []Level{LevelSuccess, LevelInfo, LevelNotice, LevelWarning, LevelError, LevelFatal}
}

// Rank returns the numeric severity of a level. Every stored severity column
// must hold exactly this value for its level.
func (l Level) Rank() int {
	switch l {
	case LevelSuccess:
		return 0
	case LevelInfo:
		return 10
	case LevelNotice:
		return 20
	case LevelWarning:
		return 30
	case LevelError:
		return 40
	case LevelFatal:
		return 50
	default:
		return 0
	}
}

func (l Level) Valid() bool {
	switch l {
	case LevelSuccess, LevelInfo, LevelNotice, LevelWarning, LevelError, LevelFatal:
		return true
	}
	return false
}

func (l Level) String() string {
	return string(l)
}

func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown severity level: %q", s)
	}
	return l, nil
}

// MaxLevel returns the more severe of two levels.
func MaxLevel(a, b Level) Level {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
