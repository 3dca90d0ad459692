package domain

// LevelCounts is a per-level tally of findings, check results or reports.
type LevelCounts struct {
	Success int `json:"success"`
	Info    int `json:"info"`
	Notice  int `json:"notice"`
	Warning int `json:"warning"`
	Error   int `json:"error"`
	Fatal   int `json:"fatal"`
}

func (c *LevelCounts) Add(l Level) {
	switch l {
	case LevelSuccess:
		c.Success++
	case LevelInfo:
		c.Info++
	case LevelNotice:
		c.Notice++
	case LevelWarning:
		c.Warning++
	case LevelError:
		c.Error++
	case LevelFatal:
		c.Fatal++
	}
}

func (c LevelCounts) Get(l Level) int {
	switch l {
	case LevelSuccess:
		return c.Success
	case LevelInfo:
		return c.Info
	case LevelNotice:
		return c.Notice
	case LevelWarning:
		return c.Warning
	case LevelError:
		return c.Error
	case LevelFatal:
		return c.Fatal
	default:
		return 0
	}
}

func (c LevelCounts) Total() int {
	return c.Success + c.Info + c.Notice + c.Warning + c.Error + c.Fatal
}

// AtOrAbove returns the number of entries counted at min severity or higher.
func (c LevelCounts) AtOrAbove(min Level) int {
	total := 0
	for _, l := range Levels() {
		if l.Rank() >= min.Rank() {
			total += c.Get(l)
		}
	}
	return total
}

func CountsFromMap(m map[Level]int) LevelCounts {
	return LevelCounts{
		Success: m[LevelSuccess],
		Info:    m[LevelInfo],
		Notice:  m[LevelNotice],
		Warning: m[LevelWarning],
		Error:   m[LevelError],
		Fatal:   m[LevelFatal],
	}
}
