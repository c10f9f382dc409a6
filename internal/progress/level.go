package progress

import "math"

// LevelProgress is the read-only projection for the level progress bar.
type LevelProgress struct {
	Level int `json:"level"`
	// CurrentXP is XP earned within the current level.
	CurrentXP int `json:"current_xp"`
	// XPForNextLevel is the XP span of the current level.
	XPForNextLevel int `json:"xp_for_next_level"`
	Progress       int `json:"progress"` // percent, 0-100
}

// GetLevel projects the stored XP onto the current level's progress bar.
// Pure read, no side effects.
func (l *Ledger) GetLevel() LevelProgress {
	floor := XPForLevel(l.Level)
	ceil := XPForLevel(l.Level + 1)
	span := ceil - floor
	within := l.TotalXP - floor
	return LevelProgress{
		Level:          l.Level,
		CurrentXP:      within,
		XPForNextLevel: span,
		Progress:       int(math.Round(float64(within) / float64(span) * 100)),
	}
}

// LevelInfo pairs a level with its display title.
type LevelInfo struct {
	Level int    `json:"level"`
	Title string `json:"title"`
}

// LevelInfoForXP derives the level tier and title for an XP total.
func LevelInfoForXP(xp int) LevelInfo {
	level := CalculateLevel(xp)
	return LevelInfo{Level: level, Title: levelTitle(level)}
}

func levelTitle(level int) string {
	switch {
	case level >= 50:
		return "Grand Master"
	case level >= 40:
		return "Expert"
	case level >= 30:
		return "Advanced"
	case level >= 20:
		return "Proficient"
	case level >= 15:
		return "Intermediate"
	case level >= 10:
		return "Apprentice"
	case level >= 5:
		return "Beginner"
	default:
		return "Novice"
	}
}
