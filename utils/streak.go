package utils

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format stored in streak and activity rows.
const DateLayout = "2006-01-02"

// StreakData is the persisted view of a user's streak.
type StreakData struct {
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	LastLoginDate string `json:"last_login_date"`
}

// StreakUpdateResult is the outcome of a daily check-in.
type StreakUpdateResult struct {
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	IsNewStreak   bool `json:"is_new_streak"`
	StreakBroken  bool `json:"streak_broken"`
}

// Today returns the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// DaysBetween returns the number of calendar days from one date to another.
// It is negative when to is before from.
func DaysBetween(from, to string) (int, error) {
	a, err := ParseDate(from)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", from, err)
	}
	b, err := ParseDate(to)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", to, err)
	}
	// Both are UTC midnights so the difference is an exact multiple of 24h
	return int(b.Sub(a).Hours() / 24), nil
}

// IsConsecutiveDay reports whether last is exactly the day before today.
func IsConsecutiveDay(last, today string) bool {
	d, err := DaysBetween(last, today)
	return err == nil && d == 1
}

// NewStreakRecord is the result for a user's first ever check-in.
func NewStreakRecord() StreakUpdateResult {
	return StreakUpdateResult{CurrentStreak: 1, LongestStreak: 1, IsNewStreak: true}
}

// CalculateStreakUpdate applies one check-in on today to an existing streak.
// A lastLogin on or after today, or one that cannot be parsed, leaves the streak unchanged.
func CalculateStreakUpdate(current, longest int, lastLogin, today string) StreakUpdateResult {
	if current < 0 {
		current = 0
	}
	if longest < current {
		longest = current
	}
	unchanged := StreakUpdateResult{CurrentStreak: current, LongestStreak: longest}

	gap, err := DaysBetween(lastLogin, today)
	if err != nil || gap <= 0 {
		return unchanged
	}
	if gap == 1 {
		next := current + 1
		return StreakUpdateResult{CurrentStreak: next, LongestStreak: max(longest, next)}
	}
	return StreakUpdateResult{
		CurrentStreak: 1,
		LongestStreak: max(longest, 1),
		IsNewStreak:   true,
		StreakBroken:  true,
	}
}
