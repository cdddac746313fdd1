package services

import (
	"math"
	"strings"
	"time"

	"github.com/hexpertify/moodlift/models"
	"github.com/hexpertify/moodlift/utils"
)

const (
	streakScanDays = 365
	heatmapDays    = 365
)

var weekDays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayActivity is one weekday bucket of the weekly chart.
type DayActivity struct {
	Day   string `json:"day"`
	Games int    `json:"games"`
	Mood  int    `json:"mood"`
}

// Achievement is one badge and whether the user has earned it.
type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
}

// UserProgress is the dashboard summary. It is derived on every request and never stored.
type UserProgress struct {
	TotalGames       int           `json:"total_games"`
	TotalAssessments int           `json:"total_assessments"`
	AvgMood          float64       `json:"avg_mood"`
	CurrentStreak    int           `json:"current_streak"`
	WeeklyActivity   []DayActivity `json:"weekly_activity"`
	Achievements     []Achievement `json:"achievements"`
}

// HeatmapEntry is the number of sessions completed on one UTC calendar day.
type HeatmapEntry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AggregateProgress computes the summary from a user's full history.
func AggregateProgress(sessions []models.GameSession, assessments []models.AssessmentResult, now time.Time, loc *time.Location) UserProgress {
	if loc == nil {
		loc = time.UTC
	}
	streak := ActivityStreak(sessions, now, loc)
	return UserProgress{
		TotalGames:       len(sessions),
		TotalAssessments: len(assessments),
		AvgMood:          AverageMood(sessions),
		CurrentStreak:    streak,
		WeeklyActivity:   WeeklyActivity(sessions, now, loc),
		Achievements:     Achievements(sessions, streak),
	}
}

// AverageMood is the mean post-game mood rounded to one decimal. Missing and zero moods are ignored.
func AverageMood(sessions []models.GameSession) float64 {
	sum, n := 0, 0
	for _, s := range sessions {
		if s.MoodAfter != nil && *s.MoodAfter != 0 {
			sum += *s.MoodAfter
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

// WeeklyActivity buckets sessions from the last seven days by weekday, Monday first.
func WeeklyActivity(sessions []models.GameSession, now time.Time, loc *time.Location) []DayActivity {
	since := now.Add(-7 * 24 * time.Hour)
	var games [7]int
	var moodSum, moodCount [7]int

	for _, s := range sessions {
		if s.CompletedAt.Before(since) {
			continue
		}
		// time.Weekday starts on Sunday
		idx := (int(s.CompletedAt.In(loc).Weekday()) + 6) % 7
		games[idx]++
		if s.MoodAfter != nil && *s.MoodAfter != 0 {
			moodSum[idx] += *s.MoodAfter
			moodCount[idx]++
		}
	}

	out := make([]DayActivity, len(weekDays))
	for i, day := range weekDays {
		out[i] = DayActivity{Day: day, Games: games[i]}
		if moodCount[i] > 0 {
			out[i].Mood = int(math.Round(float64(moodSum[i]) / float64(moodCount[i])))
		}
	}
	return out
}

// ActivityStreak counts consecutive days with a session, walking back from today.
// Today without a session does not break the streak; the first empty earlier day does.
func ActivityStreak(sessions []models.GameSession, now time.Time, loc *time.Location) int {
	if len(sessions) == 0 {
		return 0
	}
	days := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		days[s.CompletedAt.In(loc).Format(utils.DateLayout)] = struct{}{}
	}

	local := now.In(loc)
	streak := 0
	for i := 0; i < streakScanDays; i++ {
		day := time.Date(local.Year(), local.Month(), local.Day()-i, 0, 0, 0, 0, loc).Format(utils.DateLayout)
		if _, ok := days[day]; ok {
			streak++
		} else if i > 0 {
			break
		}
	}
	return streak
}

// Achievements evaluates the fixed badge catalogue in display order.
func Achievements(sessions []models.GameSession, streak int) []Achievement {
	var gratitude, breath, perfect int
	titles := make(map[string]struct{})
	for _, s := range sessions {
		if s.GameTitle == "Gratitude Garden" {
			gratitude++
		}
		if strings.Contains(s.GameTitle, "Breath") {
			breath++
		}
		if s.Score == 100 {
			perfect++
		}
		titles[s.GameTitle] = struct{}{}
	}

	return []Achievement{
		{Title: "First Steps", Description: "Completed your first game", Earned: len(sessions) >= 1},
		{Title: "Week Warrior", Description: "7-day streak achieved", Earned: streak >= 7},
		{Title: "Gratitude Guru", Description: "Planted 50 gratitude flowers", Earned: gratitude >= 50},
		{Title: "Breath Master", Description: "Completed 100 breathing cycles", Earned: breath >= 100},
		{Title: "Mindful Maven", Description: "Finished all mindfulness activities", Earned: len(titles) >= 7},
		{Title: "Affirmation Ace", Description: "Perfect score in 10 games", Earned: perfect >= 10},
	}
}

// HeatmapStart is midnight UTC of the first day covered by the heatmap ending on now.
func HeatmapStart(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), u.Day()-(heatmapDays-1), 0, 0, 0, 0, time.UTC)
}

// BuildHeatmap returns one zero-filled entry per UTC day in the window ending today,
// oldest first, with completion times counted onto their day. Times outside the window are ignored.
func BuildHeatmap(completions []time.Time, now time.Time) []HeatmapEntry {
	start := HeatmapStart(now)
	out := make([]HeatmapEntry, heatmapDays)
	index := make(map[string]int, heatmapDays)
	for i := range out {
		key := start.AddDate(0, 0, i).Format(utils.DateLayout)
		out[i] = HeatmapEntry{Date: key}
		index[key] = i
	}
	for _, c := range completions {
		if i, ok := index[c.UTC().Format(utils.DateLayout)]; ok {
			out[i].Count++
		}
	}
	return out
}
