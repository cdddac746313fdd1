package models

import "time"

// GameSession is one completed game play. Rows are written once and never updated.
type GameSession struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index:idx_game_sessions_user_completed,priority:1;not null" json:"user_id"`
	GameTitle   string    `gorm:"size:128;not null" json:"game_title"`
	Score       int       `json:"score"`
	Duration    int       `json:"duration"` // seconds
	MoodBefore  *int      `json:"mood_before"`
	MoodAfter   *int      `json:"mood_after"`
	CompletedAt time.Time `gorm:"index:idx_game_sessions_user_completed,priority:2;not null" json:"completed_at"`
}

func (GameSession) TableName() string {
	return "game_sessions"
}
