package models

import "time"

// UserStreak holds the daily login streak for a user. LastLoginDate is a YYYY-MM-DD calendar date.
type UserStreak struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CurrentStreak int       `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak int       `gorm:"not null;default:0" json:"longest_streak"`
	LastLoginDate string    `gorm:"size:10;not null" json:"last_login_date"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (UserStreak) TableName() string {
	return "user_streaks"
}
