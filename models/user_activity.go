package models

import "time"

// Activity types recorded in the rewards log.
const (
	ActivityDailyLogin = "daily_login"
	ActivityGame       = "game"
)

// UserActivity is one entry in the gamified activity log.
type UserActivity struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index:idx_user_activities_lookup,priority:1;not null" json:"user_id"`
	ActivityType string    `gorm:"size:32;index:idx_user_activities_lookup,priority:2;not null" json:"activity_type"`
	Description  string    `gorm:"size:255" json:"description"`
	Points       int       `gorm:"default:0" json:"points"`
	ActivityDate string    `gorm:"size:10;index:idx_user_activities_lookup,priority:3;not null" json:"activity_date"`
	CreatedAt    time.Time `json:"created_at"`
}

func (UserActivity) TableName() string {
	return "user_activities"
}
