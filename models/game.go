package models

import "time"

// Game is an entry in the activity catalogue.
type Game struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Slug        string    `gorm:"size:128;uniqueIndex" json:"slug"`
	Description string    `gorm:"size:512" json:"description"`
	IsPopular   bool      `gorm:"not null;default:false;index:idx_games_is_popular" json:"is_popular"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Game) TableName() string {
	return "games"
}
