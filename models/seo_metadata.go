package models

import "time"

// SeoMetadata drives per-page meta tags and dynamic sitemap entries.
// Priority and ChangeFrequency are optional sitemap overrides.
type SeoMetadata struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PageURL         string    `gorm:"size:255;index" json:"page_url"`
	Title           string    `gorm:"size:255" json:"title"`
	Description     string    `gorm:"size:512" json:"description"`
	Keywords        string    `gorm:"size:512" json:"keywords"`
	StructuredData  string    `gorm:"type:text" json:"structured_data"`
	GameID          *uint     `gorm:"uniqueIndex:idx_seo_metadata_game_id" json:"game_id"`
	Priority        *float64  `json:"priority"`
	ChangeFrequency string    `gorm:"size:16" json:"change_frequency"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (SeoMetadata) TableName() string {
	return "seo_metadata"
}
