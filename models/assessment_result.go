package models

import "time"

// AssessmentResult stores the outcome of a mood assessment.
type AssessmentResult struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Score       int       `json:"score"`
	Insights    string    `gorm:"type:text" json:"insights"`
	CompletedAt time.Time `gorm:"index;not null" json:"completed_at"`
}

func (AssessmentResult) TableName() string {
	return "assessment_results"
}
