package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&GameSession{},
		&AssessmentResult{},
		&UserStreak{},
		&UserActivity{},
		&Consultant{},
		&SeoMetadata{},
		&Game{},
	}
}
