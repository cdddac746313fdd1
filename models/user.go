package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account created on first OAuth sign-in. Identities are keyed by provider + provider id.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Username   string         `gorm:"size:64;not null" json:"username"`
	Email      string         `gorm:"size:255" json:"email"`
	Provider   string         `gorm:"size:32;uniqueIndex:idx_users_provider_identity" json:"provider"`
	ProviderID string         `gorm:"size:255;uniqueIndex:idx_users_provider_identity" json:"provider_id"`
	AvatarURL  string         `gorm:"size:512" json:"avatar_url"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
