package models

import "time"

// Consultant is a bookable practitioner shown on the landing carousel.
type Consultant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FullName   string    `gorm:"size:128" json:"full_name"`
	Title      string    `gorm:"size:128" json:"title"`
	PictureURL string    `gorm:"size:512" json:"picture_url"`
	BookingURL string    `gorm:"size:512" json:"booking_url"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (Consultant) TableName() string {
	return "consultants"
}
