package model

import "time"

// MicropostMaxLength caps micropost content.
const MicropostMaxLength = 140

// Micropost is a short status update owned by exactly one User.
type Micropost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content" gorm:"size:140;not null"`
	UserID    uint      `json:"user_id" gorm:"not null;index:idx_microposts_user_created,priority:1"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_microposts_user_created,priority:2"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
