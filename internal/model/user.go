package model

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"sampleapp/internal/auth"
)

// Field limits shared by validation and the schema.
const (
	NameMaxLength     = 50
	EmailMaxLength    = 255
	PasswordMinLength = 6
	// bcrypt ignores input past 72 bytes
	PasswordMaxLength = 72
)

// DigestKind names a hashed secret stored on a User.
type DigestKind string

// DigestRemember is the digest behind the remember-me cookie.
const DigestRemember DigestKind = "remember"

// User represents a registered member of the site.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"size:50;not null"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordDigest string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	RememberDigest *string   `json:"-" gorm:"size:255"`
	Admin          bool      `json:"admin" gorm:"not null;default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Microposts []Micropost `json:"-" gorm:"foreignKey:UserID"`
}

// NormalizeEmail trims and lower-cases an address so uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BeforeSave stores the email lower-cased.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// Authenticate reports whether password matches the stored digest. It is
// false when no password has been set.
func (u *User) Authenticate(password string) bool {
	return auth.Matches(u.PasswordDigest, password)
}

// Authenticated reports whether token matches the digest of the given kind.
// A missing digest is never compared against.
func (u *User) Authenticated(kind DigestKind, token string) bool {
	digest := u.digest(kind)
	if digest == "" {
		return false
	}
	return auth.Matches(digest, token)
}

func (u *User) digest(kind DigestKind) string {
	switch kind {
	case DigestRemember:
		if u.RememberDigest != nil {
			return *u.RememberDigest
		}
	}
	return ""
}
