package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account. Every user doubles as a channel that other
// users can subscribe to.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Fullname string `gorm:"not null" json:"fullname"`

	Avatar     string `json:"avatar"`
	CoverImage string `json:"coverImage"`

	// Never serialized
	PasswordHash string `gorm:"not null" json:"-"`
	RefreshToken string `json:"-"`

	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key when one was not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// PublicProfile is the reduced owner shape embedded in list responses.
type PublicProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Avatar   string `json:"avatar"`
}

// Public returns the user's public profile fields.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Username: u.Username,
		Fullname: u.Fullname,
		Avatar:   u.Avatar,
	}
}
