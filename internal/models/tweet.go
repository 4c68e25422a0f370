package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tweet is a short text post on a user's channel.
type Tweet struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`

	OwnerID string `gorm:"not null;index" json:"ownerId"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Tweet) TableName() string {
	return "tweets"
}

func (t *Tweet) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
