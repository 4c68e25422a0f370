package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a comment on a video.
type Comment struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`

	VideoID string `gorm:"not null;index" json:"videoId"`
	Video   *Video `gorm:"foreignKey:VideoID" json:"video,omitempty"`

	OwnerID string `gorm:"not null;index" json:"ownerId"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
