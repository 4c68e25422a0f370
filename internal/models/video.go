package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video represents a published video with its media-host URLs.
type Video struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	VideoFile   string  `gorm:"not null" json:"videoFile"`
	Thumbnail   string  `json:"thumbnail"`
	Duration    float64 `json:"duration"`
	ViewCount   int64   `gorm:"default:0" json:"viewCount"`
	IsPublished bool    `gorm:"default:true" json:"isPublished"`

	OwnerID string `gorm:"not null;index" json:"ownerId"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Video) TableName() string {
	return "videos"
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}
