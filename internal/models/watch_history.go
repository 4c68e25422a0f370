package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WatchHistory records that a user watched a video. One row per (user,
// video); WatchedAt moves forward on rewatch.
type WatchHistory struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID  string `gorm:"not null;uniqueIndex:idx_watch_history_pair;index" json:"userId"`
	VideoID string `gorm:"not null;uniqueIndex:idx_watch_history_pair" json:"videoId"`
	Video   *Video `gorm:"foreignKey:VideoID" json:"video,omitempty"`

	WatchedAt time.Time `gorm:"index" json:"watchedAt"`
}

func (WatchHistory) TableName() string {
	return "watch_history"
}

func (w *WatchHistory) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}
