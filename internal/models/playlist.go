package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Playlist is a user-owned collection of videos.
type Playlist struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	OwnerID string `gorm:"not null;index" json:"ownerId"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	Videos []PlaylistVideo `gorm:"foreignKey:PlaylistID" json:"videos,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Playlist) TableName() string {
	return "playlists"
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// PlaylistVideo is the playlist membership row. The unique (playlist_id,
// video_id) index makes membership insert a single atomic add-if-absent
// instead of a read-modify-write on an embedded array.
type PlaylistVideo struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	PlaylistID string    `gorm:"not null;uniqueIndex:idx_playlist_videos_pair" json:"playlistId"`
	VideoID    string    `gorm:"not null;uniqueIndex:idx_playlist_videos_pair" json:"videoId"`
	Video      *Video    `gorm:"foreignKey:VideoID" json:"video,omitempty"`
	AddedAt    time.Time `gorm:"autoCreateTime" json:"addedAt"`
}

func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}

func (pv *PlaylistVideo) BeforeCreate(tx *gorm.DB) error {
	if pv.ID == "" {
		pv.ID = uuid.New().String()
	}
	return nil
}
