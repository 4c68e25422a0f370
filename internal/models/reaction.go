package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TargetKind enumerates the entity kinds a reaction can point at.
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
	TargetChannel TargetKind = "channel"
)

// Valid reports whether k is a known target kind.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetVideo, TargetComment, TargetTweet, TargetChannel:
		return true
	}
	return false
}

// Reaction is a like or subscription relation between an actor and a target
// entity. Presence of the row IS the liked/subscribed state. The unique
// index on (actor_id, target_kind, target_id) enforces at most one row per
// tuple at the store level, so a toggle race cannot produce duplicates.
type Reaction struct {
	ID         string     `gorm:"primaryKey;type:uuid" json:"id"`
	ActorID    string     `gorm:"not null;uniqueIndex:idx_reactions_tuple;index" json:"actorId"`
	TargetKind TargetKind `gorm:"not null;uniqueIndex:idx_reactions_tuple" json:"targetKind"`
	TargetID   string     `gorm:"not null;uniqueIndex:idx_reactions_tuple;index" json:"targetId"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Reaction) TableName() string {
	return "reactions"
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
