package reactions

import (
	"context"
	"fmt"
	"time"

	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/query"
	"github.com/cliptube/backend/internal/util"
	"gorm.io/gorm"
)

// opTimeout bounds each store operation.
const opTimeout = 5 * time.Second

// Outcome reports what a toggle did. Added carries the new reaction;
// Removed has no payload.
type Outcome struct {
	Added    bool             `json:"added"`
	Reaction *models.Reaction `json:"reaction,omitempty"`
}

// Store maintains the reaction set: at most one row per (actor, targetKind,
// targetId) tuple, enforced by the unique index on the reactions table.
type Store struct {
	db *gorm.DB
}

// NewStore creates a reaction store on the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Toggle removes the reaction for the tuple if it exists, otherwise inserts
// it. The delete is a single conditional statement, so two racing toggles
// cannot both observe "absent" and insert twice: the unique index rejects
// the loser, and we resolve that case to the surviving row.
func (s *Store) Toggle(ctx context.Context, actorID string, kind models.TargetKind, targetID string) (*Outcome, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown target kind %q", kind)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	db := s.db.WithContext(ctx)

	res := db.Where("actor_id = ? AND target_kind = ? AND target_id = ?",
		actorID, kind, targetID).Delete(&models.Reaction{})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to remove reaction: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return &Outcome{Added: false}, nil
	}

	reaction := models.Reaction{
		ActorID:    actorID,
		TargetKind: kind,
		TargetID:   targetID,
	}
	if err := db.Create(&reaction).Error; err != nil {
		if util.IsDuplicateKeyError(err) {
			// A concurrent toggle won the insert; the tuple is present,
			// which is the state this call asked for.
			var existing models.Reaction
			if ferr := db.Where("actor_id = ? AND target_kind = ? AND target_id = ?",
				actorID, kind, targetID).First(&existing).Error; ferr == nil {
				return &Outcome{Added: true, Reaction: &existing}, nil
			}
			return &Outcome{Added: true}, nil
		}
		return nil, fmt.Errorf("failed to create reaction: %w", err)
	}

	return &Outcome{Added: true, Reaction: &reaction}, nil
}

// Exists reports whether the tuple currently has a reaction.
func (s *Store) Exists(ctx context.Context, actorID string, kind models.TargetKind, targetID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("actor_id = ? AND target_kind = ? AND target_id = ?", actorID, kind, targetID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check reaction: %w", err)
	}
	return count > 0, nil
}

// CountForTarget returns how many actors reacted to the target.
func (s *Store) CountForTarget(ctx context.Context, kind models.TargetKind, targetID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count reactions: %w", err)
	}
	return count, nil
}

// LikedVideoRow is a liked video joined with its core display fields.
type LikedVideoRow struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	LikedAt     time.Time `json:"likedAt"`
}

// ListLikedVideos returns the videos an actor has liked, most recent like
// first.
func (s *Store) ListLikedVideos(ctx context.Context, actorID string, page query.PageRequest) (*query.Page[LikedVideoRow], error) {
	stages := []query.Stage{
		query.Match{Eq: map[string]interface{}{
			"reactions.actor_id":    actorID,
			"reactions.target_kind": models.TargetVideo,
		}},
		query.Lookup{From: "videos", LocalKey: "target_id", ForeignKey: "id", As: "video"},
		query.Unwind{Field: "video"},
		query.Project{Fields: map[string]string{
			"id":          "video.id",
			"title":       "video.title",
			"description": "video.description",
			"video_file":  "video.video_file",
			"thumbnail":   "video.thumbnail",
			"liked_at":    "reactions.created_at",
		}},
		query.Sort{Key: "reactions.created_at", Desc: true},
	}
	return query.Run[LikedVideoRow](ctx, s.db, "reactions", stages, page)
}

// ChannelRow is a subscribed channel or subscriber, reduced to public
// profile fields.
type ChannelRow struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Avatar   string `json:"avatar"`
}

// ListSubscribedChannels returns the channels an actor subscribes to.
func (s *Store) ListSubscribedChannels(ctx context.Context, actorID string, page query.PageRequest) (*query.Page[ChannelRow], error) {
	stages := []query.Stage{
		query.Match{Eq: map[string]interface{}{
			"reactions.actor_id":    actorID,
			"reactions.target_kind": models.TargetChannel,
		}},
		query.Lookup{From: "users", LocalKey: "target_id", ForeignKey: "id", As: "channel"},
		query.Unwind{Field: "channel"},
		query.Project{Fields: map[string]string{
			"id":       "channel.id",
			"username": "channel.username",
			"fullname": "channel.fullname",
			"avatar":   "channel.avatar",
		}},
		query.Sort{Key: "reactions.created_at", Desc: true},
	}
	return query.Run[ChannelRow](ctx, s.db, "reactions", stages, page)
}

// ListChannelSubscribers returns the users subscribed to a channel.
func (s *Store) ListChannelSubscribers(ctx context.Context, channelID string, page query.PageRequest) (*query.Page[ChannelRow], error) {
	stages := []query.Stage{
		query.Match{Eq: map[string]interface{}{
			"reactions.target_kind": models.TargetChannel,
			"reactions.target_id":   channelID,
		}},
		query.Lookup{From: "users", LocalKey: "actor_id", ForeignKey: "id", As: "subscriber"},
		query.Unwind{Field: "subscriber"},
		query.Project{Fields: map[string]string{
			"id":       "subscriber.id",
			"username": "subscriber.username",
			"fullname": "subscriber.fullname",
			"avatar":   "subscriber.avatar",
		}},
		query.Sort{Key: "reactions.created_at", Desc: true},
	}
	return query.Run[ChannelRow](ctx, s.db, "reactions", stages, page)
}
