package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cliptube/backend/internal/logger"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/query"
	"github.com/cliptube/backend/internal/util"
	"github.com/cliptube/backend/internal/validation"
)

// viewFlushThreshold is how many pending cached views accumulate before
// they are flushed to the videos row in one update.
const viewFlushThreshold = 10

// VideoRow is a video list entry joined with its owner's public fields.
type VideoRow struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	VideoFile     string    `json:"videoFile"`
	Thumbnail     string    `json:"thumbnail"`
	Duration      float64   `json:"duration"`
	ViewCount     int64     `json:"viewCount"`
	IsPublished   bool      `json:"isPublished"`
	CreatedAt     time.Time `json:"createdAt"`
	OwnerID       string    `json:"ownerId"`
	OwnerUsername string    `json:"ownerUsername"`
	OwnerAvatar   string    `json:"ownerAvatar"`
}

var videoSortKeys = map[string]string{
	"createdAt": "videos.created_at",
	"views":     "videos.view_count",
	"duration":  "videos.duration",
	"title":     "videos.title",
}

// GetAllVideos lists videos with optional text search, owner filter, and
// sorting, paginated.
func (h *Handlers) GetAllVideos(c *gin.Context) {
	match := query.Match{Eq: map[string]interface{}{}}

	if ownerID := c.Query("userId"); ownerID != "" {
		id, err := validation.ParseID(ownerID)
		if err != nil {
			util.RespondValidationError(c, "userId", "invalid userId")
			return
		}
		match.Eq["videos.owner_id"] = id
	}
	if q := c.Query("query"); q != "" {
		match.Contains = map[string]string{
			"videos.title":       q,
			"videos.description": q,
		}
	}

	sort := query.Sort{Key: "videos.created_at", Desc: true}
	if sortBy := c.Query("sortBy"); sortBy != "" {
		key, ok := videoSortKeys[sortBy]
		if !ok {
			util.RespondValidationError(c, "sortBy", "unknown sort key")
			return
		}
		sort = query.Sort{Key: key, Desc: c.Query("sortType") != "asc"}
	}

	stages := []query.Stage{
		match,
		query.Lookup{From: "users", LocalKey: "owner_id", ForeignKey: "id", As: "owner"},
		query.Unwind{Field: "owner"},
		query.Project{Fields: map[string]string{
			"id":             "videos.id",
			"title":          "videos.title",
			"description":    "videos.description",
			"video_file":     "videos.video_file",
			"thumbnail":      "videos.thumbnail",
			"duration":       "videos.duration",
			"view_count":     "videos.view_count",
			"is_published":   "videos.is_published",
			"created_at":     "videos.created_at",
			"owner_id":       "videos.owner_id",
			"owner_username": "owner.username",
			"owner_avatar":   "owner.avatar",
		}},
		sort,
	}

	result, err := query.Run[VideoRow](c.Request.Context(), h.db, "videos", stages, pageRequest(c))
	if err != nil {
		h.respondQueryError(c, err, "videos")
		return
	}
	util.Respond(c, http.StatusOK, result, "Videos fetched successfully")
}

// PublishVideo uploads the video file and thumbnail to the media host and
// creates the video row.
func (h *Handlers) PublishVideo(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var form struct {
		Title       string  `form:"title" binding:"required"`
		Description string  `form:"description"`
		Duration    float64 `form:"duration"`
	}
	if err := c.ShouldBind(&form); err != nil {
		util.RespondValidationError(c, "title", "title is required")
		return
	}

	videoURL, err := h.uploadFormFile(c, "videoFile", "videos", userID)
	if err != nil {
		util.RespondValidationError(c, "videoFile", "video file is required")
		return
	}

	thumbnailURL := ""
	if _, ferr := c.FormFile("thumbnail"); ferr == nil {
		thumbnailURL, err = h.uploadFormFile(c, "thumbnail", "thumbnails", userID)
		if err != nil {
			util.RespondInternalError(c, "Failed to upload thumbnail")
			return
		}
	}

	video := models.Video{
		Title:       form.Title,
		Description: form.Description,
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Duration:    form.Duration,
		IsPublished: true,
		OwnerID:     userID,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&video).Error; err != nil {
		util.HandleDBError(c, err, "Video")
		return
	}

	logger.Log.Info("video published",
		logger.WithVideoID(video.ID),
		logger.WithUserID(userID),
	)
	util.RespondCreated(c, video, "Video published successfully")
}

// GetVideoByID returns one video with its owner, bumps the view counter,
// and records the viewer's watch history.
func (h *Handlers) GetVideoByID(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var video models.Video
	if err := h.db.WithContext(ctx).Preload("Owner").First(&video, "id = ?", videoID).Error; err != nil {
		util.HandleDBError(c, err, "Video")
		return
	}

	h.recordView(c, videoID)

	if userID, exists := c.Get("user_id"); exists {
		h.recordWatch(c, userID.(string), videoID)
	}

	util.Respond(c, http.StatusOK, video, "Video fetched successfully")
}

// recordView counts a view. With a cache, views accumulate in Redis and
// flush to the row in batches; without one, the row is bumped directly.
// Either way the update is a single atomic expression.
func (h *Handlers) recordView(c *gin.Context, videoID string) {
	ctx := c.Request.Context()

	pending, err := h.cache.IncrViewCount(ctx, videoID)
	if err != nil {
		logger.Log.Warn("view counter increment failed", zap.Error(err))
		pending = 0
	}

	if pending == 0 {
		// no cache: bump the row directly
		err := h.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", videoID).
			UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
		if err != nil {
			logger.Log.Warn("view count update failed",
				logger.WithVideoID(videoID), zap.Error(err))
		}
		return
	}

	if pending >= viewFlushThreshold {
		err := h.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", videoID).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", pending)).Error
		if err != nil {
			logger.Log.Warn("view count flush failed",
				logger.WithVideoID(videoID), zap.Error(err))
			return
		}
		h.cache.ResetViewCount(ctx, videoID)
	}
}

// recordWatch upserts the (user, video) watch row, moving watched_at
// forward on a rewatch.
func (h *Handlers) recordWatch(c *gin.Context, userID, videoID string) {
	now := time.Now().UTC()
	err := h.db.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"watched_at": now}),
	}).Create(&models.WatchHistory{
		UserID:    userID,
		VideoID:   videoID,
		WatchedAt: now,
	}).Error
	if err != nil {
		logger.Log.Warn("failed to record watch history",
			logger.WithVideoID(videoID),
			logger.WithUserID(userID),
			zap.Error(err),
		)
	}
}

// UpdateVideo updates the title, description, and optionally the thumbnail
// of a video the user owns.
func (h *Handlers) UpdateVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}

	video, ok := loadOwned[models.Video](c, h.db, videoID, "Video", func(v *models.Video) string { return v.OwnerID })
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if title := c.PostForm("title"); title != "" {
		updates["title"] = title
	}
	if description := c.PostForm("description"); description != "" {
		updates["description"] = description
	}
	if _, err := c.FormFile("thumbnail"); err == nil {
		url, uerr := h.uploadFormFile(c, "thumbnail", "thumbnails", video.OwnerID)
		if uerr != nil {
			util.RespondInternalError(c, "Failed to upload thumbnail")
			return
		}
		updates["thumbnail"] = url
	}
	if len(updates) == 0 {
		util.RespondValidationError(c, "body", "nothing to update")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(video).Updates(updates).Error; err != nil {
		util.HandleDBError(c, err, "Video")
		return
	}
	util.Respond(c, http.StatusOK, video, "Video updated successfully")
}

// DeleteVideo removes a video the user owns along with its comments,
// playlist memberships, and watch history rows. Reactions pointing at the
// video are left in place.
func (h *Handlers) DeleteVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}

	video, ok := loadOwned[models.Video](c, h.db, videoID, "Video", func(v *models.Video) string { return v.OwnerID })
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", videoID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", videoID).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", videoID).Delete(&models.WatchHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(video).Error
	})
	if err != nil {
		util.HandleDBError(c, err, "Video")
		return
	}

	logger.Log.Info("video deleted", logger.WithVideoID(videoID))
	util.Respond(c, http.StatusOK, nil, "Video deleted successfully")
}

// TogglePublishStatus flips a video between published and unpublished.
func (h *Handlers) TogglePublishStatus(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}

	video, ok := loadOwned[models.Video](c, h.db, videoID, "Video", func(v *models.Video) string { return v.OwnerID })
	if !ok {
		return
	}

	video.IsPublished = !video.IsPublished
	if err := h.db.WithContext(c.Request.Context()).Model(video).
		Update("is_published", video.IsPublished).Error; err != nil {
		util.HandleDBError(c, err, "Video")
		return
	}

	util.Respond(c, http.StatusOK, gin.H{"isPublished": video.IsPublished}, "Publish status toggled")
}
