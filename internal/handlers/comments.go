package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/query"
	"github.com/cliptube/backend/internal/util"
)

// CommentRow is a comment list entry joined with its author's public
// fields.
type CommentRow struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
	OwnerID       string    `json:"ownerId"`
	OwnerUsername string    `json:"ownerUsername"`
	OwnerAvatar   string    `json:"ownerAvatar"`
}

// GetVideoComments lists a video's comments, newest first, paginated.
func (h *Handlers) GetVideoComments(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}

	stages := []query.Stage{
		query.Match{Eq: map[string]interface{}{"comments.video_id": videoID}},
		query.Lookup{From: "users", LocalKey: "owner_id", ForeignKey: "id", As: "owner"},
		query.Unwind{Field: "owner"},
		query.Project{Fields: map[string]string{
			"id":             "comments.id",
			"content":        "comments.content",
			"created_at":     "comments.created_at",
			"owner_id":       "comments.owner_id",
			"owner_username": "owner.username",
			"owner_avatar":   "owner.avatar",
		}},
		query.Sort{Key: "comments.created_at", Desc: true},
	}

	result, err := query.Run[CommentRow](c.Request.Context(), h.db, "comments", stages, pageRequest(c))
	if err != nil {
		h.respondQueryError(c, err, "comments")
		return
	}
	util.Respond(c, http.StatusOK, result, "Comments fetched successfully")
}

// AddComment posts a comment on a video.
func (h *Handlers) AddComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}

	var body struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondValidationError(c, "content", "content is required")
		return
	}

	ctx := c.Request.Context()
	var exists int64
	if err := h.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ?", videoID).Count(&exists).Error; err != nil {
		util.HandleDBError(c, err, "Video")
		return
	}
	if exists == 0 {
		util.RespondNotFound(c, "Video")
		return
	}

	comment := models.Comment{
		Content: body.Content,
		VideoID: videoID,
		OwnerID: userID,
	}
	if err := h.db.WithContext(ctx).Create(&comment).Error; err != nil {
		util.HandleDBError(c, err, "Comment")
		return
	}
	util.RespondCreated(c, comment, "Comment added successfully")
}

// UpdateComment edits a comment the user owns.
func (h *Handlers) UpdateComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}

	var body struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondValidationError(c, "content", "content is required")
		return
	}

	comment, ok := loadOwned[models.Comment](c, h.db, commentID, "Comment", func(cm *models.Comment) string { return cm.OwnerID })
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(comment).
		Update("content", body.Content).Error; err != nil {
		util.HandleDBError(c, err, "Comment")
		return
	}
	util.Respond(c, http.StatusOK, comment, "Comment updated successfully")
}

// DeleteComment removes a comment the user owns. Reactions pointing at the
// comment are left in place.
func (h *Handlers) DeleteComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}

	comment, ok := loadOwned[models.Comment](c, h.db, commentID, "Comment", func(cm *models.Comment) string { return cm.OwnerID })
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(comment).Error; err != nil {
		util.HandleDBError(c, err, "Comment")
		return
	}
	util.Respond(c, http.StatusOK, nil, "Comment deleted successfully")
}
