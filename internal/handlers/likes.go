package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/util"
)

// ToggleVideoLike likes a video, or removes the like if one exists.
func (h *Handlers) ToggleVideoLike(c *gin.Context) {
	h.toggleLike(c, "videoId", models.TargetVideo, &models.Video{}, "Video")
}

// ToggleCommentLike likes a comment, or removes the like if one exists.
func (h *Handlers) ToggleCommentLike(c *gin.Context) {
	h.toggleLike(c, "commentId", models.TargetComment, &models.Comment{}, "Comment")
}

// ToggleTweetLike likes a tweet, or removes the like if one exists.
func (h *Handlers) ToggleTweetLike(c *gin.Context) {
	h.toggleLike(c, "tweetId", models.TargetTweet, &models.Tweet{}, "Tweet")
}

// toggleLike validates the target id, checks the target exists, and flips
// the reaction through the store.
func (h *Handlers) toggleLike(c *gin.Context, param string, kind models.TargetKind, model interface{}, resource string) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, param)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var exists int64
	if err := h.db.WithContext(ctx).Model(model).Where("id = ?", targetID).Count(&exists).Error; err != nil {
		util.HandleDBError(c, err, resource)
		return
	}
	if exists == 0 {
		util.RespondNotFound(c, resource)
		return
	}

	outcome, err := h.reactions.Toggle(ctx, userID, kind, targetID)
	if err != nil {
		util.RespondInternalError(c, "Failed to toggle like")
		return
	}
	if h.metrics != nil {
		h.metrics.RecordToggle(string(kind), outcome.Added)
	}

	if outcome.Added {
		util.Respond(c, http.StatusOK, outcome, resource+" liked")
		return
	}
	util.Respond(c, http.StatusOK, outcome, "Like removed")
}

// GetLikedVideos lists the videos the user has liked, most recent like
// first, paginated.
func (h *Handlers) GetLikedVideos(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	result, err := h.reactions.ListLikedVideos(c.Request.Context(), userID, pageRequest(c))
	if err != nil {
		h.respondQueryError(c, err, "liked videos")
		return
	}
	util.Respond(c, http.StatusOK, result, "Liked videos fetched successfully")
}
