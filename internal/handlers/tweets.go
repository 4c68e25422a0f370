package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/query"
	"github.com/cliptube/backend/internal/util"
)

// CreateTweet posts a new tweet on the authenticated user's channel.
func (h *Handlers) CreateTweet(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
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

	tweet := models.Tweet{Content: body.Content, OwnerID: userID}
	if err := h.db.WithContext(c.Request.Context()).Create(&tweet).Error; err != nil {
		util.HandleDBError(c, err, "Tweet")
		return
	}
	util.RespondCreated(c, tweet, "Tweet created successfully")
}

// TweetRow is a tweet list entry joined with its owner's public fields.
type TweetRow struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
	OwnerID       string    `json:"ownerId"`
	OwnerUsername string    `json:"ownerUsername"`
	OwnerAvatar   string    `json:"ownerAvatar"`
}

// GetUserTweets lists a user's tweets, newest first, paginated.
func (h *Handlers) GetUserTweets(c *gin.Context) {
	ownerID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	stages := []query.Stage{
		query.Match{Eq: map[string]interface{}{"tweets.owner_id": ownerID}},
		query.Lookup{From: "users", LocalKey: "owner_id", ForeignKey: "id", As: "owner"},
		query.Unwind{Field: "owner"},
		query.Project{Fields: map[string]string{
			"id":             "tweets.id",
			"content":        "tweets.content",
			"created_at":     "tweets.created_at",
			"owner_id":       "tweets.owner_id",
			"owner_username": "owner.username",
			"owner_avatar":   "owner.avatar",
		}},
		query.Sort{Key: "tweets.created_at", Desc: true},
	}

	result, err := query.Run[TweetRow](c.Request.Context(), h.db, "tweets", stages, pageRequest(c))
	if err != nil {
		h.respondQueryError(c, err, "tweets")
		return
	}
	util.Respond(c, http.StatusOK, result, "Tweets fetched successfully")
}

// UpdateTweet edits a tweet the user owns.
func (h *Handlers) UpdateTweet(c *gin.Context) {
	tweetID, ok := parseIDParam(c, "tweetId")
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

	tweet, ok := loadOwned[models.Tweet](c, h.db, tweetID, "Tweet", func(t *models.Tweet) string { return t.OwnerID })
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(tweet).
		Update("content", body.Content).Error; err != nil {
		util.HandleDBError(c, err, "Tweet")
		return
	}
	util.Respond(c, http.StatusOK, tweet, "Tweet updated successfully")
}

// DeleteTweet removes a tweet the user owns. Reactions pointing at the
// tweet are left in place.
func (h *Handlers) DeleteTweet(c *gin.Context) {
	tweetID, ok := parseIDParam(c, "tweetId")
	if !ok {
		return
	}

	tweet, ok := loadOwned[models.Tweet](c, h.db, tweetID, "Tweet", func(t *models.Tweet) string { return t.OwnerID })
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(tweet).Error; err != nil {
		util.HandleDBError(c, err, "Tweet")
		return
	}
	util.Respond(c, http.StatusOK, nil, "Tweet deleted successfully")
}
