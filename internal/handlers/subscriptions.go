package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/util"
)

// ToggleSubscription subscribes the user to a channel, or unsubscribes if
// already subscribed.
func (h *Handlers) ToggleSubscription(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	channelID, ok := parseIDParam(c, "channelId")
	if !ok {
		return
	}
	if channelID == userID {
		util.RespondBadRequest(c, "cannot subscribe to your own channel")
		return
	}

	ctx := c.Request.Context()
	var exists int64
	if err := h.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", channelID).Count(&exists).Error; err != nil {
		util.HandleDBError(c, err, "Channel")
		return
	}
	if exists == 0 {
		util.RespondNotFound(c, "Channel")
		return
	}

	outcome, err := h.reactions.Toggle(ctx, userID, models.TargetChannel, channelID)
	if err != nil {
		util.RespondInternalError(c, "Failed to toggle subscription")
		return
	}
	if h.metrics != nil {
		h.metrics.RecordToggle(string(models.TargetChannel), outcome.Added)
	}
	h.cache.InvalidateChannelStats(ctx, channelID)

	if outcome.Added {
		util.Respond(c, http.StatusOK, outcome, "Subscribed successfully")
		return
	}
	util.Respond(c, http.StatusOK, outcome, "Unsubscribed successfully")
}

// GetChannelSubscribers lists the users subscribed to a channel, paginated.
func (h *Handlers) GetChannelSubscribers(c *gin.Context) {
	channelID, ok := parseIDParam(c, "channelId")
	if !ok {
		return
	}

	result, err := h.reactions.ListChannelSubscribers(c.Request.Context(), channelID, pageRequest(c))
	if err != nil {
		h.respondQueryError(c, err, "subscribers")
		return
	}
	util.Respond(c, http.StatusOK, result, "Subscribers fetched successfully")
}

// GetSubscribedChannels lists the channels a user subscribes to, paginated.
func (h *Handlers) GetSubscribedChannels(c *gin.Context) {
	subscriberID, ok := parseIDParam(c, "subscriberId")
	if !ok {
		return
	}

	result, err := h.reactions.ListSubscribedChannels(c.Request.Context(), subscriberID, pageRequest(c))
	if err != nil {
		h.respondQueryError(c, err, "subscribed channels")
		return
	}
	util.Respond(c, http.StatusOK, result, "Subscribed channels fetched successfully")
}
