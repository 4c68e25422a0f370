package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cliptube/backend/internal/auth"
	"github.com/cliptube/backend/internal/logger"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/query"
	"github.com/cliptube/backend/internal/util"
	"github.com/cliptube/backend/internal/validation"
)

const cookieMaxAge = 10 * 24 * 60 * 60 // matches the refresh token TTL

func setAuthCookies(c *gin.Context, pair *auth.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.AccessTokenCookie, pair.AccessToken, cookieMaxAge, "/", "", true, true)
	c.SetCookie(auth.RefreshTokenCookie, pair.RefreshToken, cookieMaxAge, "/", "", true, true)
}

func clearAuthCookies(c *gin.Context) {
	c.SetCookie(auth.AccessTokenCookie, "", -1, "/", "", true, true)
	c.SetCookie(auth.RefreshTokenCookie, "", -1, "/", "", true, true)
}

// uploadFormFile stores a multipart file on the media host and returns its
// URL. The temp file is removed by the uploader on success and by us on
// failure.
func (h *Handlers) uploadFormFile(c *gin.Context, field, category, userID string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", err
	}

	localPath, err := util.SaveUploadedFile(fileHeader)
	if err != nil {
		return "", err
	}

	result, err := h.media.Upload(c.Request.Context(), localPath, category, userID)
	if err != nil {
		os.Remove(localPath)
		if h.metrics != nil {
			h.metrics.RecordUpload(category, false)
		}
		return "", err
	}
	if h.metrics != nil {
		h.metrics.RecordUpload(category, true)
	}
	return result.URL, nil
}

// Register creates a new account. Avatar is required, cover image optional;
// both go through the media host before the row is written.
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		util.RespondValidationError(c, "body", "fullname, username, email and password are required")
		return
	}

	avatarURL, err := h.uploadFormFile(c, "avatar", "avatars", strings.ToLower(req.Username))
	if err != nil {
		util.RespondValidationError(c, "avatar", "avatar image is required")
		return
	}

	coverURL := ""
	if _, ferr := c.FormFile("coverImage"); ferr == nil {
		coverURL, err = h.uploadFormFile(c, "coverImage", "covers", strings.ToLower(req.Username))
		if err != nil {
			util.RespondInternalError(c, "Failed to upload cover image")
			return
		}
	}

	user, err := h.auth.Register(c.Request.Context(), req, avatarURL, coverURL)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			util.RespondConflict(c, "User with this email or username")
			return
		}
		logger.Log.Error("registration failed", zap.Error(err))
		util.RespondInternalError(c, "Failed to register user")
		return
	}

	util.RespondCreated(c, user, "User registered successfully")
}

// Login verifies credentials, issues a token pair, and sets the auth
// cookies.
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "body", "password is required")
		return
	}
	if req.Username == "" && req.Email == "" {
		util.RespondValidationError(c, "username", "username or email is required")
		return
	}

	user, pair, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			util.RespondNotFound(c, "User")
			return
		}
		if errors.Is(err, auth.ErrInvalidCredentials) {
			util.RespondUnauthorized(c, "invalid user credentials")
			return
		}
		logger.Log.Error("login failed", zap.Error(err))
		util.RespondInternalError(c, "Failed to log in")
		return
	}

	setAuthCookies(c, pair)
	util.Respond(c, http.StatusOK, gin.H{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User logged in successfully")
}

// Logout clears the stored refresh token and the auth cookies.
func (h *Handlers) Logout(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), userID); err != nil {
		util.RespondInternalError(c, "Failed to log out")
		return
	}

	clearAuthCookies(c)
	util.Respond(c, http.StatusOK, nil, "User logged out successfully")
}

// RefreshAccessToken rotates the token pair. The incoming refresh token is
// read from the cookie or the request body and must match the one stored on
// the user row.
func (h *Handlers) RefreshAccessToken(c *gin.Context) {
	incoming, _ := c.Cookie(auth.RefreshTokenCookie)
	if incoming == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			incoming = body.RefreshToken
		}
	}
	if incoming == "" {
		util.RespondUnauthorized(c, "refresh token is required")
		return
	}

	_, pair, err := h.auth.Refresh(c.Request.Context(), incoming)
	if err != nil {
		util.RespondUnauthorized(c, "refresh token is expired or invalid")
		return
	}

	setAuthCookies(c, pair)
	util.Respond(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Access token refreshed")
}

// ChangePassword verifies the old password before storing the new one.
func (h *Handlers) ChangePassword(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var body struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondValidationError(c, "body", "oldPassword and newPassword are required")
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), userID, body.OldPassword, body.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			util.RespondBadRequest(c, "old password is incorrect")
			return
		}
		util.RespondInternalError(c, "Failed to change password")
		return
	}

	util.Respond(c, http.StatusOK, nil, "Password changed successfully")
}

// GetCurrentUser returns the authenticated user.
func (h *Handlers) GetCurrentUser(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	util.Respond(c, http.StatusOK, user, "Current user fetched successfully")
}

// UpdateAccount updates the mutable profile fields.
func (h *Handlers) UpdateAccount(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var body struct {
		Fullname string `json:"fullname" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondValidationError(c, "body", "fullname and email are required")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; err != nil {
		util.HandleDBError(c, err, "User")
		return
	}

	err := h.db.WithContext(c.Request.Context()).Model(&user).Updates(map[string]interface{}{
		"fullname": body.Fullname,
		"email":    strings.ToLower(body.Email),
	}).Error
	if err != nil {
		util.HandleDBError(c, err, "User")
		return
	}

	util.Respond(c, http.StatusOK, user, "Account details updated successfully")
}

// UpdateAvatar replaces the user's avatar image.
func (h *Handlers) UpdateAvatar(c *gin.Context) {
	h.updateUserImage(c, "avatar", "avatars", "avatar")
}

// UpdateCoverImage replaces the user's cover image.
func (h *Handlers) UpdateCoverImage(c *gin.Context) {
	h.updateUserImage(c, "coverImage", "covers", "cover_image")
}

func (h *Handlers) updateUserImage(c *gin.Context, field, category, column string) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	url, err := h.uploadFormFile(c, field, category, userID)
	if err != nil {
		util.RespondValidationError(c, field, field+" file is required")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; err != nil {
		util.HandleDBError(c, err, "User")
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Model(&user).Update(column, url).Error; err != nil {
		util.HandleDBError(c, err, "User")
		return
	}

	util.Respond(c, http.StatusOK, user, "Image updated successfully")
}

// ChannelProfile is a user's public channel page with subscription counts
// relative to the viewer.
type ChannelProfile struct {
	models.PublicProfile
	CoverImage      string `json:"coverImage"`
	SubscriberCount int64  `json:"subscriberCount"`
	SubscribedTo    int64  `json:"channelsSubscribedToCount"`
	IsSubscribed    bool   `json:"isSubscribed"`
}

// GetChannelProfile returns a channel page by username. Counts come from
// the cache when fresh, falling back to the reaction store.
func (h *Handlers) GetChannelProfile(c *gin.Context) {
	viewerID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	username := strings.ToLower(strings.TrimSpace(c.Param("username")))
	if username == "" {
		util.RespondValidationError(c, "username", "username is required")
		return
	}

	ctx := c.Request.Context()
	var user models.User
	if err := h.db.WithContext(ctx).First(&user, "LOWER(username) = ?", username).Error; err != nil {
		util.HandleDBError(c, err, "Channel")
		return
	}

	subscribers, subscribedTo, cached := h.cache.GetChannelStats(ctx, user.ID)
	if !cached {
		var err error
		subscribers, err = h.reactions.CountForTarget(ctx, models.TargetChannel, user.ID)
		if err != nil {
			util.RespondInternalError(c, "Failed to fetch channel stats")
			return
		}
		err = h.db.WithContext(ctx).Model(&models.Reaction{}).
			Where("actor_id = ? AND target_kind = ?", user.ID, models.TargetChannel).
			Count(&subscribedTo).Error
		if err != nil {
			util.RespondInternalError(c, "Failed to fetch channel stats")
			return
		}
		h.cache.SetChannelStats(ctx, user.ID, subscribers, subscribedTo)
	}

	isSubscribed, err := h.reactions.Exists(ctx, viewerID, models.TargetChannel, user.ID)
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch channel stats")
		return
	}

	profile := ChannelProfile{
		PublicProfile:   user.Public(),
		CoverImage:      user.CoverImage,
		SubscriberCount: subscribers,
		SubscribedTo:    subscribedTo,
		IsSubscribed:    isSubscribed,
	}
	util.Respond(c, http.StatusOK, profile, "Channel profile fetched successfully")
}

// WatchHistoryRow is a watched video joined with its owner's public fields.
type WatchHistoryRow struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Thumbnail     string    `json:"thumbnail"`
	Duration      float64   `json:"duration"`
	ViewCount     int64     `json:"viewCount"`
	OwnerUsername string    `json:"ownerUsername"`
	OwnerAvatar   string    `json:"ownerAvatar"`
	WatchedAt     time.Time `json:"watchedAt"`
}

// GetWatchHistory returns the videos the user has watched, most recent
// first.
func (h *Handlers) GetWatchHistory(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	stages := []query.Stage{
		query.Match{Eq: map[string]interface{}{
			"watch_history.user_id": userID,
		}},
		query.Lookup{From: "videos", LocalKey: "video_id", ForeignKey: "id", As: "video"},
		query.Unwind{Field: "video"},
		query.Lookup{From: "users", LocalKey: "video.owner_id", ForeignKey: "id", As: "owner"},
		query.Unwind{Field: "owner"},
		query.Project{Fields: map[string]string{
			"id":             "video.id",
			"title":          "video.title",
			"thumbnail":      "video.thumbnail",
			"duration":       "video.duration",
			"view_count":     "video.view_count",
			"owner_username": "owner.username",
			"owner_avatar":   "owner.avatar",
			"watched_at":     "watch_history.watched_at",
		}},
		query.Sort{Key: "watch_history.watched_at", Desc: true},
	}

	result, err := query.Run[WatchHistoryRow](c.Request.Context(), h.db, "watch_history", stages, pageRequest(c))
	if err != nil {
		h.respondQueryError(c, err, "watch history")
		return
	}
	util.Respond(c, http.StatusOK, result, "Watch history fetched successfully")
}

// respondQueryError maps pipeline errors to envelopes: bad paging input is
// the client's fault, everything else is ours.
func (h *Handlers) respondQueryError(c *gin.Context, err error, resource string) {
	if errors.Is(err, query.ErrInvalidPage) {
		util.RespondValidationError(c, "page", "page and limit must be positive")
		return
	}
	logger.Log.Error("query failed", zap.String("resource", resource), zap.Error(err))
	util.RespondInternalError(c, "Failed to fetch "+resource)
}

// parseIDParam validates a path identifier, responding 400 on malformed
// input before any store work happens.
func parseIDParam(c *gin.Context, name string) (string, bool) {
	id, err := validation.ParseID(c.Param(name))
	if err != nil {
		util.RespondValidationError(c, name, "invalid "+name)
		return "", false
	}
	return id, true
}

// loadOwned fetches a row by id and enforces that the authenticated user
// owns it. Used by every mutation on user-owned entities.
func loadOwned[T any](c *gin.Context, db *gorm.DB, id, resource string, ownerOf func(*T) string) (*T, bool) {
	var entity T
	if err := db.WithContext(c.Request.Context()).First(&entity, "id = ?", id).Error; err != nil {
		util.HandleDBError(c, err, resource)
		return nil, false
	}

	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return nil, false
	}
	if ownerOf(&entity) != userID {
		util.RespondForbidden(c, "you do not own this "+strings.ToLower(resource))
		return nil, false
	}
	return &entity, true
}
