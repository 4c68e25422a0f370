package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/util"
)

// CreatePlaylist creates an empty playlist owned by the user.
func (h *Handlers) CreatePlaylist(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var body struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondValidationError(c, "name", "name is required")
		return
	}

	playlist := models.Playlist{
		Name:        body.Name,
		Description: body.Description,
		OwnerID:     userID,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&playlist).Error; err != nil {
		util.HandleDBError(c, err, "Playlist")
		return
	}
	util.RespondCreated(c, playlist, "Playlist created successfully")
}

// GetUserPlaylists lists a user's playlists.
func (h *Handlers) GetUserPlaylists(c *gin.Context) {
	ownerID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var playlists []models.Playlist
	err := h.db.WithContext(c.Request.Context()).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&playlists).Error
	if err != nil {
		util.HandleDBError(c, err, "Playlists")
		return
	}
	util.Respond(c, http.StatusOK, playlists, "Playlists fetched successfully")
}

// GetPlaylistByID returns a playlist with its videos.
func (h *Handlers) GetPlaylistByID(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlistId")
	if !ok {
		return
	}

	var playlist models.Playlist
	err := h.db.WithContext(c.Request.Context()).
		Preload("Videos", func(db *gorm.DB) *gorm.DB { return db.Order("added_at ASC") }).
		Preload("Videos.Video").
		First(&playlist, "id = ?", playlistID).Error
	if err != nil {
		util.HandleDBError(c, err, "Playlist")
		return
	}
	util.Respond(c, http.StatusOK, playlist, "Playlist fetched successfully")
}

// UpdatePlaylist renames a playlist the user owns.
func (h *Handlers) UpdatePlaylist(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlistId")
	if !ok {
		return
	}

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || (body.Name == "" && body.Description == "") {
		util.RespondValidationError(c, "body", "name or description is required")
		return
	}

	playlist, ok := loadOwned[models.Playlist](c, h.db, playlistID, "Playlist", func(p *models.Playlist) string { return p.OwnerID })
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if body.Name != "" {
		updates["name"] = body.Name
	}
	if body.Description != "" {
		updates["description"] = body.Description
	}
	if err := h.db.WithContext(c.Request.Context()).Model(playlist).Updates(updates).Error; err != nil {
		util.HandleDBError(c, err, "Playlist")
		return
	}
	util.Respond(c, http.StatusOK, playlist, "Playlist updated successfully")
}

// DeletePlaylist removes a playlist the user owns along with its
// membership rows.
func (h *Handlers) DeletePlaylist(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlistId")
	if !ok {
		return
	}

	playlist, ok := loadOwned[models.Playlist](c, h.db, playlistID, "Playlist", func(p *models.Playlist) string { return p.OwnerID })
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Where("playlist_id = ?", playlistID).
		Delete(&models.PlaylistVideo{}).Error; err != nil {
		util.HandleDBError(c, err, "Playlist")
		return
	}
	if err := h.db.WithContext(ctx).Delete(playlist).Error; err != nil {
		util.HandleDBError(c, err, "Playlist")
		return
	}
	util.Respond(c, http.StatusOK, nil, "Playlist deleted successfully")
}

// AddVideoToPlaylist adds a video to a playlist the user owns. The insert
// is a single add-if-absent against the unique membership index, so two
// racing adds cannot duplicate the pair; the loser sees a conflict.
func (h *Handlers) AddVideoToPlaylist(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlistId")
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}

	if _, ok := loadOwned[models.Playlist](c, h.db, playlistID, "Playlist", func(p *models.Playlist) string { return p.OwnerID }); !ok {
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

	membership := models.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID}
	res := h.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&membership)
	if res.Error != nil {
		util.HandleDBError(c, res.Error, "Playlist video")
		return
	}
	if res.RowsAffected == 0 {
		util.RespondConflict(c, "Video already in playlist")
		return
	}

	util.Respond(c, http.StatusOK, membership, "Video added to playlist")
}

// RemoveVideoFromPlaylist removes a video from a playlist the user owns.
func (h *Handlers) RemoveVideoFromPlaylist(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlistId")
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}

	if _, ok := loadOwned[models.Playlist](c, h.db, playlistID, "Playlist", func(p *models.Playlist) string { return p.OwnerID }); !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&models.PlaylistVideo{})
	if res.Error != nil {
		util.HandleDBError(c, res.Error, "Playlist video")
		return
	}
	if res.RowsAffected == 0 {
		util.RespondNotFound(c, "Video in playlist")
		return
	}

	util.Respond(c, http.StatusOK, nil, "Video removed from playlist")
}
