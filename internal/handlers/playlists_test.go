package handlers

import (
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliptube/backend/internal/models"
)

func (suite *HandlersTestSuite) createPlaylist(ownerID, name string) *models.Playlist {
	playlist := &models.Playlist{Name: name, OwnerID: ownerID}
	require.NoError(suite.T(), suite.db.Create(playlist).Error)
	return playlist
}

func (suite *HandlersTestSuite) TestCreatePlaylist() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/playlists", map[string]string{
		"name":        "Favorites",
		"description": "the good stuff",
	}, suite.testUser.ID)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := suite.envelope(w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(http.StatusCreated), resp["statusCode"])

	w = suite.request("POST", "/api/v1/playlists", map[string]string{}, suite.testUser.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestAddVideoToPlaylist() {
	t := suite.T()

	playlist := suite.createPlaylist(suite.testUser.ID, "Mix")
	video := suite.createVideo(suite.otherUser.ID, "Added clip")

	path := "/api/v1/playlists/add/" + video.ID + "/" + playlist.ID
	w := suite.request("PATCH", path, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)

	// Adding the same video again conflicts, leaving a single membership row
	w = suite.request("PATCH", path, nil, suite.testUser.ID)
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	suite.db.Model(&models.PlaylistVideo{}).
		Where("playlist_id = ? AND video_id = ?", playlist.ID, video.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func (suite *HandlersTestSuite) TestAddVideoToPlaylistOwnership() {
	t := suite.T()

	playlist := suite.createPlaylist(suite.testUser.ID, "Private mix")
	video := suite.createVideo(suite.otherUser.ID, "Clip")

	w := suite.request("PATCH", "/api/v1/playlists/add/"+video.ID+"/"+playlist.ID, nil, suite.otherUser.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	suite.db.Model(&models.PlaylistVideo{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func (suite *HandlersTestSuite) TestAddMissingVideoToPlaylist() {
	t := suite.T()

	playlist := suite.createPlaylist(suite.testUser.ID, "Mix")

	w := suite.request("PATCH", "/api/v1/playlists/add/9c7c51ae-0da7-4ad3-a10b-26de7b1e4f72/"+playlist.ID, nil, suite.testUser.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = suite.request("PATCH", "/api/v1/playlists/add/garbage/"+playlist.ID, nil, suite.testUser.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestRemoveVideoFromPlaylist() {
	t := suite.T()

	playlist := suite.createPlaylist(suite.testUser.ID, "Mix")
	video := suite.createVideo(suite.otherUser.ID, "Removable clip")

	suite.request("PATCH", "/api/v1/playlists/add/"+video.ID+"/"+playlist.ID, nil, suite.testUser.ID)

	path := "/api/v1/playlists/remove/" + video.ID + "/" + playlist.ID
	w := suite.request("PATCH", path, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)

	// Removing a video that is not in the playlist is a 404
	w = suite.request("PATCH", path, nil, suite.testUser.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestDeletePlaylist() {
	t := suite.T()

	playlist := suite.createPlaylist(suite.testUser.ID, "Doomed")
	video := suite.createVideo(suite.otherUser.ID, "Clip")
	suite.request("PATCH", "/api/v1/playlists/add/"+video.ID+"/"+playlist.ID, nil, suite.testUser.ID)

	w := suite.request("DELETE", "/api/v1/playlists/"+playlist.ID, nil, suite.otherUser.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request("DELETE", "/api/v1/playlists/"+playlist.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.PlaylistVideo{}).Where("playlist_id = ?", playlist.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
