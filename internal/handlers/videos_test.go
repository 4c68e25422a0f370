package handlers

import (
	"fmt"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliptube/backend/internal/models"
)

func (suite *HandlersTestSuite) TestGetAllVideosPagination() {
	t := suite.T()

	for i := 0; i < 15; i++ {
		suite.createVideo(suite.testUser.ID, fmt.Sprintf("Clip %02d", i))
	}

	w := suite.request("GET", "/api/v1/videos?page=2&limit=10", nil, suite.testUser.ID)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := suite.envelope(w)
	assert.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(15), data["totalItems"])
	assert.Equal(t, float64(2), data["totalPages"])
	assert.Len(t, data["items"].([]interface{}), 5)
}

func (suite *HandlersTestSuite) TestGetAllVideosSearchAndOwnerFilter() {
	t := suite.T()

	suite.createVideo(suite.testUser.ID, "Guitar tutorial")
	suite.createVideo(suite.testUser.ID, "Cooking show")
	suite.createVideo(suite.otherUser.ID, "Guitar solo")

	w := suite.request("GET", "/api/v1/videos?query=guitar", nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
	data := suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["totalItems"])

	w = suite.request("GET", "/api/v1/videos?query=guitar&userId="+suite.otherUser.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
	data = suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["totalItems"])

	items := data["items"].([]interface{})
	first := items[0].(map[string]interface{})
	assert.Equal(t, "Guitar solo", first["title"])
	assert.Equal(t, suite.otherUser.Username, first["ownerUsername"])
}

func (suite *HandlersTestSuite) TestGetAllVideosRejectsBadParams() {
	t := suite.T()

	w := suite.request("GET", "/api/v1/videos?userId=not-an-id", nil, suite.testUser.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = suite.request("GET", "/api/v1/videos?sortBy=evil_column", nil, suite.testUser.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestGetVideoByIDRecordsViewAndHistory() {
	t := suite.T()

	video := suite.createVideo(suite.otherUser.ID, "Watched clip")

	w := suite.request("GET", "/api/v1/videos/"+video.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Video
	require.NoError(t, suite.db.First(&reloaded, "id = ?", video.ID).Error)
	assert.Equal(t, int64(1), reloaded.ViewCount)

	var history int64
	require.NoError(t, suite.db.Model(&models.WatchHistory{}).
		Where("user_id = ? AND video_id = ?", suite.testUser.ID, video.ID).
		Count(&history).Error)
	assert.Equal(t, int64(1), history)

	// Rewatching must not duplicate the history row
	suite.request("GET", "/api/v1/videos/"+video.ID, nil, suite.testUser.ID)
	require.NoError(t, suite.db.Model(&models.WatchHistory{}).
		Where("user_id = ? AND video_id = ?", suite.testUser.ID, video.ID).
		Count(&history).Error)
	assert.Equal(t, int64(1), history)
}

func (suite *HandlersTestSuite) TestGetVideoByIDMalformedID() {
	t := suite.T()

	w := suite.request("GET", "/api/v1/videos/not-a-uuid", nil, suite.testUser.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, suite.envelope(w)["success"])
}

func (suite *HandlersTestSuite) TestGetVideoByIDNotFound() {
	t := suite.T()

	w := suite.request("GET", "/api/v1/videos/9c7c51ae-0da7-4ad3-a10b-26de7b1e4f72", nil, suite.testUser.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestUpdateVideoOwnership() {
	t := suite.T()

	video := suite.createVideo(suite.testUser.ID, "Original title")

	// Non-owner gets 403 and the row is untouched
	w := suite.request("PATCH", "/api/v1/videos/"+video.ID, nil, suite.otherUser.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var reloaded models.Video
	require.NoError(t, suite.db.First(&reloaded, "id = ?", video.ID).Error)
	assert.Equal(t, "Original title", reloaded.Title)
}

func (suite *HandlersTestSuite) TestDeleteVideoCleansUp() {
	t := suite.T()

	video := suite.createVideo(suite.testUser.ID, "Doomed clip")
	comment := models.Comment{Content: "nice", VideoID: video.ID, OwnerID: suite.otherUser.ID}
	require.NoError(t, suite.db.Create(&comment).Error)

	// Non-owner cannot delete
	w := suite.request("DELETE", "/api/v1/videos/"+video.ID, nil, suite.otherUser.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request("DELETE", "/api/v1/videos/"+video.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Video{}).Where("id = ?", video.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	suite.db.Model(&models.Comment{}).Where("video_id = ?", video.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func (suite *HandlersTestSuite) TestTogglePublishStatus() {
	t := suite.T()

	video := suite.createVideo(suite.testUser.ID, "Toggle me")

	w := suite.request("PATCH", "/api/v1/videos/toggle/publish/"+video.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Video
	require.NoError(t, suite.db.First(&reloaded, "id = ?", video.ID).Error)
	assert.False(t, reloaded.IsPublished)

	w = suite.request("PATCH", "/api/v1/videos/toggle/publish/"+video.ID, nil, suite.otherUser.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
