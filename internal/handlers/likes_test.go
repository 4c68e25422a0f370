package handlers

import (
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliptube/backend/internal/models"
)

func (suite *HandlersTestSuite) TestToggleVideoLike() {
	t := suite.T()

	video := suite.createVideo(suite.otherUser.ID, "Likeable clip")

	w := suite.request("POST", "/api/v1/likes/toggle/v/"+video.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
	data := suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["added"])

	var count int64
	suite.db.Model(&models.Reaction{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// Second toggle removes the like
	w = suite.request("POST", "/api/v1/likes/toggle/v/"+video.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
	data = suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["added"])

	suite.db.Model(&models.Reaction{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func (suite *HandlersTestSuite) TestToggleLikeMalformedIDMutatesNothing() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/likes/toggle/v/garbage", nil, suite.testUser.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	suite.db.Model(&models.Reaction{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func (suite *HandlersTestSuite) TestToggleLikeMissingTarget() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/likes/toggle/v/9c7c51ae-0da7-4ad3-a10b-26de7b1e4f72", nil, suite.testUser.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestToggleCommentAndTweetLikes() {
	t := suite.T()

	video := suite.createVideo(suite.otherUser.ID, "Commented clip")
	comment := models.Comment{Content: "hello", VideoID: video.ID, OwnerID: suite.otherUser.ID}
	require.NoError(t, suite.db.Create(&comment).Error)
	tweet := models.Tweet{Content: "short post", OwnerID: suite.otherUser.ID}
	require.NoError(t, suite.db.Create(&tweet).Error)

	w := suite.request("POST", "/api/v1/likes/toggle/c/"+comment.ID, nil, suite.testUser.ID)
	assert.Equal(t, http.StatusOK, w.Code)
	w = suite.request("POST", "/api/v1/likes/toggle/t/"+tweet.ID, nil, suite.testUser.ID)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Reaction{}).Where("actor_id = ?", suite.testUser.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func (suite *HandlersTestSuite) TestGetLikedVideos() {
	t := suite.T()

	first := suite.createVideo(suite.otherUser.ID, "First like")
	second := suite.createVideo(suite.otherUser.ID, "Second like")

	suite.request("POST", "/api/v1/likes/toggle/v/"+first.ID, nil, suite.testUser.ID)
	suite.request("POST", "/api/v1/likes/toggle/v/"+second.ID, nil, suite.testUser.ID)

	w := suite.request("GET", "/api/v1/likes/videos", nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)

	data := suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["totalItems"])
}
