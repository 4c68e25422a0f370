package handlers

import (
	"fmt"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliptube/backend/internal/models"
)

func (suite *HandlersTestSuite) TestAddAndListComments() {
	t := suite.T()

	video := suite.createVideo(suite.otherUser.ID, "Discussed clip")

	for i := 0; i < 3; i++ {
		w := suite.request("POST", "/api/v1/comments/"+video.ID, map[string]string{
			"content": fmt.Sprintf("comment %d", i),
		}, suite.testUser.ID)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := suite.request("GET", "/api/v1/comments/"+video.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)

	data := suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["totalItems"])

	items := data["items"].([]interface{})
	first := items[0].(map[string]interface{})
	assert.Equal(t, suite.testUser.Username, first["ownerUsername"])
}

func (suite *HandlersTestSuite) TestAddCommentToMissingVideo() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/comments/9c7c51ae-0da7-4ad3-a10b-26de7b1e4f72", map[string]string{
		"content": "into the void",
	}, suite.testUser.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	suite.db.Model(&models.Comment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func (suite *HandlersTestSuite) TestUpdateCommentOwnership() {
	t := suite.T()

	video := suite.createVideo(suite.otherUser.ID, "Clip")
	comment := models.Comment{Content: "original", VideoID: video.ID, OwnerID: suite.testUser.ID}
	require.NoError(t, suite.db.Create(&comment).Error)

	w := suite.request("PATCH", "/api/v1/comments/c/"+comment.ID, map[string]string{
		"content": "hijacked",
	}, suite.otherUser.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var reloaded models.Comment
	require.NoError(t, suite.db.First(&reloaded, "id = ?", comment.ID).Error)
	assert.Equal(t, "original", reloaded.Content)

	w = suite.request("PATCH", "/api/v1/comments/c/"+comment.ID, map[string]string{
		"content": "edited",
	}, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, suite.db.First(&reloaded, "id = ?", comment.ID).Error)
	assert.Equal(t, "edited", reloaded.Content)
}

func (suite *HandlersTestSuite) TestDeleteComment() {
	t := suite.T()

	video := suite.createVideo(suite.otherUser.ID, "Clip")
	comment := models.Comment{Content: "bye", VideoID: video.ID, OwnerID: suite.testUser.ID}
	require.NoError(t, suite.db.Create(&comment).Error)

	w := suite.request("DELETE", "/api/v1/comments/c/"+comment.ID, nil, suite.otherUser.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request("DELETE", "/api/v1/comments/c/"+comment.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
