package handlers

import (
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliptube/backend/internal/models"
)

func (suite *HandlersTestSuite) TestCreateAndListTweets() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/tweets", map[string]string{
		"content": "first post",
	}, suite.testUser.ID)
	require.Equal(t, http.StatusCreated, w.Code)

	w = suite.request("POST", "/api/v1/tweets", map[string]string{}, suite.testUser.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = suite.request("GET", "/api/v1/tweets/user/"+suite.testUser.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
	data := suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["totalItems"])

	// Other users have no tweets yet
	w = suite.request("GET", "/api/v1/tweets/user/"+suite.otherUser.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
	data = suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["totalItems"])
}

func (suite *HandlersTestSuite) TestUpdateAndDeleteTweetOwnership() {
	t := suite.T()

	tweet := models.Tweet{Content: "mine", OwnerID: suite.testUser.ID}
	require.NoError(t, suite.db.Create(&tweet).Error)

	w := suite.request("PATCH", "/api/v1/tweets/"+tweet.ID, map[string]string{
		"content": "stolen",
	}, suite.otherUser.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request("DELETE", "/api/v1/tweets/"+tweet.ID, nil, suite.otherUser.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request("PATCH", "/api/v1/tweets/"+tweet.ID, map[string]string{
		"content": "edited",
	}, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)

	w = suite.request("DELETE", "/api/v1/tweets/"+tweet.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestBlogLifecycle() {
	t := suite.T()

	blog := models.Blog{Title: "My post", Content: "long form", CreatedByID: suite.testUser.ID}
	require.NoError(t, suite.db.Create(&blog).Error)

	w := suite.request("GET", "/api/v1/blogs/"+suite.testUser.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
	data := suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["totalItems"])

	w = suite.request("DELETE", "/api/v1/blogs/b/"+blog.ID, nil, suite.otherUser.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request("DELETE", "/api/v1/blogs/b/"+blog.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
}
