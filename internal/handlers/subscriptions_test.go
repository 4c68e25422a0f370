package handlers

import (
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliptube/backend/internal/models"
)

func (suite *HandlersTestSuite) TestToggleSubscription() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/subscriptions/c/"+suite.otherUser.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
	data := suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["added"])

	w = suite.request("POST", "/api/v1/subscriptions/c/"+suite.otherUser.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
	data = suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["added"])

	var count int64
	suite.db.Model(&models.Reaction{}).
		Where("target_kind = ?", models.TargetChannel).Count(&count)
	assert.Equal(t, int64(0), count)
}

func (suite *HandlersTestSuite) TestCannotSubscribeToSelf() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/subscriptions/c/"+suite.testUser.ID, nil, suite.testUser.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestSubscriptionLists() {
	t := suite.T()

	third := suite.createUser("third")

	suite.request("POST", "/api/v1/subscriptions/c/"+suite.otherUser.ID, nil, suite.testUser.ID)
	suite.request("POST", "/api/v1/subscriptions/c/"+third.ID, nil, suite.testUser.ID)
	suite.request("POST", "/api/v1/subscriptions/c/"+suite.otherUser.ID, nil, third.ID)

	w := suite.request("GET", "/api/v1/subscriptions/u/"+suite.testUser.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
	data := suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["totalItems"])

	w = suite.request("GET", "/api/v1/subscriptions/c/"+suite.otherUser.ID, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
	data = suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["totalItems"])
}

func (suite *HandlersTestSuite) TestChannelProfileCounts() {
	t := suite.T()

	suite.request("POST", "/api/v1/subscriptions/c/"+suite.otherUser.ID, nil, suite.testUser.ID)

	w := suite.request("GET", "/api/v1/users/c/"+suite.otherUser.Username, nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)

	data := suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["subscriberCount"])
	assert.Equal(t, true, data["isSubscribed"])

	// Viewed by the channel owner, no subscription of their own
	w = suite.request("GET", "/api/v1/users/c/"+suite.otherUser.Username, nil, suite.otherUser.ID)
	require.Equal(t, http.StatusOK, w.Code)
	data = suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["isSubscribed"])
}
