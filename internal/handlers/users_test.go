package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliptube/backend/internal/models"
)

// registerForm builds the multipart registration request body.
func (suite *HandlersTestSuite) registerForm(username, email string) (*bytes.Buffer, string) {
	t := suite.T()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("fullname", "New User"))
	require.NoError(t, writer.WriteField("username", username))
	require.NoError(t, writer.WriteField("email", email))
	require.NoError(t, writer.WriteField("password", "password123"))

	avatar, err := writer.CreateFormFile("avatar", "avatar.png")
	require.NoError(t, err)
	_, err = avatar.Write([]byte("fake png bytes"))
	require.NoError(t, err)

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func (suite *HandlersTestSuite) TestRegisterAndLoginFlow() {
	t := suite.T()

	body, contentType := suite.registerForm("fresh", "fresh@test.com")
	req, _ := http.NewRequest("POST", "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	resp := suite.envelope(w)
	assert.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "fresh", data["username"])
	assert.Contains(t, data["avatar"], "https://cdn.test/")
	// Password material never leaves the server
	assert.NotContains(t, w.Body.String(), "password")

	w = suite.request("POST", "/api/v1/users/login", map[string]string{
		"username": "fresh",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	loginData := suite.envelope(w)["data"].(map[string]interface{})
	assert.NotEmpty(t, loginData["accessToken"])
	assert.NotEmpty(t, loginData["refreshToken"])

	cookies := w.Result().Cookies()
	names := make(map[string]bool)
	for _, c := range cookies {
		names[c.Name] = true
		assert.True(t, c.HttpOnly)
	}
	assert.True(t, names["accessToken"])
	assert.True(t, names["refreshToken"])
}

func (suite *HandlersTestSuite) TestRegisterDuplicateConflicts() {
	t := suite.T()

	body, contentType := suite.registerForm(suite.testUser.Username, "unique@test.com")
	req, _ := http.NewRequest("POST", "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, suite.envelope(w)["success"])
}

func (suite *HandlersTestSuite) TestLoginBadCredentials() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/users/login", map[string]string{
		"username": suite.testUser.Username,
		"password": "definitely-wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = suite.request("POST", "/api/v1/users/login", map[string]string{
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestGetCurrentUser() {
	t := suite.T()

	w := suite.request("GET", "/api/v1/users/current-user", nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)

	data := suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, suite.testUser.Username, data["username"])

	w = suite.request("GET", "/api/v1/users/current-user", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestUpdateAccount() {
	t := suite.T()

	w := suite.request("PATCH", "/api/v1/users/update-account", map[string]string{
		"fullname": "Renamed User",
		"email":    "renamed@test.com",
	}, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.User
	require.NoError(t, suite.db.First(&reloaded, "id = ?", suite.testUser.ID).Error)
	assert.Equal(t, "Renamed User", reloaded.Fullname)
	assert.Equal(t, "renamed@test.com", reloaded.Email)

	w = suite.request("PATCH", "/api/v1/users/update-account", map[string]string{
		"fullname": "No Email",
	}, suite.testUser.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestWatchHistoryEndpoint() {
	t := suite.T()

	first := suite.createVideo(suite.otherUser.ID, "First watch")
	second := suite.createVideo(suite.otherUser.ID, "Second watch")

	suite.request("GET", "/api/v1/videos/"+first.ID, nil, suite.testUser.ID)
	suite.request("GET", "/api/v1/videos/"+second.ID, nil, suite.testUser.ID)

	w := suite.request("GET", "/api/v1/users/history", nil, suite.testUser.ID)
	require.Equal(t, http.StatusOK, w.Code)

	data := suite.envelope(w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["totalItems"])

	items := data["items"].([]interface{})
	entry := items[0].(map[string]interface{})
	assert.Equal(t, suite.otherUser.Username, entry["ownerUsername"])
}
