package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cliptube/backend/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	return NewService(db, []byte("test-access-secret"), []byte("test-refresh-secret"))
}

func registerTestUser(t *testing.T, s *Service, username string) *models.User {
	t.Helper()
	user, err := s.Register(context.Background(), RegisterRequest{
		Fullname: "Test " + username,
		Username: username,
		Email:    username + "@test.com",
		Password: "password123",
	}, "https://cdn.test/avatar.png", "")
	require.NoError(t, err)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	user := registerTestUser(t, s, "newuser")
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)

	logged, pair, err := s.Login(ctx, LoginRequest{Username: "newuser", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// Email works as the identifier too
	_, _, err = s.Login(ctx, LoginRequest{Email: "newuser@test.com", Password: "password123"})
	require.NoError(t, err)
}

func TestRegisterDuplicate(t *testing.T) {
	s := newTestService(t)

	registerTestUser(t, s, "taken")

	_, err := s.Register(context.Background(), RegisterRequest{
		Fullname: "Other",
		Username: "TAKEN",
		Email:    "other@test.com",
		Password: "password123",
	}, "", "")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterDuplicateRace(t *testing.T) {
	s := newTestService(t)

	// A rival registration lands between the existence check and the
	// insert; the unique index rejects ours and it must surface as
	// ErrUserExists rather than an internal error.
	inserted := false
	err := s.db.Callback().Create().Before("gorm:create").Register("rival_register", func(tx *gorm.DB) {
		if inserted {
			return
		}
		inserted = true
		rival := models.User{
			Username:     "racer",
			Email:        "racer@test.com",
			Fullname:     "Racer",
			PasswordHash: "x",
		}
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error)
	})
	require.NoError(t, err)
	defer s.db.Callback().Create().Remove("rival_register")

	_, err = s.Register(context.Background(), RegisterRequest{
		Fullname: "Racer",
		Username: "racer",
		Email:    "racer@test.com",
		Password: "password123",
	}, "https://cdn.test/avatar.png", "")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginFailures(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	registerTestUser(t, s, "secure")

	_, _, err := s.Login(ctx, LoginRequest{Username: "secure", Password: "wrongpassword"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.Login(ctx, LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	user := registerTestUser(t, s, "tokenuser")
	_, pair, err := s.Login(ctx, LoginRequest{Username: "tokenuser", Password: "password123"})
	require.NoError(t, err)

	validated, err := s.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, validated.ID)

	_, err = s.ValidateAccessToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Refresh tokens are signed with a different secret
	_, err = s.ValidateAccessToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRotation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	registerTestUser(t, s, "rotator")
	_, pair, err := s.Login(ctx, LoginRequest{Username: "rotator", Password: "password123"})
	require.NoError(t, err)

	_, next, err := s.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)

	// The old refresh token no longer matches the stored one
	_, _, err = s.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshMismatch)

	_, _, err = s.Refresh(ctx, next.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutClearsRefreshToken(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	user := registerTestUser(t, s, "leaver")
	_, pair, err := s.Login(ctx, LoginRequest{Username: "leaver", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, user.ID))

	_, _, err = s.Refresh(ctx, pair.RefreshToken)
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	user := registerTestUser(t, s, "changer")

	err := s.ChangePassword(ctx, user.ID, "wrongpassword", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, s.ChangePassword(ctx, user.ID, "password123", "newpassword1"))

	_, _, err = s.Login(ctx, LoginRequest{Username: "changer", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login(ctx, LoginRequest{Username: "changer", Password: "newpassword1"})
	require.NoError(t, err)
}
