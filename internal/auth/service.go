package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/util"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrRefreshMismatch    = errors.New("refresh token is expired or used")
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 10 * 24 * time.Hour
)

// Service handles registration, login, and the access/refresh token pair.
type Service struct {
	db            *gorm.DB
	accessSecret  []byte
	refreshSecret []byte
}

// NewService creates a new authentication service on the given database
// handle and signing secrets.
func NewService(db *gorm.DB, accessSecret, refreshSecret []byte) *Service {
	return &Service{
		db:            db,
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
	}
}

// TokenPair is an access/refresh token pair. The refresh token is also
// persisted on the user row; rotation invalidates the previous one.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Fullname string `form:"fullname" binding:"required,min=1,max=80"`
	Username string `form:"username" binding:"required,min=3,max=30"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=8"`
}

// LoginRequest represents a login request; either username or email
// identifies the account.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new user with a bcrypt-hashed password. Avatar and
// cover URLs come from the media host and are set by the caller.
func (s *Service) Register(ctx context.Context, req RegisterRequest, avatarURL, coverURL string) (*models.User, error) {
	var existing models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", req.Username, req.Email).
		First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Fullname:     req.Fullname,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Avatar:       avatarURL,
		CoverImage:   coverURL,
	}
	// A rival registration can land between the existence check and the
	// insert; the unique indexes surface it here.
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if util.IsDuplicateKeyError(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// Login authenticates by username or email and issues a fresh token pair.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*models.User, *TokenPair, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", req.Username, req.Email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrUserNotFound
	} else if err != nil {
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, &user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	user.LastActiveAt = &now
	s.db.WithContext(ctx).Model(&user).Update("last_active_at", now)

	return &user, pair, nil
}

// Logout clears the stored refresh token so the current pair cannot be
// refreshed again.
func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token", "").Error
}

// Refresh validates an incoming refresh token against the stored one and
// rotates the pair: the old refresh token is dead after this call.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	claims, err := s.parseToken(refreshToken, s.refreshSecret)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, nil, ErrInvalidToken
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, nil, ErrRefreshMismatch
	}

	pair, err := s.issueTokens(ctx, &user)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// ChangePassword verifies the old password and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.WithContext(ctx).Model(&user).Update("password_hash", string(hashed)).Error
}

// ValidateAccessToken validates an access token and loads the fresh user.
func (s *Service) ValidateAccessToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.parseToken(tokenString, s.accessSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// issueTokens signs a new access/refresh pair and persists the refresh
// token on the user row.
func (s *Service) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	now := time.Now()
	expiresAt := now.Add(accessTokenTTL)

	accessClaims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"exp":      expiresAt.Unix(),
		"iat":      now.Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	// jti makes every refresh token unique even within the same second, so
	// rotation always invalidates the previous one.
	refreshClaims := jwt.MapClaims{
		"user_id": user.ID,
		"jti":     uuid.New().String(),
		"exp":     now.Add(refreshTokenTTL).Unix(),
		"iat":     now.Unix(),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(s.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(user).Update("refresh_token", refreshToken).Error; err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	user.RefreshToken = refreshToken

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) parseToken(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
