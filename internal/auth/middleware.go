package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/cliptube/backend/internal/util"
)

// AccessTokenCookie and RefreshTokenCookie are the cookie names set on
// login and cleared on logout.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Middleware resolves the current actor from the access token cookie or an
// Authorization bearer header, loads the user, and puts both the id and the
// user object on the request context. Requests without a valid token get a
// 401 envelope.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
			tokenString = cookie
		}
		if tokenString == "" {
			header := c.GetHeader("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				tokenString = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if tokenString == "" {
			util.RespondUnauthorized(c)
			c.Abort()
			return
		}

		user, err := s.ValidateAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			util.RespondUnauthorized(c, "invalid access token")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Next()
	}
}
