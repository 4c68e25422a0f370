package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/cliptube/backend/internal/logger"
	"github.com/cliptube/backend/internal/util"
	"go.uber.org/zap"
)

// RequestLogger logs each request with method, path, status and latency.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// Recovery turns a handler panic into a 500 envelope instead of a dropped
// connection, without leaking internal detail to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error("handler panic",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				if !c.Writer.Written() {
					util.RespondInternalError(c, "internal server error")
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}

// NoRoute returns a 404 envelope for unmatched paths.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, util.Envelope{
			StatusCode: http.StatusNotFound,
			Data:       nil,
			Message:    "route not found",
			Success:    false,
		})
	}
}
