package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cliptube/backend/internal/auth"
	"github.com/cliptube/backend/internal/cache"
	"github.com/cliptube/backend/internal/metrics"
	"github.com/cliptube/backend/internal/query"
	"github.com/cliptube/backend/internal/reactions"
	"github.com/cliptube/backend/internal/storage"
	"github.com/cliptube/backend/internal/util"
)

// Handlers holds dependencies for HTTP handlers
type Handlers struct {
	db        *gorm.DB
	auth      *auth.Service
	media     storage.Uploader
	cache     *cache.Client
	reactions *reactions.Store
	metrics   *metrics.Metrics
}

// NewHandlers creates a new handlers instance with all dependencies
func NewHandlers(db *gorm.DB, authSvc *auth.Service, media storage.Uploader, cacheClient *cache.Client, reactionStore *reactions.Store, m *metrics.Metrics) *Handlers {
	return &Handlers{
		db:        db,
		auth:      authSvc,
		media:     media,
		cache:     cacheClient,
		reactions: reactionStore,
		metrics:   m,
	}
}

// RegisterRoutes mounts the API surface under /api/v1. Routes that mutate or
// read user-scoped state sit behind the auth middleware.
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	users := api.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/refresh-token", h.RefreshAccessToken)
	}

	authed := api.Group("")
	authed.Use(h.auth.Middleware())
	{
		u := authed.Group("/users")
		{
			u.POST("/logout", h.Logout)
			u.POST("/change-password", h.ChangePassword)
			u.GET("/current-user", h.GetCurrentUser)
			u.PATCH("/update-account", h.UpdateAccount)
			u.PATCH("/avatar", h.UpdateAvatar)
			u.PATCH("/cover-image", h.UpdateCoverImage)
			u.GET("/c/:username", h.GetChannelProfile)
			u.GET("/history", h.GetWatchHistory)
		}

		v := authed.Group("/videos")
		{
			v.GET("", h.GetAllVideos)
			v.POST("", h.PublishVideo)
			v.GET("/:videoId", h.GetVideoByID)
			v.PATCH("/:videoId", h.UpdateVideo)
			v.DELETE("/:videoId", h.DeleteVideo)
			v.PATCH("/toggle/publish/:videoId", h.TogglePublishStatus)
		}

		t := authed.Group("/tweets")
		{
			t.POST("", h.CreateTweet)
			t.GET("/user/:userId", h.GetUserTweets)
			t.PATCH("/:tweetId", h.UpdateTweet)
			t.DELETE("/:tweetId", h.DeleteTweet)
		}

		b := authed.Group("/blogs")
		{
			b.POST("", h.AddBlog)
			b.GET("/:userId", h.GetUserBlogs)
			b.PATCH("/b/:blogId", h.UpdateBlog)
			b.DELETE("/b/:blogId", h.DeleteBlog)
		}

		c := authed.Group("/comments")
		{
			c.GET("/:videoId", h.GetVideoComments)
			c.POST("/:videoId", h.AddComment)
			c.PATCH("/c/:commentId", h.UpdateComment)
			c.DELETE("/c/:commentId", h.DeleteComment)
		}

		l := authed.Group("/likes")
		{
			l.POST("/toggle/v/:videoId", h.ToggleVideoLike)
			l.POST("/toggle/c/:commentId", h.ToggleCommentLike)
			l.POST("/toggle/t/:tweetId", h.ToggleTweetLike)
			l.GET("/videos", h.GetLikedVideos)
		}

		s := authed.Group("/subscriptions")
		{
			s.POST("/c/:channelId", h.ToggleSubscription)
			s.GET("/c/:channelId", h.GetChannelSubscribers)
			s.GET("/u/:subscriberId", h.GetSubscribedChannels)
		}

		p := authed.Group("/playlists")
		{
			p.POST("", h.CreatePlaylist)
			p.GET("/user/:userId", h.GetUserPlaylists)
			p.GET("/:playlistId", h.GetPlaylistByID)
			p.PATCH("/:playlistId", h.UpdatePlaylist)
			p.DELETE("/:playlistId", h.DeletePlaylist)
			p.PATCH("/add/:videoId/:playlistId", h.AddVideoToPlaylist)
			p.PATCH("/remove/:videoId/:playlistId", h.RemoveVideoFromPlaylist)
		}
	}
}

// pageRequest reads page/limit query params with the usual defaults.
func pageRequest(c *gin.Context) query.PageRequest {
	return query.PageRequest{
		Page:  util.ParsePositiveInt(c.Query("page"), 1),
		Limit: util.ParsePositiveInt(c.Query("limit"), 10),
	}
}
