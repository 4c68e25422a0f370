package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/query"
	"github.com/cliptube/backend/internal/util"
)

// AddBlog creates a long-form post, optionally with a thumbnail image.
func (h *Handlers) AddBlog(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var form struct {
		Title   string `form:"title" binding:"required"`
		Content string `form:"content" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		util.RespondValidationError(c, "body", "title and content are required")
		return
	}

	thumbnailURL := ""
	if _, ferr := c.FormFile("thumbnail"); ferr == nil {
		url, err := h.uploadFormFile(c, "thumbnail", "thumbnails", userID)
		if err != nil {
			util.RespondInternalError(c, "Failed to upload thumbnail")
			return
		}
		thumbnailURL = url
	}

	blog := models.Blog{
		Title:       form.Title,
		Content:     form.Content,
		Thumbnail:   thumbnailURL,
		CreatedByID: userID,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&blog).Error; err != nil {
		util.HandleDBError(c, err, "Blog")
		return
	}
	util.RespondCreated(c, blog, "Blog created successfully")
}

// BlogRow is a blog list entry joined with its author's public fields.
type BlogRow struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Thumbnail      string    `json:"thumbnail"`
	CreatedAt      time.Time `json:"createdAt"`
	AuthorID       string    `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
	AuthorAvatar   string    `json:"authorAvatar"`
}

// GetUserBlogs lists a user's blogs, newest first, paginated.
func (h *Handlers) GetUserBlogs(c *gin.Context) {
	authorID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	stages := []query.Stage{
		query.Match{Eq: map[string]interface{}{"blogs.created_by_id": authorID}},
		query.Lookup{From: "users", LocalKey: "created_by_id", ForeignKey: "id", As: "author"},
		query.Unwind{Field: "author"},
		query.Project{Fields: map[string]string{
			"id":              "blogs.id",
			"title":           "blogs.title",
			"content":         "blogs.content",
			"thumbnail":       "blogs.thumbnail",
			"created_at":      "blogs.created_at",
			"author_id":       "blogs.created_by_id",
			"author_username": "author.username",
			"author_avatar":   "author.avatar",
		}},
		query.Sort{Key: "blogs.created_at", Desc: true},
	}

	result, err := query.Run[BlogRow](c.Request.Context(), h.db, "blogs", stages, pageRequest(c))
	if err != nil {
		h.respondQueryError(c, err, "blogs")
		return
	}
	util.Respond(c, http.StatusOK, result, "Blogs fetched successfully")
}

// UpdateBlog edits a blog the user authored.
func (h *Handlers) UpdateBlog(c *gin.Context) {
	blogID, ok := parseIDParam(c, "blogId")
	if !ok {
		return
	}

	blog, ok := loadOwned[models.Blog](c, h.db, blogID, "Blog", func(b *models.Blog) string { return b.CreatedByID })
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if title := c.PostForm("title"); title != "" {
		updates["title"] = title
	}
	if content := c.PostForm("content"); content != "" {
		updates["content"] = content
	}
	if _, err := c.FormFile("thumbnail"); err == nil {
		url, uerr := h.uploadFormFile(c, "thumbnail", "thumbnails", blog.CreatedByID)
		if uerr != nil {
			util.RespondInternalError(c, "Failed to upload thumbnail")
			return
		}
		updates["thumbnail"] = url
	}
	if len(updates) == 0 {
		util.RespondValidationError(c, "body", "nothing to update")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(blog).Updates(updates).Error; err != nil {
		util.HandleDBError(c, err, "Blog")
		return
	}
	util.Respond(c, http.StatusOK, blog, "Blog updated successfully")
}

// DeleteBlog removes a blog the user authored.
func (h *Handlers) DeleteBlog(c *gin.Context) {
	blogID, ok := parseIDParam(c, "blogId")
	if !ok {
		return
	}

	blog, ok := loadOwned[models.Blog](c, h.db, blogID, "Blog", func(b *models.Blog) string { return b.CreatedByID })
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(blog).Error; err != nil {
		util.HandleDBError(c, err, "Blog")
		return
	}
	util.Respond(c, http.StatusOK, nil, "Blog deleted successfully")
}
