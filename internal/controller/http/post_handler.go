package http

import (
	"errors"
	"net/http"
	"strconv"

	"quill-post/internal/usecase"
	"quill-post/pkg/logger"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, log *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase: postUseCase,
		logger:      log,
	}
}

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
}

type UpdatePostRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
}

// CreatePost godoc
// @Summary      Create a new post
// @Description  Create a text post. The slug is derived from the title; users may create at most 3 posts per UTC day.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePostRequest true "Post data"
// @Success      201  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postUseCase.CreatePost(c.Request.Context(), userID, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, usecase.ErrQuotaExceeded) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "You have reached your daily post limit of 3 posts"})
			return
		}
		h.logger.Error("failed to create post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post, please try again later"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary      Get a post by slug
// @Tags         posts
// @Produce      json
// @Param        slug path string true "Post slug"
// @Success      200  {object}  entity.Post
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{slug} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	post, err := h.postUseCase.GetPost(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		h.logger.Error("failed to get post %s: %v", slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load post, please try again later"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// ListPosts godoc
// @Summary      List posts
// @Description  Paginated listing of all posts, newest first, 20 per page.
// @Tags         posts
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Success      200  {object}  entity.PostPage
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	listing, err := h.postUseCase.ListPosts(c.Request.Context(), page)
	if err != nil {
		h.logger.Error("failed to list posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posts, please try again later"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// UpdatePost godoc
// @Summary      Update a post
// @Description  Update title and content of an owned post. The slug never changes.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Post slug"
// @Param        request body UpdatePostRequest true "New post data"
// @Success      200  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{slug} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID := c.GetString("user_id")
	slug := c.Param("slug")

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postUseCase.UpdatePost(c.Request.Context(), userID, slug, req.Title, req.Content)
	if err != nil {
		h.respondWriteError(c, slug, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Post slug"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{slug} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID := c.GetString("user_id")
	slug := c.Param("slug")

	if err := h.postUseCase.DeletePost(c.Request.Context(), userID, slug); err != nil {
		h.respondWriteError(c, slug, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (h *PostHandler) respondWriteError(c *gin.Context, slug string, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only modify your own posts"})
	default:
		h.logger.Error("write on post %s failed: %v", slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again later"})
	}
}
