package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"github.com/linkcircle/backend/internal/models"
	"github.com/linkcircle/backend/internal/repositories"
	"gorm.io/gorm"
)

const (
	feedDefaultLimit = 20
	feedMaxLimit     = 100
)

// PostHandler handles HTTP requests related to posts and the public feed.
type PostHandler struct {
	postRepository    repositories.PostRepository
	profileRepository repositories.ProfileRepository
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postRepo repositories.PostRepository, profileRepo repositories.ProfileRepository) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		profileRepository: profileRepo,
	}
}

// RegisterPostRoutes registers post-related routes.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// ListPosts returns the reverse-chronological public feed. The limit is
// capped so a caller cannot request an unbounded page.
func (h *PostHandler) ListPosts(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = feedDefaultLimit
	}
	if limit > feedMaxLimit {
		limit = feedMaxLimit
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	posts, err := h.postRepository.ListPosts(c.Request().Context(), limit, offset)
	if err != nil {
		return models.NewInternalError(err)
	}
	if posts == nil {
		posts = []models.Post{}
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// CreatePost creates a new post attributed to the caller's profile.
func (h *PostHandler) CreatePost(c echo.Context) error {
	profile, err := resolveCallerProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return models.NewInvalidInputError("Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return models.NewInvalidInputError(err.Error())
	}

	if req.Content == "" && !req.HasMedia() {
		return models.NewInvalidInputError("Post must have content or media")
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	post := &models.Post{
		AuthorID:   profile.ID,
		Content:    req.Content,
		MediaURLs:  pq.StringArray(req.MediaURLs),
		MediaTypes: pq.StringArray(req.MediaTypes),
		IsPublic:   isPublic,
	}
	if post.MediaURLs == nil {
		post.MediaURLs = pq.StringArray{}
	}
	if post.MediaTypes == nil {
		post.MediaTypes = pq.StringArray{}
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return models.NewInternalError(err)
	}
	post.Author = profile

	return c.JSON(http.StatusCreated, echo.Map{"post": post})
}

// GetPost retrieves a single post by ID.
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return models.NewInvalidInputError("Invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post not found")
		}
		return models.NewInternalError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"post": post})
}

// DeletePost deletes the caller's own post. The delete is filtered by author
// id as well as post id, so deleting someone else's post affects zero rows
// and the post survives.
func (h *PostHandler) DeletePost(c echo.Context) error {
	profile, err := resolveCallerProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return models.NewInvalidInputError("Invalid post ID")
	}

	if err := h.postRepository.DeletePostByAuthor(c.Request().Context(), uint(id), profile.ID); err != nil {
		return models.NewInternalError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}
