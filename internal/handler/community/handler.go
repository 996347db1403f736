package community

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skinsewa/api/internal/handler"
	"github.com/skinsewa/api/internal/middleware"
	"github.com/skinsewa/api/internal/model"
	communityService "github.com/skinsewa/api/internal/service/community"
)

type Handler struct {
	service *communityService.Service
	feed    *communityService.Feed
}

func NewHandler(service *communityService.Service, feed *communityService.Feed) *Handler {
	return &Handler{service: service, feed: feed}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/community/feed", h.Feed)

	posts := r.Group("/community/posts")
	{
		posts.GET("", h.ListPosts)
		posts.POST("", h.CreateTopic)
		posts.GET("/:id", h.GetPost)
		posts.POST("/:id/like", h.ToggleLike)
		posts.POST("/:id/share", h.Share)
		posts.POST("/:id/vote", h.Vote)
		posts.GET("/:id/comments", h.ListComments)
		posts.POST("/:id/comments", h.AddComment)
	}
}

// Feed serves the broker-fed in-memory view. It lags the database by at
// most one outbox poll interval and never rolls counters backwards.
func (h *Handler) Feed(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.feed.Posts()))
}

func (h *Handler) ListPosts(c *gin.Context) {
	snapshot, err := h.service.LoadAll(c.Request.Context(), c.GetString(middleware.ContextViewerID))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(snapshot))
}

func (h *Handler) GetPost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid post ID"))
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(post))
}

func (h *Handler) CreateTopic(c *gin.Context) {
	var req model.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	post, err := h.service.CreateTopic(c.Request.Context(), c.GetString(middleware.ContextViewerID), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(post))
}

func (h *Handler) ToggleLike(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid post ID"))
		return
	}

	post, liked, err := h.service.ToggleLike(c.Request.Context(), id, c.GetString(middleware.ContextViewerID))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"post": post, "liked": liked}))
}

func (h *Handler) Share(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid post ID"))
		return
	}

	post, err := h.service.Share(c.Request.Context(), id, c.GetString(middleware.ContextViewerID))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(post))
}

func (h *Handler) Vote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid post ID"))
		return
	}

	var req model.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	post, err := h.service.Vote(c.Request.Context(), id, c.GetString(middleware.ContextViewerID), req.SelectedOptions)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(post))
}

func (h *Handler) ListComments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid post ID"))
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(comments))
}

func (h *Handler) AddComment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid post ID"))
		return
	}

	var req model.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), id, c.GetString(middleware.ContextViewerID), req.Text)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(comment))
}
