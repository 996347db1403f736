package blog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skinsewa/api/internal/handler"
	blogService "github.com/skinsewa/api/internal/service/blog"
)

type Handler struct {
	service *blogService.Service
}

func NewHandler(service *blogService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	posts := r.Group("/blog")
	{
		posts.GET("", h.ListPosts)
		posts.GET("/:id", h.GetPost)
	}
}

func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(posts))
}

func (h *Handler) GetPost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid post ID"))
		return
	}

	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(post))
}
