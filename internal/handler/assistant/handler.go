package assistant

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skinsewa/api/internal/gateway/gemini"
	"github.com/skinsewa/api/internal/handler"
	"github.com/skinsewa/api/internal/profile"
	assistantService "github.com/skinsewa/api/internal/service/assistant"
)

type Handler struct {
	service *assistantService.Service
	store   profile.Store
}

func NewHandler(service *assistantService.Service, store profile.Store) *Handler {
	return &Handler{service: service, store: store}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/assistant/chat", h.Chat)
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	ctx := c.Request.Context()
	if key, err := h.store.APIKey(); err == nil && key != "" {
		ctx = context.WithValue(ctx, gemini.APIKeyContextKey, key)
	}

	reply, err := h.service.Ask(ctx, req.Message)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(reply))
}
