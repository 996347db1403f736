package contact

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skinsewa/api/internal/email"
	"github.com/skinsewa/api/internal/handler"
	"github.com/skinsewa/api/internal/model"
)

type Handler struct {
	mailer email.Sender
}

func NewHandler(mailer email.Sender) *Handler {
	return &Handler{mailer: mailer}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/contact", h.Submit)
}

func (h *Handler) Submit(c *gin.Context) {
	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.mailer.SendContactMessage(&req); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
