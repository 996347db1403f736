package analysis

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skinsewa/api/internal/gateway/gemini"
	"github.com/skinsewa/api/internal/handler"
	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/internal/profile"
	analysisService "github.com/skinsewa/api/internal/service/analysis"
)

type Handler struct {
	service *analysisService.Service
	store   profile.Store
}

func NewHandler(service *analysisService.Service, store profile.Store) *Handler {
	return &Handler{service: service, store: store}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/analyze", h.Analyze)

	reports := r.Group("/reports")
	{
		reports.GET("", h.ListReports)
		reports.GET("/:id/pdf", h.DownloadReport)
		reports.DELETE("/:id", h.DeleteReport)
	}

	assessment := r.Group("/assessment")
	{
		assessment.GET("", h.GetAssessment)
		assessment.PUT("", h.SaveAssessment)
	}

	settings := r.Group("/settings")
	{
		settings.PUT("/api-key", h.SaveAPIKey)
		settings.GET("/api-key", h.GetAPIKeyStatus)
	}
}

func (h *Handler) Analyze(c *gin.Context) {
	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	ctx := c.Request.Context()
	if key, err := h.store.APIKey(); err == nil && key != "" {
		ctx = context.WithValue(ctx, gemini.APIKeyContextKey, key)
	}

	resp, err := h.service.Run(ctx, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

func (h *Handler) ListReports(c *gin.Context) {
	records, err := h.store.ListReports()
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

func (h *Handler) DownloadReport(c *gin.Context) {
	id := c.Param("id")
	pdf, err := h.store.ReadReportDocument(id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="SkinSewa_Report_`+id+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) DeleteReport(c *gin.Context) {
	if err := h.store.RemoveReport(c.Param("id")); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) GetAssessment(c *gin.Context) {
	ctx, err := h.store.PatientContext()
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(ctx))
}

func (h *Handler) SaveAssessment(c *gin.Context) {
	var req model.PatientContext
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.store.SavePatientContext(&req); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(&req))
}

type saveAPIKeyRequest struct {
	Key string `json:"key" binding:"required"`
}

func (h *Handler) SaveAPIKey(c *gin.Context) {
	var req saveAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.store.SaveAPIKey(req.Key); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// GetAPIKeyStatus reports whether a key is stored without revealing it.
func (h *Handler) GetAPIKeyStatus(c *gin.Context) {
	key, err := h.store.APIKey()
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"configured": key != ""}))
}
