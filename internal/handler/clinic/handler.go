package clinic

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skinsewa/api/internal/email"
	"github.com/skinsewa/api/internal/handler"
	"github.com/skinsewa/api/internal/middleware"
	"github.com/skinsewa/api/internal/model"
	clinicService "github.com/skinsewa/api/internal/service/clinic"
	"github.com/skinsewa/api/pkg/logger"
)

type Handler struct {
	service *clinicService.Service
	mailer  email.Sender
	logger  *logger.Logger
}

func NewHandler(service *clinicService.Service, mailer email.Sender, logger *logger.Logger) *Handler {
	return &Handler{service: service, mailer: mailer, logger: logger}
}

// RegisterRoutes mounts the routes reachable without a dashboard token.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clinics := r.Group("/clinics")
	{
		clinics.POST("/register", h.Register)
		clinics.POST("/login", h.Login)
		clinics.GET("", h.ListClinics)
		clinics.POST("/:id/appointments", h.BookAppointment)
	}
	r.POST("/patient-reports", h.SubmitPatientReport)
}

// RegisterProtectedRoutes mounts the dashboard routes; the group must
// already carry the auth middleware.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("/patient-reports", h.ListPatientReports)
		dashboard.GET("/appointments", h.ListAppointments)
		dashboard.PUT("/appointments/:id/check", h.CheckAppointment)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	clinic, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	if err := h.mailer.SendWelcome(clinic.ContactEmail, clinic.Name); err != nil {
		h.logger.Error(err, "failed to send welcome email", "clinic_id", clinic.ID)
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(clinic))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	token, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(token))
}

func (h *Handler) ListClinics(c *gin.Context) {
	clinics, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(clinics))
}

func (h *Handler) SubmitPatientReport(c *gin.Context) {
	var req model.SubmitPatientReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	report, err := h.service.SubmitPatientReport(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(report))
}

type bookAppointmentRequest struct {
	PatientName string    `json:"patient_name" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

func (h *Handler) BookAppointment(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	var req bookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appt, err := h.service.BookAppointment(c.Request.Context(), clinicID, req.PatientName, req.ScheduledAt)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(appt))
}

func (h *Handler) ListPatientReports(c *gin.Context) {
	clinicID, err := uuid.Parse(c.GetString(middleware.ContextClinicID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	reports, err := h.service.ListPatientReports(c.Request.Context(), clinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(reports))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	clinicID, err := uuid.Parse(c.GetString(middleware.ContextClinicID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	appts, err := h.service.ListAppointments(c.Request.Context(), clinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appts))
}

func (h *Handler) CheckAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.service.CheckAppointment(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
