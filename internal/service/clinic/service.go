package clinic

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/internal/repository"
	"github.com/skinsewa/api/pkg/auth"
	"github.com/skinsewa/api/pkg/errors"
	"github.com/skinsewa/api/pkg/logger"
	"github.com/skinsewa/api/pkg/security"
	"github.com/skinsewa/api/pkg/validator"
)

// Service handles clinic registration, dashboard login and the
// clinic-side records: forwarded patient reports and appointments.
type Service struct {
	repo     repository.ClinicRepository
	hasher   security.PasswordHasher
	jwt      auth.JWTService
	validate *validator.Validator
	logger   *logger.Logger
}

func NewService(repo repository.ClinicRepository, hasher security.PasswordHasher, jwt auth.JWTService, logger *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		jwt:      jwt,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterClinicRequest) (*model.Clinic, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errors.Validation(err.Error(), err)
	}

	if existing, err := s.repo.GetByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, errors.Conflict("username is already taken")
	} else if err != nil && !errors.IsCode(err, errors.ErrNotFound) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.BadRequest("invalid password", err)
	}

	clinic := &model.Clinic{
		Base:         model.Base{ID: uuid.New()},
		Name:         req.Name,
		Username:     req.Username,
		Password:     hashed,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	}
	if err := s.repo.Create(ctx, clinic); err != nil {
		return nil, err
	}

	s.logger.Info("clinic registered", "clinic_id", clinic.ID, "name", clinic.Name)
	return clinic, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	clinic, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.IsCode(err, errors.ErrNotFound) {
			return nil, errors.Unauthorized(err)
		}
		return nil, err
	}

	if err := s.hasher.Compare(clinic.Password, req.Password); err != nil {
		return nil, errors.Unauthorized(err)
	}

	token, err := s.jwt.GenerateToken(clinic.ID, "clinic", clinic.Name)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		Token: token,
		Role:  "clinic",
		Name:  clinic.Name,
	}, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Clinic, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	return s.repo.Get(ctx, id)
}

// SubmitPatientReport records a report a patient forwarded to a clinic.
func (s *Service) SubmitPatientReport(ctx context.Context, req *model.SubmitPatientReportRequest) (*model.PatientReport, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errors.Validation(err.Error(), err)
	}

	report := &model.PatientReport{
		Base:         model.Base{ID: uuid.New()},
		ReportID:     req.ReportID,
		PatientName:  req.PatientName,
		PatientEmail: req.PatientEmail,
		PatientPhone: req.PatientPhone,
		Diagnosis:    req.Diagnosis,
		Notes:        req.Notes,
	}

	if req.ClinicID != "" {
		clinicID, err := uuid.Parse(req.ClinicID)
		if err != nil {
			return nil, errors.BadRequest("invalid clinic id", err)
		}
		if _, err := s.repo.Get(ctx, clinicID); err != nil {
			return nil, err
		}
		report.ClinicID = &clinicID
	}

	if err := s.repo.CreatePatientReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) ListPatientReports(ctx context.Context, clinicID uuid.UUID) ([]*model.PatientReport, error) {
	return s.repo.ListPatientReports(ctx, clinicID)
}

func (s *Service) BookAppointment(ctx context.Context, clinicID uuid.UUID, patientName string, scheduledAt time.Time) (*model.Appointment, error) {
	if scheduledAt.Before(time.Now()) {
		return nil, errors.BadRequest("appointment must be in the future", nil)
	}
	if _, err := s.repo.Get(ctx, clinicID); err != nil {
		return nil, err
	}

	appt := &model.Appointment{
		Base:        model.Base{ID: uuid.New()},
		ClinicID:    clinicID,
		PatientName: patientName,
		ScheduledAt: scheduledAt,
		Status:      model.AppointmentStatusPending,
	}
	if err := s.repo.CreateAppointment(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *Service) ListAppointments(ctx context.Context, clinicID uuid.UUID) ([]*model.Appointment, error) {
	return s.repo.ListAppointments(ctx, clinicID)
}

// CheckAppointment marks a pending appointment as seen by the clinic.
func (s *Service) CheckAppointment(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateAppointmentStatus(ctx, id, model.AppointmentStatusChecked)
}
