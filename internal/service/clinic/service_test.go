package clinic

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/pkg/auth"
	"github.com/skinsewa/api/pkg/errors"
	"github.com/skinsewa/api/pkg/logger"
	"github.com/skinsewa/api/pkg/security"
)

type memoryRepo struct {
	clinics      map[uuid.UUID]*model.Clinic
	reports      []*model.PatientReport
	appointments map[uuid.UUID]*model.Appointment
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		clinics:      make(map[uuid.UUID]*model.Clinic),
		appointments: make(map[uuid.UUID]*model.Appointment),
	}
}

func (r *memoryRepo) Create(_ context.Context, clinic *model.Clinic) error {
	r.clinics[clinic.ID] = clinic
	return nil
}

func (r *memoryRepo) Get(_ context.Context, id uuid.UUID) (*model.Clinic, error) {
	clinic, ok := r.clinics[id]
	if !ok {
		return nil, errors.NotFound("clinic", nil)
	}
	return clinic, nil
}

func (r *memoryRepo) GetByUsername(_ context.Context, username string) (*model.Clinic, error) {
	for _, clinic := range r.clinics {
		if clinic.Username == username {
			return clinic, nil
		}
	}
	return nil, errors.NotFound("clinic", nil)
}

func (r *memoryRepo) List(_ context.Context) ([]*model.Clinic, error) {
	clinics := make([]*model.Clinic, 0, len(r.clinics))
	for _, clinic := range r.clinics {
		clinics = append(clinics, clinic)
	}
	return clinics, nil
}

func (r *memoryRepo) CreatePatientReport(_ context.Context, report *model.PatientReport) error {
	r.reports = append(r.reports, report)
	return nil
}

func (r *memoryRepo) ListPatientReports(_ context.Context, clinicID uuid.UUID) ([]*model.PatientReport, error) {
	var out []*model.PatientReport
	for _, report := range r.reports {
		if report.ClinicID != nil && *report.ClinicID == clinicID {
			out = append(out, report)
		}
	}
	return out, nil
}

func (r *memoryRepo) CreateAppointment(_ context.Context, appt *model.Appointment) error {
	r.appointments[appt.ID] = appt
	return nil
}

func (r *memoryRepo) ListAppointments(_ context.Context, clinicID uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, appt := range r.appointments {
		if appt.ClinicID == clinicID {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (r *memoryRepo) UpdateAppointmentStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	appt, ok := r.appointments[id]
	if !ok {
		return errors.NotFound("appointment", nil)
	}
	appt.Status = status
	return nil
}

func newTestService() (*Service, *memoryRepo, auth.JWTService) {
	repo := newMemoryRepo()
	jwtSvc := auth.NewJWTService("test-secret", 1)
	svc := NewService(repo, security.NewBcryptHasher(4), jwtSvc, logger.NewLogger(nil))
	return svc, repo, jwtSvc
}

func registerRequest() *model.RegisterClinicRequest {
	return &model.RegisterClinicRequest{
		Name:         "Derma Care",
		Username:     "dermacare",
		Password:     "supersecret",
		ContactEmail: "info@dermacare.example",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, jwtSvc := newTestService()
	ctx := context.Background()

	clinic, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, clinic.ID)
	assert.NotEqual(t, "supersecret", clinic.Password, "password must be stored hashed")

	token, err := svc.Login(ctx, &model.LoginRequest{Username: "dermacare", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, "clinic", token.Role)
	assert.Equal(t, "Derma Care", token.Name)

	claims, err := jwtSvc.ValidateToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, clinic.ID, claims.SubjectID)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConflict))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _, _ := newTestService()

	req := registerRequest()
	req.Password = "short"
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
}

func TestSubmitPatientReportRejectsMissingName(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.SubmitPatientReport(context.Background(), &model.SubmitPatientReportRequest{
		ReportID: "R123456",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Username: "dermacare", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUnauthorized))
}

func TestLoginRejectsUnknownUsername(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Login(context.Background(), &model.LoginRequest{Username: "nobody", Password: "whatever"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUnauthorized))
}

func TestSubmitPatientReport(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	clinic, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	report, err := svc.SubmitPatientReport(ctx, &model.SubmitPatientReportRequest{
		ClinicID:    clinic.ID.String(),
		ReportID:    "R123456",
		PatientName: "Asha",
		Diagnosis:   "Eczema",
	})
	require.NoError(t, err)
	require.NotNil(t, report.ClinicID)
	assert.Equal(t, clinic.ID, *report.ClinicID)

	reports, err := svc.ListPatientReports(ctx, clinic.ID)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestSubmitPatientReportRejectsUnknownClinic(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.SubmitPatientReport(context.Background(), &model.SubmitPatientReportRequest{
		ClinicID:    uuid.New().String(),
		ReportID:    "R123456",
		PatientName: "Asha",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
}

func TestBookAndCheckAppointment(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	clinic, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	appt, err := svc.BookAppointment(ctx, clinic.ID, "Asha", time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, appt.Status)

	require.NoError(t, svc.CheckAppointment(ctx, appt.ID))

	appts, err := svc.ListAppointments(ctx, clinic.ID)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, model.AppointmentStatusChecked, appts[0].Status)
}

func TestBookAppointmentRejectsPastTime(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	clinic, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.BookAppointment(ctx, clinic.ID, "Asha", time.Now().Add(-time.Hour))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBadRequest))
}
