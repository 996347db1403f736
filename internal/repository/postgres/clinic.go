package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/internal/repository"
	"github.com/skinsewa/api/pkg/errors"
)

type clinicRepository struct {
	db *sqlx.DB
}

func NewClinicRepository(db *sqlx.DB) repository.ClinicRepository {
	return &clinicRepository{db: db}
}

func (r *clinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	query := `
		INSERT INTO clinics (id, name, username, password, contact_email, contact_phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	clinic.CreatedAt = time.Now()
	clinic.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		clinic.ID,
		clinic.Name,
		clinic.Username,
		clinic.Password,
		clinic.ContactEmail,
		clinic.ContactPhone,
		clinic.CreatedAt,
		clinic.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create clinic: %w", err)
	}
	return nil
}

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `SELECT * FROM clinics WHERE id = $1`
	var clinic model.Clinic
	if err := r.db.GetContext(ctx, &clinic, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("clinic", err)
		}
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return &clinic, nil
}

func (r *clinicRepository) GetByUsername(ctx context.Context, username string) (*model.Clinic, error) {
	query := `SELECT * FROM clinics WHERE username = $1`
	var clinic model.Clinic
	if err := r.db.GetContext(ctx, &clinic, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("clinic", err)
		}
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return &clinic, nil
}

func (r *clinicRepository) List(ctx context.Context) ([]*model.Clinic, error) {
	query := `SELECT * FROM clinics ORDER BY name`
	var clinics []*model.Clinic
	if err := r.db.SelectContext(ctx, &clinics, query); err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return clinics, nil
}

func (r *clinicRepository) CreatePatientReport(ctx context.Context, report *model.PatientReport) error {
	query := `
		INSERT INTO patient_reports (id, clinic_id, report_id, patient_name, patient_email, patient_phone, diagnosis, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	report.CreatedAt = time.Now()
	report.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.ClinicID,
		report.ReportID,
		report.PatientName,
		report.PatientEmail,
		report.PatientPhone,
		report.Diagnosis,
		report.Notes,
		report.CreatedAt,
		report.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient report: %w", err)
	}
	return nil
}

func (r *clinicRepository) ListPatientReports(ctx context.Context, clinicID uuid.UUID) ([]*model.PatientReport, error) {
	query := `SELECT * FROM patient_reports WHERE clinic_id = $1 ORDER BY created_at DESC`
	var reports []*model.PatientReport
	if err := r.db.SelectContext(ctx, &reports, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list patient reports: %w", err)
	}
	return reports, nil
}

func (r *clinicRepository) CreateAppointment(ctx context.Context, appt *model.Appointment) error {
	query := `
		INSERT INTO appointments (id, clinic_id, patient_name, scheduled_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appt.ID,
		appt.ClinicID,
		appt.PatientName,
		appt.ScheduledAt,
		appt.Status,
		appt.CreatedAt,
		appt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *clinicRepository) ListAppointments(ctx context.Context, clinicID uuid.UUID) ([]*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE clinic_id = $1 ORDER BY scheduled_at`
	var appts []*model.Appointment
	if err := r.db.SelectContext(ctx, &appts, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

func (r *clinicRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}
