package model

import (
	"time"

	"github.com/google/uuid"
)

type Clinic struct {
	Base
	Name         string `db:"name" json:"name"`
	Username     string `db:"username" json:"username"`
	Password     string `db:"password" json:"-"`
	ContactEmail string `db:"contact_email" json:"contact_email,omitempty"`
	ContactPhone string `db:"contact_phone" json:"contact_phone,omitempty"`
}

// PatientReport is the clinic-side intake record created when a patient
// forwards a generated report to a clinic.
type PatientReport struct {
	Base
	ClinicID     *uuid.UUID `db:"clinic_id" json:"clinic_id,omitempty"`
	ReportID     string     `db:"report_id" json:"report_id"`
	PatientName  string     `db:"patient_name" json:"patient_name"`
	PatientEmail string     `db:"patient_email" json:"patient_email,omitempty"`
	PatientPhone string     `db:"patient_phone" json:"patient_phone,omitempty"`
	Diagnosis    string     `db:"diagnosis" json:"diagnosis,omitempty"`
	Notes        string     `db:"notes" json:"notes,omitempty"`
}

type AppointmentStatus string

const (
	AppointmentStatusPending AppointmentStatus = "pending"
	AppointmentStatusChecked AppointmentStatus = "checked"
)

type Appointment struct {
	Base
	ClinicID    uuid.UUID         `db:"clinic_id" json:"clinic_id"`
	PatientName string            `db:"patient_name" json:"patient_name"`
	ScheduledAt time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Status      AppointmentStatus `db:"status" json:"status"`
}

type RegisterClinicRequest struct {
	Name         string `json:"name" binding:"required" validate:"required"`
	Username     string `json:"username" binding:"required" validate:"required,alphanum,min=3"`
	Password     string `json:"password" binding:"required,min=8" validate:"required,min=8"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email" validate:"omitempty,email"`
	ContactPhone string `json:"contact_phone"`
}

type SubmitPatientReportRequest struct {
	ClinicID     string `json:"clinic_id"`
	ReportID     string `json:"report_id" binding:"required" validate:"required"`
	PatientName  string `json:"patient_name" binding:"required" validate:"required"`
	PatientEmail string `json:"patient_email" binding:"omitempty,email" validate:"omitempty,email"`
	PatientPhone string `json:"patient_phone"`
	Diagnosis    string `json:"diagnosis"`
	Notes        string `json:"notes"`
}
