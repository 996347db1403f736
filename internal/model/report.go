package model

// ReportRecord is a persisted summary of one completed analysis, owned
// exclusively by the profile report store. Created on successful
// analysis, deleted only by explicit user action, never mutated.
type ReportRecord struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	Condition  string  `json:"condition"`
	Confidence float64 `json:"confidence"`
	PDFPath    string  `json:"pdf_path"`
	ImagePath  string  `json:"image_path"`
	PatientID  string  `json:"patient_id"`
}
