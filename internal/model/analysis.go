package model

// ConditionNotSkin is the sentinel condition returned by the model when
// the submitted image does not show human skin. An analysis carrying it
// is a successful call that signals rejection, not a failure.
const ConditionNotSkin = "Not a skin condition"

// AnalysisResult is the normalized output of one analysis invocation.
// All numeric fields are clamped into [0,1] with two-decimal precision
// by the gateway; the struct is immutable after construction.
type AnalysisResult struct {
	Condition         string   `json:"condition"`
	Confidence        float64  `json:"confidence"`
	Description       string   `json:"description"`
	Recommendations   []string `json:"recommendations"`
	Severity          float64  `json:"severity"`
	TreatmentResponse float64  `json:"treatmentResponse"`
	RecurrenceRate    float64  `json:"recurrenceRate"`
	SpreadRate        float64  `json:"spreadRate"`
}

// IsSkinCondition reports whether the result names an actual diagnosis.
func (r *AnalysisResult) IsSkinCondition() bool {
	return r.Condition != ConditionNotSkin
}

// PatientContext is the free-form profile captured once per browser
// session by the assessment form. One active record per profile,
// overwrite semantics.
type PatientContext struct {
	PatientID  string `json:"patientId"`
	Name       string `json:"name"`
	Age        string `json:"age"`
	Complexion string `json:"complexion"`
	Symptoms   string `json:"symptoms"`
	Products   string `json:"products"`
}

// AnalyzeRequest carries one analysis invocation. ImageData is a data
// URI with the image re-encoded as base64.
type AnalyzeRequest struct {
	ImageData string          `json:"image_data" binding:"required"`
	Patient   *PatientContext `json:"patient,omitempty"`
}

// AnalyzeResponse wraps the outcome for the UI. Report fields are empty
// when the analysis signalled rejection.
type AnalyzeResponse struct {
	Result   *AnalysisResult `json:"result"`
	ReportID string          `json:"report_id,omitempty"`
	Rejected bool            `json:"rejected"`
}
