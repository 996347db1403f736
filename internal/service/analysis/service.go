package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/internal/profile"
	"github.com/skinsewa/api/internal/report"
	"github.com/skinsewa/api/pkg/errors"
	"github.com/skinsewa/api/pkg/logger"
	"github.com/skinsewa/api/pkg/metrics"
)

// Analyzer is the gateway boundary wrapping the external model call.
type Analyzer interface {
	Analyze(ctx context.Context, imageDataURI, patientContextText string) (*model.AnalysisResult, error)
}

// DocumentBuilder builds the report artifact for a completed analysis.
type DocumentBuilder interface {
	Build(result *model.AnalysisResult, patientContextText, imageDataURI string) (*report.Document, error)
}

// Service runs the client-visible analysis workflow: validate the
// image, invoke the gateway, build and persist the report. Each
// invocation is independent; re-running the same image produces a new
// report id and a new record.
type Service struct {
	gateway Analyzer
	codec   DocumentBuilder
	store   profile.Store
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(gateway Analyzer, codec DocumentBuilder, store profile.Store, logger *logger.Logger, metrics *metrics.Metrics) *Service {
	return &Service{
		gateway: gateway,
		codec:   codec,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// acceptedImageTypes are the only MIME types forwarded to the gateway.
var acceptedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/heic": true,
}

// Run executes one analysis. A non-skin result is returned as-is with
// Rejected set and nothing persisted; gateway and parse failures
// propagate untouched.
func (s *Service) Run(ctx context.Context, req *model.AnalyzeRequest) (*model.AnalyzeResponse, error) {
	if s.metrics != nil {
		timer := prometheus.NewTimer(s.metrics.AnalysisDuration)
		defer timer.ObserveDuration()
	}

	if err := validateImage(req.ImageData); err != nil {
		s.count("validation_error")
		return nil, err
	}

	patient := req.Patient
	if patient == nil {
		stored, err := s.store.PatientContext()
		if err != nil {
			return nil, err
		}
		patient = stored
	}
	patientText := FormatPatientContext(patient)

	result, err := s.gateway.Analyze(ctx, req.ImageData, patientText)
	if err != nil {
		s.countGatewayFailure(err)
		return nil, err
	}

	if !result.IsSkinCondition() {
		s.count("rejected")
		s.logger.Info("analysis rejected non-skin image", "description", result.Description)
		return &model.AnalyzeResponse{Result: result, Rejected: true}, nil
	}

	doc, err := s.codec.Build(result, patientText, req.ImageData)
	if err != nil {
		return nil, err
	}

	reportID, err := s.uniqueReportID(doc.ID)
	if err != nil {
		return nil, err
	}

	pdfPath, err := s.store.SaveReportDocument(reportID, doc.PDF)
	if err != nil {
		return nil, err
	}
	imagePath, err := s.store.SaveReportImage(reportID, req.ImageData)
	if err != nil {
		return nil, err
	}

	rec := &model.ReportRecord{
		ID:         reportID,
		Date:       time.Now().Format("2006-01-02"),
		Condition:  result.Condition,
		Confidence: result.Confidence,
		PDFPath:    pdfPath,
		ImagePath:  imagePath,
		PatientID:  patientID(patient),
	}
	if err := s.store.AppendReport(rec); err != nil {
		return nil, err
	}

	s.count("success")
	if s.metrics != nil {
		s.metrics.ReportsGenerated.Inc()
	}
	s.logger.Info("analysis completed", "report_id", reportID, "condition", result.Condition)

	return &model.AnalyzeResponse{Result: result, ReportID: reportID}, nil
}

// uniqueReportID keeps the generated id distinct from every prior
// record; display ids are short random numbers so collisions are
// possible.
func (s *Service) uniqueReportID(id string) (string, error) {
	records, err := s.store.ListReports()
	if err != nil {
		return "", err
	}
	existing := make(map[string]bool, len(records))
	for _, rec := range records {
		existing[rec.ID] = true
	}
	for existing[id] {
		id = report.NewReportID()
	}
	return id, nil
}

// validateImage rejects unsupported image payloads before any network
// call is made.
func validateImage(dataURI string) error {
	if !strings.HasPrefix(dataURI, "data:") {
		return errors.Validation("image must be supplied as a data URI", nil)
	}
	comma := strings.Index(dataURI, ",")
	if comma < 0 {
		return errors.Validation("image data URI has no payload", nil)
	}
	meta := strings.TrimSuffix(dataURI[len("data:"):comma], ";base64")
	if !acceptedImageTypes[meta] {
		return errors.Validation(fmt.Sprintf("unsupported image type %q", meta), nil)
	}
	return nil
}

// FormatPatientContext renders the structured profile into the
// free-text block the gateway prompt expects.
func FormatPatientContext(p *model.PatientContext) string {
	if p == nil {
		return "No patient information provided."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Patient ID: %s\n", p.PatientID)
	if p.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", p.Name)
	}
	if p.Age != "" {
		fmt.Fprintf(&b, "Age: %s\n", p.Age)
	}
	if p.Complexion != "" {
		fmt.Fprintf(&b, "Skin Complexion: %s\n", p.Complexion)
	}
	if p.Symptoms != "" {
		fmt.Fprintf(&b, "Symptoms: %s\n", p.Symptoms)
	}
	if p.Products != "" {
		fmt.Fprintf(&b, "Products Used: %s\n", p.Products)
	}
	return b.String()
}

func patientID(p *model.PatientContext) string {
	if p != nil && p.PatientID != "" {
		return p.PatientID
	}
	return "PT-" + uuid.New().String()[:8]
}

func (s *Service) count(outcome string) {
	if s.metrics != nil {
		s.metrics.AnalysesTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) countGatewayFailure(err error) {
	if s.metrics == nil {
		return
	}
	switch errors.CodeOf(err) {
	case errors.ErrParse:
		s.metrics.GatewayFailures.WithLabelValues("parse").Inc()
		s.count("parse_error")
	case errors.ErrGateway:
		s.metrics.GatewayFailures.WithLabelValues("http").Inc()
		s.count("gateway_error")
	default:
		s.metrics.GatewayFailures.WithLabelValues("other").Inc()
		s.count("error")
	}
}
