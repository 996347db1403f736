package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/pkg/errors"
)

// Document is an in-memory report artifact. Persistence is the
// caller's responsibility.
type Document struct {
	ID  string
	PDF []byte
}

// Codec builds the paginated analysis report. It performs no network or
// disk I/O.
type Codec struct{}

func NewCodec() *Codec {
	return &Codec{}
}

const (
	marginX     = 20.0
	imageSize   = 60.0
	barTrackW   = 100.0
	barH        = 5.0
	lineH       = 5.0
	sectionFont = 16.0
	bodyFont    = 10.0
)

// Build produces the report document for a completed analysis. A report
// is only meaningful for an actual diagnosis, so a non-skin result is
// refused.
func (c *Codec) Build(result *model.AnalysisResult, patientContextText, imageDataURI string) (*Document, error) {
	if result == nil {
		return nil, errors.BadRequest("analysis result is required", nil)
	}
	if !result.IsSkinCondition() {
		return nil, errors.UnsupportedInput("cannot generate report for non-skin image")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	// Title and date
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(133, 88, 111)
	pdf.SetY(12)
	pdf.CellFormat(0, 10, "SkinSewa Analysis Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, fmt.Sprintf("Report Date: %s", time.Now().Format("2006-01-02")), "", 1, "C", false, 0, "")

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(marginX, 32, pageW-marginX, 32)

	contentStartY := 42.0
	textAreaW := pageW - 2*marginX

	// Source image in the top right corner, when embeddable
	if embedImage(pdf, imageDataURI, pageW-imageSize-marginX, contentStartY) {
		textAreaW = pageW - imageSize - 3*marginX
	}

	// Diagnosis
	pdf.SetY(contentStartY)
	pdf.SetX(marginX)
	heading(pdf, "Diagnosis")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(textAreaW, 7, result.Condition, "", "L", false)
	pdf.SetFont("Helvetica", "", bodyFont)
	pdf.MultiCell(textAreaW, lineH, fmt.Sprintf("Confidence: %d%%", pct(result.Confidence)), "", "L", false)

	// Patient information, word-wrapped to the available width
	pdf.Ln(4)
	heading(pdf, "Patient Information")
	body(pdf, patientContextText, textAreaW)

	// Clinical description
	pdf.Ln(4)
	heading(pdf, "Clinical Assessment")
	body(pdf, result.Description, textAreaW)

	// Numbered recommendations; each may wrap to several lines, so the
	// cursor advances by however much MultiCell consumed.
	pdf.Ln(4)
	heading(pdf, "Recommendations")
	for i, rec := range result.Recommendations {
		body(pdf, fmt.Sprintf("%d. %s", i+1, rec), textAreaW)
	}

	// Metric bars
	pdf.Ln(6)
	heading(pdf, "Condition Metrics")
	pdf.Ln(2)
	metricBar(pdf, "Severity:", result.Severity, 255, 191, 0)
	metricBar(pdf, "Treatment Response:", result.TreatmentResponse, 0, 204, 102)
	metricBar(pdf, "Recurrence Rate:", result.RecurrenceRate, 255, 102, 102)

	// Disclaimer footer
	pdf.SetY(pageH - 18)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 4, "This report is generated by SkinSewa AI and is not a substitute for professional medical advice.", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 4, "Please consult with a dermatologist for a professional diagnosis.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return &Document{
		ID:  NewReportID(),
		PDF: buf.Bytes(),
	}, nil
}

// NewReportID generates a display id in the original R-number format.
func NewReportID() string {
	return fmt.Sprintf("R%06d", 100000+rand.Intn(900000))
}

func heading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetX(marginX)
	pdf.SetFont("Helvetica", "B", sectionFont)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 8, title, "", "L", false)
}

func body(pdf *gofpdf.Fpdf, text string, width float64) {
	pdf.SetX(marginX)
	pdf.SetFont("Helvetica", "", bodyFont)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(width, lineH, text, "", "L", false)
}

// metricBar draws one proportionally filled indicator. The fill width
// is metric x track width.
func metricBar(pdf *gofpdf.Fpdf, label string, value float64, r, g, b int) {
	y := pdf.GetY() + 2
	pdf.SetXY(marginX, y)
	pdf.SetFont("Helvetica", "", bodyFont)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(48, barH, label, "", 0, "L", false, 0, "")

	barX := marginX + 50
	pdf.SetDrawColor(200, 200, 200)
	pdf.Rect(barX, y, barTrackW, barH, "D")
	pdf.SetFillColor(r, g, b)
	if value > 0 {
		pdf.Rect(barX, y, barTrackW*value, barH, "F")
	}

	pdf.SetXY(barX+barTrackW+5, y)
	pdf.CellFormat(15, barH, fmt.Sprintf("%d%%", pct(value)), "", 0, "L", false, 0, "")
	pdf.SetY(y + barH + 3)
}

// embedImage registers the base64 payload of a data URI and draws it.
// Unsupported formats are skipped rather than failing the report.
func embedImage(pdf *gofpdf.Fpdf, dataURI string, x, y float64) bool {
	comma := strings.Index(dataURI, ",")
	if !strings.HasPrefix(dataURI, "data:") || comma < 0 {
		return false
	}

	meta := dataURI[len("data:"):comma]
	imageType := ""
	switch {
	case strings.Contains(meta, "image/jpeg"), strings.Contains(meta, "image/jpg"):
		imageType = "JPG"
	case strings.Contains(meta, "image/png"):
		imageType = "PNG"
	default:
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(dataURI[comma+1:])
	if err != nil {
		return false
	}

	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader("source-image", opts, bytes.NewReader(raw))
	if pdf.Err() {
		// Keep rendering the text sections without the image.
		pdf.ClearError()
		return false
	}
	pdf.ImageOptions("source-image", x, y, imageSize, imageSize, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(x, y+imageSize+2)
	pdf.CellFormat(imageSize, 4, "Uploaded Image", "", 0, "C", false, 0, "")
	return true
}

func pct(v float64) int {
	return int(v*100 + 0.5)
}
