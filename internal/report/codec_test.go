package report

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/pkg/errors"
)

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		Condition:         "Eczema",
		Confidence:        0.92,
		Description:       "Dry, itchy patches on the forearm.",
		Recommendations:   []string{"Moisturize twice daily", "Avoid hot showers"},
		Severity:          0.4,
		TreatmentResponse: 0.8,
		RecurrenceRate:    0.3,
	}
}

func TestBuildProducesPDF(t *testing.T) {
	codec := NewCodec()

	doc, err := codec.Build(sampleResult(), "Patient ID: PT-1\nAge: 30\n", "")
	require.NoError(t, err)

	assert.Regexp(t, `^R\d{6}$`, doc.ID)
	require.NotEmpty(t, doc.PDF)
	assert.Equal(t, "%PDF", string(doc.PDF[:4]))
}

func TestBuildRefusesNonSkinResult(t *testing.T) {
	codec := NewCodec()

	_, err := codec.Build(&model.AnalysisResult{Condition: model.ConditionNotSkin}, "", "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUnsupportedInput))
}

func TestBuildRequiresResult(t *testing.T) {
	_, err := NewCodec().Build(nil, "", "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBadRequest))
}

func TestBuildSkipsUnsupportedImage(t *testing.T) {
	codec := NewCodec()

	// HEIC uploads are analyzed but cannot be embedded in the PDF.
	doc, err := codec.Build(sampleResult(), "", "data:image/heic;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.NotEmpty(t, doc.PDF)
}

func TestNewReportIDFormat(t *testing.T) {
	re := regexp.MustCompile(`^R[1-9]\d{5}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, re, NewReportID())
	}
}
