package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/internal/report"
	"github.com/skinsewa/api/pkg/errors"
	"github.com/skinsewa/api/pkg/logger"
)

const testImage = "data:image/jpeg;base64,aGVsbG8="

type fakeGateway struct {
	result    *model.AnalysisResult
	err       error
	calls     int
	lastImage string
	lastText  string
}

func (f *fakeGateway) Analyze(_ context.Context, imageDataURI, patientContextText string) (*model.AnalysisResult, error) {
	f.calls++
	f.lastImage = imageDataURI
	f.lastText = patientContextText
	return f.result, f.err
}

type fakeCodec struct {
	doc *report.Document
	err error
}

func (f *fakeCodec) Build(*model.AnalysisResult, string, string) (*report.Document, error) {
	return f.doc, f.err
}

type fakeStore struct {
	records  []*model.ReportRecord
	patient  *model.PatientContext
	apiKey   string
	viewerID string
	docs     map[string][]byte
	images   map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:   make(map[string][]byte),
		images: make(map[string]string),
	}
}

func (f *fakeStore) AppendReport(rec *model.ReportRecord) error {
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeStore) ListReports() ([]*model.ReportRecord, error) { return f.records, nil }

func (f *fakeStore) RemoveReport(id string) error {
	kept := f.records[:0]
	for _, rec := range f.records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	f.records = kept
	return nil
}

func (f *fakeStore) SaveReportDocument(id string, pdf []byte) (string, error) {
	f.docs[id] = pdf
	return "/reports/" + id + ".pdf", nil
}

func (f *fakeStore) SaveReportImage(id, imageDataURI string) (string, error) {
	f.images[id] = imageDataURI
	return "/reports/" + id + ".img", nil
}

func (f *fakeStore) ReadReportDocument(id string) ([]byte, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, errors.NotFound("report document", nil)
	}
	return doc, nil
}

func (f *fakeStore) SavePatientContext(ctx *model.PatientContext) error {
	f.patient = ctx
	return nil
}

func (f *fakeStore) PatientContext() (*model.PatientContext, error) { return f.patient, nil }
func (f *fakeStore) ViewerID() (string, error)                      { return f.viewerID, nil }
func (f *fakeStore) SaveAPIKey(key string) error                    { f.apiKey = key; return nil }
func (f *fakeStore) APIKey() (string, error)                        { return f.apiKey, nil }

func newTestService(gateway *fakeGateway, codec *fakeCodec, store *fakeStore) *Service {
	return NewService(gateway, codec, store, logger.NewLogger(nil), nil)
}

func TestRunRejectsUnsupportedImageType(t *testing.T) {
	gateway := &fakeGateway{}
	svc := newTestService(gateway, &fakeCodec{}, newFakeStore())

	_, err := svc.Run(context.Background(), &model.AnalyzeRequest{
		ImageData: "data:image/bmp;base64,aGVsbG8=",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
	assert.Zero(t, gateway.calls, "gateway must not be called for unsupported input")
}

func TestRunRejectsNonDataURI(t *testing.T) {
	gateway := &fakeGateway{}
	svc := newTestService(gateway, &fakeCodec{}, newFakeStore())

	_, err := svc.Run(context.Background(), &model.AnalyzeRequest{ImageData: "hello"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
	assert.Zero(t, gateway.calls)
}

func TestRunNonSkinResultPersistsNothing(t *testing.T) {
	gateway := &fakeGateway{result: &model.AnalysisResult{
		Condition:   model.ConditionNotSkin,
		Description: "The image does not show human skin.",
	}}
	store := newFakeStore()
	svc := newTestService(gateway, &fakeCodec{}, store)

	resp, err := svc.Run(context.Background(), &model.AnalyzeRequest{ImageData: testImage})
	require.NoError(t, err)

	assert.True(t, resp.Rejected)
	assert.Empty(t, resp.ReportID)
	assert.Equal(t, model.ConditionNotSkin, resp.Result.Condition)
	assert.Empty(t, store.records)
	assert.Empty(t, store.docs)
}

func TestRunSuccessPersistsReport(t *testing.T) {
	gateway := &fakeGateway{result: &model.AnalysisResult{
		Condition:  "Eczema",
		Confidence: 0.92,
	}}
	store := newFakeStore()
	codec := &fakeCodec{doc: &report.Document{ID: "R123456", PDF: []byte("%PDF")}}
	svc := newTestService(gateway, codec, store)

	resp, err := svc.Run(context.Background(), &model.AnalyzeRequest{
		ImageData: testImage,
		Patient:   &model.PatientContext{PatientID: "PT-7", Age: "30"},
	})
	require.NoError(t, err)

	assert.False(t, resp.Rejected)
	assert.Equal(t, "R123456", resp.ReportID)
	assert.Equal(t, testImage, gateway.lastImage)
	assert.Contains(t, gateway.lastText, "Age: 30")

	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, "R123456", rec.ID)
	assert.Equal(t, "Eczema", rec.Condition)
	assert.Equal(t, "PT-7", rec.PatientID)
	assert.Equal(t, []byte("%PDF"), store.docs["R123456"])
	assert.Equal(t, testImage, store.images["R123456"])
}

func TestRunRegeneratesCollidingReportID(t *testing.T) {
	gateway := &fakeGateway{result: &model.AnalysisResult{Condition: "Acne"}}
	store := newFakeStore()
	store.records = append(store.records, &model.ReportRecord{ID: "R123456"})
	codec := &fakeCodec{doc: &report.Document{ID: "R123456", PDF: []byte("%PDF")}}
	svc := newTestService(gateway, codec, store)

	resp, err := svc.Run(context.Background(), &model.AnalyzeRequest{ImageData: testImage})
	require.NoError(t, err)

	assert.NotEqual(t, "R123456", resp.ReportID)
	assert.Regexp(t, `^R\d{6}$`, resp.ReportID)
}

func TestRunUsesStoredPatientContext(t *testing.T) {
	gateway := &fakeGateway{result: &model.AnalysisResult{Condition: model.ConditionNotSkin}}
	store := newFakeStore()
	store.patient = &model.PatientContext{PatientID: "PT-9", Symptoms: "itching"}
	svc := newTestService(gateway, &fakeCodec{}, store)

	_, err := svc.Run(context.Background(), &model.AnalyzeRequest{ImageData: testImage})
	require.NoError(t, err)
	assert.Contains(t, gateway.lastText, "Symptoms: itching")
}

func TestRunPropagatesGatewayError(t *testing.T) {
	gateway := &fakeGateway{err: errors.Gateway(503, "unavailable")}
	svc := newTestService(gateway, &fakeCodec{}, newFakeStore())

	_, err := svc.Run(context.Background(), &model.AnalyzeRequest{ImageData: testImage})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrGateway))
}

func TestFormatPatientContext(t *testing.T) {
	assert.Equal(t, "No patient information provided.", FormatPatientContext(nil))

	text := FormatPatientContext(&model.PatientContext{
		PatientID:  "PT-1",
		Name:       "Asha",
		Complexion: "medium",
	})
	assert.Contains(t, text, "Patient ID: PT-1")
	assert.Contains(t, text, "Name: Asha")
	assert.Contains(t, text, "Skin Complexion: medium")
	assert.NotContains(t, text, "Symptoms:")
}
