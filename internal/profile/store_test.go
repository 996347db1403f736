package profile

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/pkg/errors"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestAppendAndListReports(t *testing.T) {
	store := newTestStore(t)

	records, err := store.ListReports()
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, store.AppendReport(&model.ReportRecord{ID: "R100001", Condition: "Eczema"}))
	require.NoError(t, store.AppendReport(&model.ReportRecord{ID: "R100002", Condition: "Acne"}))

	records, err = store.ListReports()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "R100001", records[0].ID)
	assert.Equal(t, "R100002", records[1].ID)
}

func TestRemoveReport(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AppendReport(&model.ReportRecord{ID: "R100001"}))
	require.NoError(t, store.AppendReport(&model.ReportRecord{ID: "R100002"}))

	require.NoError(t, store.RemoveReport("R100001"))

	records, err := store.ListReports()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "R100002", records[0].ID)
}

func TestRemoveReportMissingIDIsNoop(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AppendReport(&model.ReportRecord{ID: "R100001"}))
	require.NoError(t, store.RemoveReport("R999999"))

	records, err := store.ListReports()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRemoveReportDeletesArtifacts(t *testing.T) {
	store := newTestStore(t)

	pdfPath, err := store.SaveReportDocument("R100001", []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, store.AppendReport(&model.ReportRecord{ID: "R100001", PDFPath: pdfPath}))

	require.NoError(t, store.RemoveReport("R100001"))

	_, err = os.Stat(pdfPath)
	assert.True(t, os.IsNotExist(err))

	_, err = store.ReadReportDocument("R100001")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
}

func TestReportDocumentRoundTrip(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveReportDocument("R100001", []byte("%PDF-1.4 test"))
	require.NoError(t, err)

	data, err := store.ReadReportDocument("R100001")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(data))
}

func TestSaveReportImageDecodesPayload(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SaveReportImage("R100001", "data:image/jpeg;base64,aGVsbG8=")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(raw))

	_, err = store.SaveReportImage("R100002", "no-comma")
	assert.Error(t, err)
}

func TestPatientContextOverwrite(t *testing.T) {
	store := newTestStore(t)

	ctx, err := store.PatientContext()
	require.NoError(t, err)
	assert.Nil(t, ctx)

	require.NoError(t, store.SavePatientContext(&model.PatientContext{PatientID: "PT-1", Age: "30"}))
	require.NoError(t, store.SavePatientContext(&model.PatientContext{PatientID: "PT-2", Age: "41"}))

	ctx, err = store.PatientContext()
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.Equal(t, "PT-2", ctx.PatientID)
	assert.Equal(t, "41", ctx.Age)
}

func TestViewerIDIsStable(t *testing.T) {
	store := newTestStore(t)

	first, err := store.ViewerID()
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := store.ViewerID()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAPIKeyRoundTrip(t *testing.T) {
	store := newTestStore(t)

	key, err := store.APIKey()
	require.NoError(t, err)
	assert.Empty(t, key)

	require.NoError(t, store.SaveAPIKey("secret-key"))

	key, err = store.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "secret-key", key)
}
