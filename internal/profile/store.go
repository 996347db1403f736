package profile

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/pkg/errors"
)

// Store holds the browser-profile-scoped state: the append-only report
// collection, the single assessment profile, the pseudonymous viewer
// identifier and the admin-supplied API key. Implementations are
// injectable so tests can substitute an in-memory fake.
type Store interface {
	AppendReport(rec *model.ReportRecord) error
	ListReports() ([]*model.ReportRecord, error)
	RemoveReport(id string) error

	SaveReportDocument(id string, pdf []byte) (string, error)
	SaveReportImage(id, imageDataURI string) (string, error)
	ReadReportDocument(id string) ([]byte, error)

	SavePatientContext(ctx *model.PatientContext) error
	PatientContext() (*model.PatientContext, error)

	ViewerID() (string, error)

	SaveAPIKey(key string) error
	APIKey() (string, error)
}

// fileStore keeps everything under one profile directory as plain
// serialized JSON under fixed names. All collection writes are
// full-read/full-write; a mutex serializes them within the process.
// Cross-process races are out of scope.
type fileStore struct {
	dir string
	mu  sync.Mutex
}

const (
	reportsFile    = "skin_reports.json"
	assessmentFile = "assessment.json"
	viewerIDFile   = "viewer_id"
	apiKeyFile     = "api_key"
	reportsDir     = "reports"
)

func NewFileStore(dir string) (Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, reportsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) AppendReport(rec *model.ReportRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readReports()
	if err != nil {
		return err
	}
	records = append(records, rec)
	return s.writeReports(records)
}

func (s *fileStore) ListReports() ([]*model.ReportRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readReports()
}

// RemoveReport filters the collection and rewrites it whole. Removing a
// nonexistent id leaves the collection unchanged.
func (s *fileStore) RemoveReport(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readReports()
	if err != nil {
		return err
	}

	kept := make([]*model.ReportRecord, 0, len(records))
	removed := false
	for _, rec := range records {
		if rec.ID == id {
			removed = true
			continue
		}
		kept = append(kept, rec)
	}
	if !removed {
		return nil
	}

	if err := s.writeReports(kept); err != nil {
		return err
	}

	os.Remove(filepath.Join(s.dir, reportsDir, id+".pdf"))
	os.Remove(filepath.Join(s.dir, reportsDir, id+".img"))
	return nil
}

func (s *fileStore) SaveReportDocument(id string, pdf []byte) (string, error) {
	path := filepath.Join(s.dir, reportsDir, id+".pdf")
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", errors.Persistence(err)
	}
	return path, nil
}

func (s *fileStore) SaveReportImage(id, imageDataURI string) (string, error) {
	comma := strings.Index(imageDataURI, ",")
	if comma < 0 {
		return "", errors.Validation("invalid image data URI", nil)
	}
	raw, err := base64.StdEncoding.DecodeString(imageDataURI[comma+1:])
	if err != nil {
		return "", errors.Validation("invalid base64 image payload", err)
	}

	path := filepath.Join(s.dir, reportsDir, id+".img")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", errors.Persistence(err)
	}
	return path, nil
}

func (s *fileStore) ReadReportDocument(id string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, reportsDir, id+".pdf"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("report document", err)
		}
		return nil, fmt.Errorf("failed to read report document: %w", err)
	}
	return data, nil
}

// SavePatientContext overwrites the single active assessment record.
func (s *fileStore) SavePatientContext(ctx *model.PatientContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(assessmentFile, ctx)
}

func (s *fileStore) PatientContext() (*model.PatientContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ctx model.PatientContext
	ok, err := s.readJSON(assessmentFile, &ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &ctx, nil
}

// ViewerID returns the pseudonymous identifier for this profile,
// generating and persisting one on first use. It is a soft tag, not a
// security boundary.
func (s *fileStore) ViewerID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, viewerIDFile)
	data, err := os.ReadFile(path)
	if err == nil && len(data) > 0 {
		return strings.TrimSpace(string(data)), nil
	}

	id := uuid.New().String()
	if err := os.WriteFile(path, []byte(id), 0o644); err != nil {
		return "", errors.Persistence(err)
	}
	return id, nil
}

func (s *fileStore) SaveAPIKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(filepath.Join(s.dir, apiKeyFile), []byte(key), 0o600); err != nil {
		return errors.Persistence(err)
	}
	return nil
}

func (s *fileStore) APIKey() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, apiKeyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *fileStore) readReports() ([]*model.ReportRecord, error) {
	var records []*model.ReportRecord
	ok, err := s.readJSON(reportsFile, &records)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*model.ReportRecord{}, nil
	}
	return records, nil
}

func (s *fileStore) writeReports(records []*model.ReportRecord) error {
	return s.writeJSON(reportsFile, records)
}

func (s *fileStore) readJSON(name string, v interface{}) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return true, nil
}

func (s *fileStore) writeJSON(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return errors.Persistence(err)
	}
	return nil
}
