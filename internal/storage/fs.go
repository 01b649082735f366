package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
)

var ErrInvalidName = errors.New("invalid submission file name")

// FileTimeLayout is the timestamp part of a submission file name.
const FileTimeLayout = "20060102_150405"

// SubmissionStore writes submission records as JSON files under a base
// directory.
type SubmissionStore struct{ base string }

func NewSubmissionStore(base string) (*SubmissionStore, error) {
	if base == "" {
		base = "./submissions"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create submissions dir: %w", err)
	}
	return &SubmissionStore{base: base}, nil
}

// FileName builds <class>_<nickname>_<roll>_<YYYYMMDD_HHMMSS>.json. Path
// separators in any component are replaced with "-".
func FileName(sub *models.Submission, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%s.json",
		sanitize(sub.Class),
		sanitize(sub.Nickname),
		sanitize(sub.RollNumber),
		at.Format(FileTimeLayout),
	)
}

func sanitize(component string) string {
	return strings.NewReplacer("/", "-", "\\", "-").Replace(component)
}

// Write stores the submission under name, indented by two spaces.
func (s *SubmissionStore) Write(name string, sub *models.Submission) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}

	tmp, err := os.CreateTemp(s.base, ".submission-*")
	if err != nil {
		return fmt.Errorf("failed to create submission file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write submission file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write submission file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write submission file: %w", err)
	}
	return nil
}

// Open returns the raw file for download.
func (s *SubmissionStore) Open(name string) (io.ReadCloser, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Read decodes a stored submission.
func (s *SubmissionStore) Read(name string) (*models.Submission, error) {
	f, err := s.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sub models.Submission
	if err := json.NewDecoder(f).Decode(&sub); err != nil {
		return nil, fmt.Errorf("failed to decode submission %s: %w", name, err)
	}
	return &sub, nil
}

// path resolves a bare file name inside the base directory.
func (s *SubmissionStore) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidName
	}
	return filepath.Join(s.base, name), nil
}
