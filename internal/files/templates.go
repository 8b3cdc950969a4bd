package files

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// ErrTemplateNotFound is returned when neither the active template nor its
// fallback exists.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateInfo describes the active template file.
type TemplateInfo struct {
	Path        string `json:"path"`
	SizeBytes   int64  `json:"size_bytes"`
	ModifiedUTC string `json:"modified_utc"`
}

// TemplateStore manages one replaceable template file. The active path is
// materialized from the fallback on first use; uploads replace it atomically.
type TemplateStore struct {
	name     string
	active   string
	fallback string
	logger   *slog.Logger

	mu    sync.Mutex
	group singleflight.Group
}

// NewTemplateStore creates a store for the template called name.
func NewTemplateStore(name, active, fallback string, logger *slog.Logger) *TemplateStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateStore{
		name:     name,
		active:   active,
		fallback: fallback,
		logger:   logger.With(slog.String("template", name)),
	}
}

// Name returns the template kind, for example "calendar" or "quotes".
func (s *TemplateStore) Name() string {
	return s.name
}

// Path returns the active template path, copying the fallback into place
// when the active file does not exist yet.
func (s *TemplateStore) Path() (string, error) {
	if fileExists(s.active) {
		return s.active, nil
	}
	_, err, _ := s.group.Do(s.active, func() (any, error) {
		return nil, s.materialize()
	})
	if err != nil {
		return "", err
	}
	return s.active, nil
}

func (s *TemplateStore) materialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fileExists(s.active) {
		return nil
	}
	if s.fallback == "" || !fileExists(s.fallback) {
		return fmt.Errorf("%w: %s template, expected current=%s or fallback=%s",
			ErrTemplateNotFound, s.name, s.active, s.fallback)
	}

	data, err := os.ReadFile(s.fallback)
	if err != nil {
		return fmt.Errorf("failed to read fallback template: %w", err)
	}
	if err := s.replace(data); err != nil {
		return err
	}

	s.logger.Info("Template initialized from fallback",
		slog.String("path", s.active),
		slog.String("fallback", s.fallback))
	return nil
}

// Read returns the bytes of the active template.
func (s *TemplateStore) Read() ([]byte, error) {
	path, err := s.Path()
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Info returns the path, size and UTC modification time of the active template.
func (s *TemplateStore) Info() (TemplateInfo, error) {
	path, err := s.Path()
	if err != nil {
		return TemplateInfo{}, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return TemplateInfo{}, fmt.Errorf("failed to stat template: %w", err)
	}
	return TemplateInfo{
		Path:        path,
		SizeBytes:   st.Size(),
		ModifiedUTC: st.ModTime().UTC().Format("2006-01-02T15:04:05Z"),
	}, nil
}

// Update replaces the active template with data. Callers validate data first.
func (s *TemplateStore) Update(data []byte) (TemplateInfo, error) {
	s.mu.Lock()
	err := s.replace(data)
	s.mu.Unlock()
	if err != nil {
		return TemplateInfo{}, err
	}

	s.logger.Info("Template replaced",
		slog.String("path", s.active),
		slog.Int("size_bytes", len(data)))
	return s.Info()
}

// replace writes data to a sibling temp file and renames it over the active
// path. s.mu must be held.
func (s *TemplateStore) replace(data []byte) error {
	dir := filepath.Dir(s.active)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create template directory: %w", err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%d.%s.tmp",
		filepath.Base(s.active), time.Now().UnixMilli(), uuid.NewString()[:8]))
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp template: %w", err)
	}
	if err := os.Rename(tmp, s.active); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to activate template: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
