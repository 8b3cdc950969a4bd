package validation

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DocxContentType is the MIME type of a word processing document.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DefaultMaxUploadBytes caps template uploads at 20 MiB.
const DefaultMaxUploadBytes = 20 * 1024 * 1024

// UploadError reports why an uploaded template was rejected. Its message is
// safe to return to the client.
type UploadError struct {
	Reason string
}

func (e *UploadError) Error() string {
	return e.Reason
}

func rejected(format string, args ...any) *UploadError {
	return &UploadError{Reason: fmt.Sprintf(format, args...)}
}

// FileValidator provides the file checks shared by the server and the CLI
type FileValidator struct {
	logger         *slog.Logger
	maxUploadBytes int
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger:         logger,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
}

// WithMaxUploadBytes overrides the upload size limit. Non-positive values keep the default.
func (v *FileValidator) WithMaxUploadBytes(n int) *FileValidator {
	if n > 0 {
		v.maxUploadBytes = n
	}
	return v
}

// MaxUploadBytes returns the upload size limit.
func (v *FileValidator) MaxUploadBytes() int {
	return v.maxUploadBytes
}

// ValidateUpload checks an uploaded template before anything is written.
// Checks run in order: non-empty, size limit, .docx extension (when a
// filename is given), content type (when given) and the zip signature.
func (v *FileValidator) ValidateUpload(data []byte, filename, contentType string) error {
	var err *UploadError
	switch {
	case len(data) == 0:
		err = rejected("Empty file.")
	case len(data) > v.maxUploadBytes:
		err = rejected("Template is too large (>%d bytes).", v.maxUploadBytes)
	case filename != "" && !strings.HasSuffix(strings.ToLower(filename), ".docx"):
		err = rejected("Only .docx files are supported.")
	case contentType != "" && contentType != "application/octet-stream" && contentType != DocxContentType:
		err = rejected("Unsupported content type: %s", contentType)
	case !LooksLikeDocx(data):
		err = rejected("File does not look like a .docx (zip) document.")
	}
	if err != nil {
		v.logger.Warn("Template upload rejected",
			slog.String("filename", filename),
			slog.String("content_type", contentType),
			slog.Int("size_bytes", len(data)),
			slog.String("reason", err.Reason))
		return err
	}

	v.logger.Debug("Template upload validated",
		slog.String("filename", filename),
		slog.Int("size_bytes", len(data)))
	return nil
}

// LooksLikeDocx reports whether data is at least four bytes long and starts
// with the zip signature.
func LooksLikeDocx(data []byte) bool {
	return len(data) >= 4 && bytes.HasPrefix(data, []byte("PK"))
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateDocxFile checks that path is a readable .docx that is not an
// editor lock file.
func (v *FileValidator) ValidateDocxFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".docx" {
		v.logger.Error("File is not a .docx document",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not a .docx document (extension: %s)", path, ext)
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Skipping editor lock file",
			slog.String("file", path))
		return fmt.Errorf("file %s is an editor lock file", path)
	}

	return nil
}
