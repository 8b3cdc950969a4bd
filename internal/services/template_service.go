package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"econcal/internal/files"
	"econcal/internal/infrastructure"
	"econcal/internal/validation"
)

// TemplateService exposes one replaceable template: the calendar template
// or the quotes template.
type TemplateService struct {
	store     *files.TemplateStore
	validator *validation.FileValidator
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
}

// NewTemplateService creates a template service over st.
func NewTemplateService(st *files.TemplateStore, validator *validation.FileValidator, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *TemplateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateService{
		store:     st,
		validator: validator,
		metrics:   metrics,
		logger: infrastructure.WithComponent(logger, "template_service").With(
			slog.String("template", st.Name()),
		),
	}
}

// Kind returns the template name, "calendar" or "quotes".
func (s *TemplateService) Kind() string {
	return s.store.Name()
}

// Info describes the active template.
func (s *TemplateService) Info(ctx context.Context) (files.TemplateInfo, error) {
	return s.store.Info()
}

// Download returns the active template file.
func (s *TemplateService) Download(ctx context.Context) (Document, error) {
	path, err := s.store.Path()
	if err != nil {
		return Document{}, err
	}
	data, err := s.store.Read()
	if err != nil {
		return Document{}, fmt.Errorf("read %s template: %w", s.Kind(), err)
	}
	return Document{
		Filename:    filepath.Base(path),
		ContentType: validation.DocxContentType,
		Data:        data,
	}, nil
}

// Upload validates data and makes it the active template. Rejected uploads
// return a *validation.UploadError and leave the current template in place.
func (s *TemplateService) Upload(ctx context.Context, data []byte, filename, contentType string) (files.TemplateInfo, error) {
	if err := s.validator.ValidateUpload(data, filename, contentType); err != nil {
		infrastructure.RecordTemplateUpload(ctx, s.metrics, s.Kind(), false)
		return files.TemplateInfo{}, err
	}

	info, err := s.store.Update(data)
	if err != nil {
		infrastructure.RecordTemplateUpload(ctx, s.metrics, s.Kind(), false)
		infrastructure.WithError(s.logger, err).ErrorContext(ctx, "template update failed")
		return files.TemplateInfo{}, err
	}

	infrastructure.RecordTemplateUpload(ctx, s.metrics, s.Kind(), true)
	s.logger.InfoContext(ctx, "template uploaded",
		slog.String("filename", filename),
		slog.Int64("size_bytes", info.SizeBytes),
	)
	return info, nil
}
