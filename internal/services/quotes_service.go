package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"econcal/internal/docx"
	"econcal/internal/files"
	"econcal/internal/infrastructure"
	"econcal/internal/quotes"
	"econcal/internal/store"
	"econcal/internal/validation"
	"econcal/pkg/contracts/domain"
)

// QuotesService receives market quotes and fills the daily quotes template.
type QuotesService struct {
	store     *store.QuoteStore
	templates *files.TemplateStore
	metrics   *infrastructure.BusinessMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewQuotesService creates a quotes service.
func NewQuotesService(st *store.QuoteStore, templates *files.TemplateStore, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *QuotesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuotesService{
		store:     st,
		templates: templates,
		metrics:   metrics,
		tracer:    otel.Tracer("quotes-service"),
		logger:    infrastructure.WithComponent(logger, "quotes_service"),
	}
}

// DecodeItems turns raw JSON values into quote items. Values that are not
// objects are skipped.
func (s *QuotesService) DecodeItems(values []any) ([]domain.QuoteItem, error) {
	items, err := quotes.DecodeItems(values)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return items, nil
}

// Receive replaces the stored batch with items and returns the number received.
func (s *QuotesService) Receive(ctx context.Context, items []domain.QuoteItem) int {
	_, report := quotes.Parse(items)
	batch := s.store.Replace(items, report)

	infrastructure.RecordIngest(ctx, s.metrics, "quotes", "quotes", len(items))

	attrs := []any{slog.Int("total", len(items))}
	if batch.ReportDate != nil {
		attrs = append(attrs, slog.String("report_date", batch.ReportDate.Format(time.DateOnly)))
	}
	s.logger.InfoContext(ctx, "quotes received", attrs...)

	return len(items)
}

// Status reports the stored batch size, report date and receive time.
func (s *QuotesService) Status(ctx context.Context) store.QuoteStatus {
	return s.store.Status()
}

// Clear drops the stored batch.
func (s *QuotesService) Clear(ctx context.Context) {
	s.store.Clear()
	s.logger.InfoContext(ctx, "quotes cleared")
}

// DailyWord fills the quotes template with the stored batch. It returns the
// document and the number of table rows updated.
func (s *QuotesService) DailyWord(ctx context.Context) (doc Document, rows int, err error) {
	batch := s.store.Snapshot()
	if len(batch.Items) == 0 {
		return Document{}, 0, ErrNoQuotes
	}

	ctx, span := s.tracer.Start(ctx, "quotes_service.daily_word")
	defer span.End()

	start := time.Now()
	defer func() {
		infrastructure.RecordGeneration(ctx, s.metrics, "quotes", "docx", time.Since(start), err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
	}()

	tmpl, err := s.templates.Read()
	if err != nil {
		return Document{}, 0, fmt.Errorf("load quotes template: %w", err)
	}

	data, rows, err := RenderQuotesWord(tmpl, batch.Items)
	if err != nil {
		return Document{}, 0, err
	}
	span.SetAttributes(attribute.Int("quotes.updated_rows", rows))
	infrastructure.RecordQuoteRows(ctx, s.metrics, rows)

	doc = Document{
		Filename:    quotes.Filename(batch.ReportDate),
		ContentType: validation.DocxContentType,
		Data:        data,
	}
	s.logger.InfoContext(ctx, "quotes document generated",
		slog.String("filename", doc.Filename),
		slog.Int("updated_rows", rows),
	)
	return doc, rows, nil
}

// RenderQuotesWord fills the first table of template with items and returns
// the document bytes and the number of rows updated.
func RenderQuotesWord(template []byte, items []domain.QuoteItem) ([]byte, int, error) {
	d, err := docx.Open(template)
	if err != nil {
		return nil, 0, fmt.Errorf("open quotes template: %w", err)
	}

	parsed, _ := quotes.Parse(items)
	rows, err := quotes.Fill(d, parsed)
	if err != nil {
		return nil, 0, err
	}

	data, err := d.Bytes()
	if err != nil {
		return nil, 0, fmt.Errorf("save quotes document: %w", err)
	}
	return data, rows, nil
}
