package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"econcal/internal/calendar"
	"econcal/internal/docx"
	"econcal/internal/files"
	"econcal/internal/infrastructure"
	"econcal/internal/layout"
	"econcal/internal/splice"
	"econcal/internal/store"
	"econcal/internal/validation"
	"econcal/pkg/contracts/domain"
)

// XLSXContentType is the MIME type of a spreadsheet workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Placeholders recognized in the calendar template.
const (
	PlaceholderContentRU   = "{{CONTENT_RU}}"
	PlaceholderContentEN   = "{{CONTENT_EN}}"
	PlaceholderCalendarDay = "{{CALENDAR_DATE}}"
)

// Document is a generated or stored file ready to be sent to a client.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CalendarReceipt summarizes one calendar receive.
type CalendarReceipt struct {
	TotalReceived int            `json:"total_received"`
	Split         map[string]int `json:"split"`
}

// CalendarService receives economic calendar data and renders it into
// workbooks and word documents.
type CalendarService struct {
	store     *store.CalendarStore
	templates *files.TemplateStore
	clock     calendar.Clock
	metrics   *infrastructure.BusinessMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewCalendarService creates a calendar service. A nil clock uses the system clock.
func NewCalendarService(st *store.CalendarStore, templates *files.TemplateStore, clock calendar.Clock, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *CalendarService {
	if clock == nil {
		clock = calendar.SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarService{
		store:     st,
		templates: templates,
		clock:     clock,
		metrics:   metrics,
		tracer:    otel.Tracer("calendar-service"),
		logger:    infrastructure.WithComponent(logger, "calendar_service"),
	}
}

// DecodeItems turns raw JSON items into records. Items that are not objects
// are skipped.
func (s *CalendarService) DecodeItems(items []any) ([]domain.Record, error) {
	records, err := calendar.DecodeRecords(items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return records, nil
}

// Receive splits records by category and language and replaces the stored
// calendar with the result.
func (s *CalendarService) Receive(ctx context.Context, records []domain.Record) CalendarReceipt {
	split := calendar.Split(records)
	s.store.Replace(split)

	counts := split.Counts()
	for bucket, n := range counts {
		infrastructure.RecordIngest(ctx, s.metrics, "calendar", bucket, n)
	}

	s.logger.InfoContext(ctx, "calendar data received",
		slog.Int("total", len(records)),
		slog.Int("work_en", counts["work_en"]),
		slog.Int("work_ru", counts["work_ru"]),
		slog.Int("holidays_en", counts["holidays_en"]),
		slog.Int("holidays_ru", counts["holidays_ru"]),
	)

	return CalendarReceipt{TotalReceived: len(records), Split: counts}
}

// Counts returns the number of stored records per bucket.
func (s *CalendarService) Counts(ctx context.Context) map[string]int {
	return s.store.Counts()
}

// Clear drops all stored calendar data.
func (s *CalendarService) Clear(ctx context.Context) {
	s.store.Clear()
	s.logger.InfoContext(ctx, "calendar data cleared")
}

// ReferenceMonday returns the Monday of the week the stored data describes.
func (s *CalendarService) ReferenceMonday(ctx context.Context) time.Time {
	return calendar.WeekOf(s.store.Snapshot(), s.clock())
}

// GenerateWorkbook renders the stored calendar into a two-sheet workbook.
func (s *CalendarService) GenerateWorkbook(ctx context.Context) (doc Document, err error) {
	ctx, span := s.tracer.Start(ctx, "calendar_service.generate_workbook")
	defer span.End()

	start := time.Now()
	defer func() {
		infrastructure.RecordGeneration(ctx, s.metrics, "calendar", "xlsx", time.Since(start), err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
	}()

	split := s.store.Snapshot()
	monday := calendar.WeekOf(split, s.clock())
	span.SetAttributes(attribute.String("calendar.monday", monday.Format(time.DateOnly)))

	data, err := layout.Workbook(split, monday)
	if err != nil {
		return Document{}, fmt.Errorf("render workbook: %w", err)
	}

	doc = Document{
		Filename:    calendar.OutputFilename(monday, "xlsx"),
		ContentType: XLSXContentType,
		Data:        data,
	}
	s.logger.InfoContext(ctx, "calendar workbook generated",
		slog.String("filename", doc.Filename),
		slog.Int("size_bytes", len(data)),
	)
	return doc, nil
}

// GenerateWord fills the calendar template with the Russian and English
// line blocks of the reference week and stamps the week in the date
// placeholder when the template has one.
func (s *CalendarService) GenerateWord(ctx context.Context) (doc Document, err error) {
	ctx, span := s.tracer.Start(ctx, "calendar_service.generate_word")
	defer span.End()

	start := time.Now()
	defer func() {
		infrastructure.RecordGeneration(ctx, s.metrics, "calendar", "docx", time.Since(start), err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
	}()

	tmpl, err := s.templates.Read()
	if err != nil {
		return Document{}, fmt.Errorf("load calendar template: %w", err)
	}

	split := s.store.Snapshot()
	monday := calendar.WeekOf(split, s.clock())
	span.SetAttributes(attribute.String("calendar.monday", monday.Format(time.DateOnly)))

	data, err := RenderCalendarWord(tmpl, split, monday)
	if err != nil {
		return Document{}, err
	}

	doc = Document{
		Filename:    calendar.OutputFilename(monday, "docx"),
		ContentType: validation.DocxContentType,
		Data:        data,
	}
	s.logger.InfoContext(ctx, "calendar document generated",
		slog.String("filename", doc.Filename),
		slog.Int("size_bytes", len(data)),
	)
	return doc, nil
}

// RenderCalendarWord fills template with split for the week of monday.
// Both content placeholders are required.
func RenderCalendarWord(template []byte, split domain.CalendarSplit, monday time.Time) ([]byte, error) {
	d, err := docx.Open(template)
	if err != nil {
		return nil, fmt.Errorf("open calendar template: %w", err)
	}

	ru := layout.Content(split.WorkRU, split.HolidaysRU, calendar.LangRU, monday)
	en := layout.Content(split.WorkEN, split.HolidaysEN, calendar.LangEN, monday)

	if !splice.ReplacePlaceholder(d, PlaceholderContentRU, ru) {
		return nil, fmt.Errorf("%w: %s", ErrPlaceholderNotFound, PlaceholderContentRU)
	}
	if !splice.ReplacePlaceholder(d, PlaceholderContentEN, en) {
		return nil, fmt.Errorf("%w: %s", ErrPlaceholderNotFound, PlaceholderContentEN)
	}
	splice.ReplaceInline(d, PlaceholderCalendarDay, calendar.StampDate(monday))

	data, err := d.Bytes()
	if err != nil {
		return nil, fmt.Errorf("save calendar document: %w", err)
	}
	return data, nil
}
