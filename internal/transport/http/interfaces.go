package http

import (
	"context"

	"econcal/internal/files"
	"econcal/internal/services"
	"econcal/internal/store"
	"econcal/pkg/contracts/domain"
)

// CalendarServiceInterface defines the calendar operations the handlers use.
type CalendarServiceInterface interface {
	DecodeItems(items []any) ([]domain.Record, error)
	Receive(ctx context.Context, records []domain.Record) services.CalendarReceipt
	Counts(ctx context.Context) map[string]int
	Clear(ctx context.Context)
	GenerateWorkbook(ctx context.Context) (services.Document, error)
	GenerateWord(ctx context.Context) (services.Document, error)
}

// QuotesServiceInterface defines the quotes operations the handlers use.
type QuotesServiceInterface interface {
	DecodeItems(values []any) ([]domain.QuoteItem, error)
	Receive(ctx context.Context, items []domain.QuoteItem) int
	Status(ctx context.Context) store.QuoteStatus
	DailyWord(ctx context.Context) (services.Document, int, error)
}

// TemplateServiceInterface defines the template operations the handlers use.
type TemplateServiceInterface interface {
	Kind() string
	Info(ctx context.Context) (files.TemplateInfo, error)
	Download(ctx context.Context) (services.Document, error)
	Upload(ctx context.Context, data []byte, filename, contentType string) (files.TemplateInfo, error)
}

// HealthServiceInterface defines the health operations the handlers use.
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
