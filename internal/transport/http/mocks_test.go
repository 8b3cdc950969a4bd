package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"econcal/internal/files"
	"econcal/internal/services"
	"econcal/internal/store"
	"econcal/pkg/contracts/domain"
)

type mockCalendarService struct {
	mock.Mock
}

func (m *mockCalendarService) DecodeItems(items []any) ([]domain.Record, error) {
	args := m.Called(items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *mockCalendarService) Receive(ctx context.Context, records []domain.Record) services.CalendarReceipt {
	return m.Called(ctx, records).Get(0).(services.CalendarReceipt)
}

func (m *mockCalendarService) Counts(ctx context.Context) map[string]int {
	return m.Called(ctx).Get(0).(map[string]int)
}

func (m *mockCalendarService) Clear(ctx context.Context) {
	m.Called(ctx)
}

func (m *mockCalendarService) GenerateWorkbook(ctx context.Context) (services.Document, error) {
	args := m.Called(ctx)
	return args.Get(0).(services.Document), args.Error(1)
}

func (m *mockCalendarService) GenerateWord(ctx context.Context) (services.Document, error) {
	args := m.Called(ctx)
	return args.Get(0).(services.Document), args.Error(1)
}

type mockQuotesService struct {
	mock.Mock
}

func (m *mockQuotesService) DecodeItems(values []any) ([]domain.QuoteItem, error) {
	args := m.Called(values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuoteItem), args.Error(1)
}

func (m *mockQuotesService) Receive(ctx context.Context, items []domain.QuoteItem) int {
	return m.Called(ctx, items).Int(0)
}

func (m *mockQuotesService) Status(ctx context.Context) store.QuoteStatus {
	return m.Called(ctx).Get(0).(store.QuoteStatus)
}

func (m *mockQuotesService) DailyWord(ctx context.Context) (services.Document, int, error) {
	args := m.Called(ctx)
	return args.Get(0).(services.Document), args.Int(1), args.Error(2)
}

type mockTemplateService struct {
	mock.Mock
	kind string
}

func (m *mockTemplateService) Kind() string {
	return m.kind
}

func (m *mockTemplateService) Info(ctx context.Context) (files.TemplateInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(files.TemplateInfo), args.Error(1)
}

func (m *mockTemplateService) Download(ctx context.Context) (services.Document, error) {
	args := m.Called(ctx)
	return args.Get(0).(services.Document), args.Error(1)
}

func (m *mockTemplateService) Upload(ctx context.Context, data []byte, filename, contentType string) (files.TemplateInfo, error) {
	args := m.Called(ctx, data, filename, contentType)
	return args.Get(0).(files.TemplateInfo), args.Error(1)
}

type mockHealthService struct {
	mock.Mock
}

func (m *mockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *mockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *mockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *mockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}
