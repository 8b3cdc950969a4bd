package config

import "econcal/pkg/contracts"

// Application constants
const (
	AppName    = "Calendar Generator"
	AppVersion = contracts.Version

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Log Settings
	DefaultLogLevel = "info"

	// Templates
	DefaultCalendarTemplate = "data/Template.docx"
	DefaultCalendarFallback = "Template.docx"
	DefaultQuotesTemplate   = "data/Template_quotes.docx"
	DefaultQuotesFallback   = "Template_quotes.docx"
	DefaultMaxUploadBytes   = 20 * 1024 * 1024

	// API Endpoints
	CalendarEndpoint = "/api/calendar"
	QuotesEndpoint   = "/api/quotes"
	TemplateEndpoint = "/api/template"
	HealthEndpoint   = "/api/health"
	MetricsEndpoint  = "/metrics"
)
