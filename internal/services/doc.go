// Package services implements the business operations behind the HTTP API
// and the CLI: receiving calendar and quote data into the in-memory stores,
// rendering workbooks and word documents from the stored snapshot, and
// managing the replaceable document templates.
//
// # Services
//
//	- CalendarService: receive, status, clear, workbook and word generation
//	- QuotesService: receive, status and the daily quotes document
//	- TemplateService: template info, download and validated upload
//	- HealthService: liveness, readiness and version information
//
// # Error Handling
//
// Services return wrapped sentinel errors that handlers map to RFC 7807
// problem responses:
//
//	- ErrInvalidInput for payloads that cannot be decoded
//	- ErrNoQuotes when a quotes document is requested before any data
//	- ErrTemplateNotFound when neither the active nor the fallback template exists
//	- ErrPlaceholderNotFound and ErrNoTable for templates that break the contract
//	- *validation.UploadError for rejected template uploads
//
// Every generation is recorded in the business metrics and traced with a span.
package services
