// Package http implements the HTTP handlers of the calendar and quotes API.
// Handlers stay thin: they decode and validate requests, call a service and
// format the response. Every failure goes through the shared
// errors.ErrorHandler, which renders RFC 7807 problem details.
//
// # Routes
//
//	POST /api/calendar/receive          receive calendar events
//	GET  /api/calendar/status           bucket counts
//	GET  /api/calendar/generate         workbook download
//	GET  /api/calendar/generate-word    word document download
//	POST /api/calendar/clear            drop calendar data
//	POST /api/quotes/receive            receive quotes
//	GET  /api/quotes/status             quote batch status
//	GET  /api/quotes/daily/word         daily quotes document
//	GET  /api/template                  calendar template info (POST uploads)
//	GET  /api/quotes/template           quotes template info (POST uploads)
//
// Service errors are translated by the mappings returned from ErrorMappings,
// registered once on the error handler at startup.
//
// # Testing
//
// Handlers are tested with httptest against testify mocks of the service
// interfaces.
package http
