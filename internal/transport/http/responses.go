package http

import (
	"fmt"
	"net/http"
	"strconv"

	"econcal/internal/files"
	"econcal/internal/services"
)

// HeaderUpdatedRows carries the number of quote rows written into a document.
const HeaderUpdatedRows = "X-Updated-Rows"

// CalendarReceiveResponse is returned by POST /api/calendar/receive.
type CalendarReceiveResponse struct {
	Status        string         `json:"status"`
	TotalReceived int            `json:"total_received"`
	Split         map[string]int `json:"split"`
}

// CalendarStatusResponse is returned by GET /api/calendar/status.
type CalendarStatusResponse struct {
	Status string         `json:"status"`
	Data   map[string]int `json:"data"`
}

// MessageResponse is a status with a human readable message.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// QuotesReceiveResponse is returned by POST /api/quotes/receive.
type QuotesReceiveResponse struct {
	Status        string `json:"status"`
	TotalReceived int    `json:"total_received"`
}

// QuotesStatusResponse is returned by GET /api/quotes/status. Unknown dates are null.
type QuotesStatusResponse struct {
	Status          string  `json:"status"`
	TotalQuotes     int     `json:"total_quotes"`
	ReportDate      *string `json:"report_date"`
	LastReceivedUTC *string `json:"last_received_utc"`
}

// TemplateResponse wraps template metadata.
type TemplateResponse struct {
	Status   string             `json:"status"`
	Template files.TemplateInfo `json:"template"`
}

// writeDocument sends doc as an attachment.
func writeDocument(w http.ResponseWriter, doc services.Document) {
	h := w.Header()
	h.Set("Content-Type", doc.ContentType)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", doc.Filename))
	h.Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}
