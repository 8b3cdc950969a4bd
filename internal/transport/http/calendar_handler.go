package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "econcal/internal/errors"
	"econcal/internal/infrastructure"
	"econcal/internal/middleware"
)

// receiveEventsRequest is the raw receive payload. Items stay generic until
// the service decodes them.
type receiveEventsRequest struct {
	Events []any `json:"events" validate:"required"`
}

// CalendarHandler handles the economic calendar endpoints.
type CalendarHandler struct {
	service      CalendarServiceInterface
	validator    *middleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(service CalendarServiceInterface, validator *middleware.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CalendarHandler {
	return &CalendarHandler{
		service:      service,
		validator:    validator,
		logger:       logger,
		errorHandler: errorHandler,
	}
}

// Routes returns the calendar routes
func (h *CalendarHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/receive", h.Receive)
	r.Get("/status", h.Status)
	r.Get("/generate", h.GenerateWorkbook)
	r.Get("/generate-word", h.GenerateWord)
	r.Post("/clear", h.Clear)

	return r
}

// Receive handles POST /api/calendar/receive
func (h *CalendarHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var req receiveEventsRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, decodeFailure(err))
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	records, err := h.service.DecodeItems(req.Events)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	receipt := h.service.Receive(r.Context(), records)

	render.JSON(w, r, CalendarReceiveResponse{
		Status:        "ok",
		TotalReceived: receipt.TotalReceived,
		Split:         receipt.Split,
	})
}

// Status handles GET /api/calendar/status
func (h *CalendarHandler) Status(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, CalendarStatusResponse{
		Status: "ok",
		Data:   h.service.Counts(r.Context()),
	})
}

// GenerateWorkbook handles GET /api/calendar/generate
func (h *CalendarHandler) GenerateWorkbook(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.GenerateWorkbook(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, generationFailure("Excel", err))
		return
	}

	h.log(r).InfoContext(r.Context(), "serving calendar workbook",
		slog.String("filename", doc.Filename),
	)
	writeDocument(w, doc)
}

// GenerateWord handles GET /api/calendar/generate-word
func (h *CalendarHandler) GenerateWord(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.GenerateWord(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, generationFailure("Word", err))
		return
	}

	h.log(r).InfoContext(r.Context(), "serving calendar document",
		slog.String("filename", doc.Filename),
	)
	writeDocument(w, doc)
}

// Clear handles POST /api/calendar/clear
func (h *CalendarHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.service.Clear(r.Context())
	render.JSON(w, r, MessageResponse{Status: "ok", Message: "Data cleared"})
}

func (h *CalendarHandler) log(r *http.Request) *slog.Logger {
	return infrastructure.WithComponent(infrastructure.LoggerFromContext(r.Context(), h.logger), "calendar_handler")
}
