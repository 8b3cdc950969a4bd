package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "econcal/internal/errors"
	"econcal/internal/infrastructure"
)

// QuotesHandler handles the market quotes endpoints.
type QuotesHandler struct {
	service      QuotesServiceInterface
	templates    *TemplateHandler
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewQuotesHandler creates a new quotes handler. templates serves the
// quotes template below /template.
func NewQuotesHandler(service QuotesServiceInterface, templates *TemplateHandler, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *QuotesHandler {
	return &QuotesHandler{
		service:      service,
		templates:    templates,
		logger:       logger,
		errorHandler: errorHandler,
	}
}

// Routes returns the quotes routes
func (h *QuotesHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/receive", h.Receive)
	r.Get("/status", h.Status)
	r.Get("/daily/word", h.DailyWord)
	if h.templates != nil {
		r.Mount("/template", h.templates.Routes())
	}

	return r
}

// Receive handles POST /api/quotes/receive. The body is either
// {"quotes": [...]} or a bare list of quotes.
func (h *QuotesHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var body any
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		h.errorHandler.HandleError(w, r, decodeFailure(err))
		return
	}

	var values []any
	switch v := body.(type) {
	case []any:
		values = v
	case map[string]any:
		list, ok := v["quotes"].([]any)
		if !ok {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("quotes", "quotes is required"))
			return
		}
		values = list
	default:
		h.errorHandler.HandleError(w, r, apierrors.NewValidationError(
			"Request body must be a list of quotes or an object with a quotes list"))
		return
	}

	items, err := h.service.DecodeItems(values)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, QuotesReceiveResponse{
		Status:        "ok",
		TotalReceived: h.service.Receive(r.Context(), items),
	})
}

// Status handles GET /api/quotes/status
func (h *QuotesHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.service.Status(r.Context())

	resp := QuotesStatusResponse{Status: "ok", TotalQuotes: st.Total}
	if st.ReportDate != nil {
		s := st.ReportDate.Format(time.DateOnly)
		resp.ReportDate = &s
	}
	if st.LastReceived != nil {
		s := st.LastReceived.UTC().Format("2006-01-02T15:04:05Z")
		resp.LastReceivedUTC = &s
	}
	render.JSON(w, r, resp)
}

// DailyWord handles GET /api/quotes/daily/word
func (h *QuotesHandler) DailyWord(w http.ResponseWriter, r *http.Request) {
	doc, rows, err := h.service.DailyWord(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, generationFailure("Word", err))
		return
	}

	h.log(r).InfoContext(r.Context(), "serving quotes document",
		slog.String("filename", doc.Filename),
		slog.Int("updated_rows", rows),
	)
	w.Header().Set(HeaderUpdatedRows, strconv.Itoa(rows))
	writeDocument(w, doc)
}

func (h *QuotesHandler) log(r *http.Request) *slog.Logger {
	return infrastructure.WithComponent(infrastructure.LoggerFromContext(r.Context(), h.logger), "quotes_handler")
}
