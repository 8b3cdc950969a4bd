package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service HealthServiceInterface
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service HealthServiceInterface, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.HealthCheck(r.Context()))
}

// ReadinessCheck handles GET /api/health/ready. It answers 503 until every
// template can be resolved.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := h.service.ReadinessCheck(r.Context())
	if status.Status != "ready" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.LivenessCheck(r.Context()))
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Version())
}

// IndexResponse describes the API at the root path.
type IndexResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// Index handles GET /
func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, IndexResponse{
		Status:  "ok",
		Message: "Calendar Generator API",
		Endpoints: map[string]string{
			"POST /api/calendar/receive":        "Receive calendar events",
			"GET /api/calendar/generate":        "Generate the calendar workbook",
			"GET /api/calendar/generate-word":   "Generate the calendar document from the template",
			"GET /api/calendar/status":          "Calendar data status",
			"POST /api/calendar/clear":          "Clear calendar data",
			"POST /api/quotes/receive":          "Receive quotes",
			"GET /api/quotes/status":            "Quotes data status",
			"GET /api/quotes/daily/word":        "Generate the daily quotes document",
			"GET /api/template":                 "Calendar template info",
			"POST /api/template":                "Upload a calendar template",
			"GET /api/template/download":        "Download the calendar template",
			"GET /api/quotes/template":          "Quotes template info",
			"POST /api/quotes/template":         "Upload a quotes template",
			"GET /api/quotes/template/download": "Download the quotes template",
			"GET /api/health":                   "Health check",
			"GET /metrics":                      "Prometheus metrics",
		},
	})
}
