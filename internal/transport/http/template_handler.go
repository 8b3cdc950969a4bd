package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "econcal/internal/errors"
	"econcal/internal/infrastructure"
)

// uploadMemory is the part of a multipart upload kept in memory; the rest
// spills to temporary files.
const uploadMemory = 8 << 20

// TemplateHandler handles info, download and upload of one template.
type TemplateHandler struct {
	service      TemplateServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(service TemplateServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *TemplateHandler {
	return &TemplateHandler{
		service:      service,
		logger:       logger,
		errorHandler: errorHandler,
	}
}

// Routes returns the template routes
func (h *TemplateHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Info)
	r.Post("/", h.Upload)
	r.Get("/download", h.Download)

	return r
}

// Info handles GET on the template resource
func (h *TemplateHandler) Info(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Info(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, TemplateResponse{Status: "ok", Template: info})
}

// Download handles GET on the template download resource
func (h *TemplateHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Download(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	writeDocument(w, doc)
}

// Upload handles POST of a multipart form carrying the new template in "file".
func (h *TemplateHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		h.errorHandler.HandleError(w, r, decodeFailure(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "file is required"))
			return
		}
		h.errorHandler.HandleError(w, r, decodeFailure(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorHandler.HandleError(w, r, decodeFailure(err))
		return
	}

	info, err := h.service.Upload(r.Context(), data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		if !isMapped(err) {
			err = apierrors.FileSystemError("save template", err)
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.log(r).InfoContext(r.Context(), "template replaced",
		slog.String("filename", header.Filename),
		slog.Int64("size_bytes", info.SizeBytes),
	)
	render.JSON(w, r, TemplateResponse{Status: "ok", Template: info})
}

func (h *TemplateHandler) log(r *http.Request) *slog.Logger {
	logger := infrastructure.LoggerFromContext(r.Context(), h.logger)
	return infrastructure.WithComponent(logger, "template_handler").With(slog.String("template", h.service.Kind()))
}
