package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"econcal/internal/calendar"
	"econcal/internal/config"
	apierrors "econcal/internal/errors"
	"econcal/internal/files"
	"econcal/internal/infrastructure"
	customMiddleware "econcal/internal/middleware"
	"econcal/internal/services"
	"econcal/internal/store"
	handlers "econcal/internal/transport/http"
	"econcal/internal/validation"
)

// multipartOverhead is the allowance for multipart framing on top of the
// template size limit.
const multipartOverhead = 1 << 20

var (
	// Version is the release version, overridable at link time.
	Version = config.AppVersion
	// BuildTime is set at link time.
	BuildTime = ""
	// BuildID is set at link time.
	BuildID = ""
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Services      *ServiceContainer

	errorHandler *apierrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Calendar         *services.CalendarService
	Quotes           *services.QuotesService
	CalendarTemplate *services.TemplateService
	QuotesTemplate   *services.TemplateService
	Health           *services.HealthService
}

// NewApplication loads the configuration, initializes the process logger
// and builds the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires the application from an explicit configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("application starting",
		slog.String("name", config.AppName),
		slog.String("version", Version))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		errorHandler:  apierrors.NewErrorHandler(logger, false).Register(handlers.ErrorMappings()...),
	}

	a.initializeServices()
	a.setupRouter()
	a.createServer()

	return a, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	tc := a.Config.Templates

	calendarTemplates := files.NewTemplateStore("calendar", tc.CalendarPath, tc.CalendarFallback, a.Logger)
	quotesTemplates := files.NewTemplateStore("quotes", tc.QuotesPath, tc.QuotesFallback, a.Logger)
	uploads := validation.NewFileValidator(a.Logger).WithMaxUploadBytes(tc.MaxUploadBytes)

	a.Services = &ServiceContainer{
		Calendar: services.NewCalendarService(
			store.NewCalendarStore(calendar.SystemClock),
			calendarTemplates,
			calendar.SystemClock,
			a.Metrics,
			a.Logger,
		),
		Quotes: services.NewQuotesService(
			store.NewQuoteStore(calendar.SystemClock),
			quotesTemplates,
			a.Metrics,
			a.Logger,
		),
		CalendarTemplate: services.NewTemplateService(calendarTemplates, uploads, a.Metrics, a.Logger),
		QuotesTemplate:   services.NewTemplateService(quotesTemplates, uploads, a.Metrics, a.Logger),
		Health: services.NewHealthService(
			Version,
			BuildTime,
			BuildID,
			[]services.TemplateProbe{calendarTemplates, quotesTemplates},
			a.Logger,
		),
	}
}

// setupRouter configures the HTTP router with all routes.
// Ordering: RequestID → RealIP → OTel → Logger → Recoverer → headers → CORS → rate limit.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(a.errorHandler))
	r.Use(customMiddleware.DefaultSecureHeaders().Handler)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.corsConfig()))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	r.Get("/", healthHandler.Index)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(config.MetricsEndpoint, a.OTelProviders.PrometheusHTTP)
	}

	a.setupAPIRoutes(r, healthHandler)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, healthHandler *handlers.HealthHandler) {
	validator := customMiddleware.NewValidationMiddleware(a.Logger, a.errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(customMiddleware.MaxBodySize(int64(a.Config.Templates.MaxUploadBytes) + multipartOverhead))
		r.Use(customMiddleware.AuditLog(a.Logger))
		r.Use(validator.ValidateJSON)

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		calendarHandler := handlers.NewCalendarHandler(a.Services.Calendar, validator, a.Logger, a.errorHandler)
		r.Mount("/calendar", calendarHandler.Routes())

		quotesTemplates := handlers.NewTemplateHandler(a.Services.QuotesTemplate, a.Logger, a.errorHandler)
		quotesHandler := handlers.NewQuotesHandler(a.Services.Quotes, quotesTemplates, a.Logger, a.errorHandler)
		r.Mount("/quotes", quotesHandler.Routes())

		calendarTemplates := handlers.NewTemplateHandler(a.Services.CalendarTemplate, a.Logger, a.errorHandler)
		r.Mount("/template", calendarTemplates.Routes())
	})
}

// corsConfig exposes the download headers so browser clients can read the
// attachment name and the updated row count.
func (a *Application) corsConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"Content-Disposition",
			handlers.HeaderUpdatedRows,
			"X-Request-ID",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Serve accepts connections on ln until ctx is cancelled, then shuts the
// server down gracefully. A nil ln listens on the configured port.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if ln != nil {
			a.Logger.InfoContext(ctx, "server listening", slog.String("address", ln.Addr().String()))
			err = a.Server.Serve(ln)
		} else {
			a.Logger.InfoContext(ctx, "server listening", slog.String("address", a.Server.Addr))
			err = a.Server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	a.Logger.InfoContext(ctx, "application shutdown complete")

	if err := infrastructure.CloseLogFile(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

// Run serves until SIGINT or SIGTERM.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", config.AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("calendar_template", a.Config.Templates.CalendarPath),
		slog.String("quotes_template", a.Config.Templates.QuotesPath),
	)

	return a.Serve(ctx, nil)
}
