package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	apierrors "econcal/internal/errors"
	"econcal/internal/infrastructure"
	"econcal/internal/shared/testutil"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
})

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) Problem {
	t.Helper()
	var p Problem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	return p
}

func TestRequestID(t *testing.T) {
	t.Run("generates an id", func(t *testing.T) {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
			assert.Equal(t, seen, infrastructure.GetTraceID(r.Context()))
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
	})

	t.Run("reuses the incoming header", func(t *testing.T) {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Request-ID", "upstream-1")
		h.ServeHTTP(httptest.NewRecorder(), r)

		assert.Equal(t, "upstream-1", seen)
	})

	t.Run("falls back to the trace id", func(t *testing.T) {
		ctx := infrastructure.WithTraceID(context.Background(), "trace-9")
		assert.Equal(t, "trace-9", GetRequestID(ctx))
	})
}

func TestStructuredLogger(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := RequestID(StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		infrastructure.LoggerFromContext(r.Context(), logger).Info("handler log")
		w.WriteHeader(http.StatusNotFound)
	})))

	r := httptest.NewRequest(http.MethodGet, "/api/missing", nil)
	r.Header.Set("X-Request-ID", "req-55")
	h.ServeHTTP(httptest.NewRecorder(), r)

	testutil.AssertLogContains(t, logs, slog.LevelDebug, "request started")
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "request completed")
	testutil.AssertLogAttr(t, logs, "status", int64(http.StatusNotFound))

	for _, rec := range logs.GetRecords() {
		assert.Equal(t, "req-55", rec.Attrs["request_id"], rec.Message)
	}
}

func TestRateLimiter(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	rl := NewRateLimiter(0.0001, 2, logger)
	h := rl.Handler(okHandler)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "/errors/rate-limit-exceeded", decodeProblem(t, w).Type)
	assert.True(t, logs.ContainsMessage("rate limit exceeded"))
}

func TestTimeout(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)

	t.Run("deadline reaches the handler", func(t *testing.T) {
		h := Timeout(time.Minute, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := r.Context().Deadline()
			assert.True(t, ok)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.False(t, logs.ContainsMessage("request timeout"))
	})

	t.Run("overrun is logged", func(t *testing.T) {
		h := Timeout(time.Millisecond, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.True(t, logs.ContainsMessage("request timeout"))
	})
}

func TestMaxBodySize(t *testing.T) {
	t.Run("declared length over the limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		MaxBodySize(4)(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("reader is capped", func(t *testing.T) {
		var readErr error
		h := MaxBodySize(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf := make([]byte, 16)
			for readErr == nil {
				_, readErr = r.Body.Read(buf)
			}
		}))
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789"))
		r.ContentLength = -1
		h.ServeHTTP(httptest.NewRecorder(), r)

		var tooLarge *http.MaxBytesError
		assert.ErrorAs(t, readErr, &tooLarge)
	})
}

func TestCORS(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"https://ops.example"}, ExposedHeaders: []string{"X-Updated-Rows"}})(okHandler)

	t.Run("allowed origin", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "https://ops.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, "https://ops.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "X-Updated-Rows", w.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodOptions, "/", nil)
		r.Header.Set("Origin", "https://ops.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	})
}

func TestSecureHeaders(t *testing.T) {
	h := DefaultSecureHeaders().Handler(okHandler)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"), "no HSTS over plain HTTP")
}

func TestAuditLog(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := AuditLog(logger)(okHandler)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/calendar/status", nil))
	assert.Equal(t, 0, logs.Count())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/calendar/clear", nil))
	assert.True(t, logs.ContainsMessage("audit"))
	assert.True(t, logs.ContainsAttr("path", "/api/calendar/clear"))
}

type entry struct {
	Date    string `json:"date" validate:"required"`
	Country string `json:"country" validate:"required"`
}

type entriesRequest struct {
	Events []entry `json:"events" validate:"required,dive"`
}

func TestValidationMiddleware_ValidateStruct(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewValidationMiddleware(logger, apierrors.NewErrorHandler(logger, false))

	require.NoError(t, v.ValidateStruct(&entriesRequest{Events: []entry{}}))

	err := v.ValidateStruct(&entriesRequest{})
	require.Error(t, err)

	err = v.ValidateStruct(&entriesRequest{Events: []entry{
		{Date: "2024-01-15", Country: "US"},
		{Date: "", Country: "DE"},
	}})
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	details, ok := apiErr.Details.(apierrors.ValidationErrors)
	require.True(t, ok)
	require.Len(t, details.Errors, 1)
	assert.Equal(t, "events[1].date", details.Errors[0].Field)
	assert.Equal(t, "date is required", details.Errors[0].Message)
}

func TestValidationMiddleware_ValidateJSON(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewValidationMiddleware(logger, apierrors.NewErrorHandler(logger, false))

	var body string
	h := v.ValidateJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = string(data)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
	}{
		{"valid json", "application/json", `{"events":[]}`, http.StatusOK},
		{"valid json with charset", "application/json; charset=utf-8", `[]`, http.StatusOK},
		{"broken json", "application/json", `{"events":`, http.StatusBadRequest},
		{"multipart passes through", "multipart/form-data; boundary=x", `not json`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body = ""
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.body, body, "body is restored for the handler")
			}
		})
	}
}

func TestOTelMiddleware(t *testing.T) {
	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	var traceID, spanTraceID string
	r := chi.NewRouter()
	r.Use(NewOTelMiddleware(tp.Tracer("test"), metrics).Handler)
	r.Get("/api/calendar/status", func(w http.ResponseWriter, r *http.Request) {
		traceID = infrastructure.GetTraceID(r.Context())
		spanTraceID = infrastructure.TraceIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/calendar/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, spanTraceID, traceID)

	srv := httptest.NewServer(providers.PrometheusHTTP)
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	scrape, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(scrape), `route="/api/calendar/status"`)
}

func TestOTelMiddleware_NilMetrics(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		NewOTelMiddleware(tp.Tracer("test"), nil).Handler(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProblemFromStatus(t *testing.T) {
	p := ProblemFromStatus(http.StatusTeapot, "short and stout", "t-1")
	assert.Equal(t, "/errors/unknown", p.Type)
	assert.Equal(t, http.StatusText(http.StatusTeapot), p.Title)
	assert.Equal(t, "t-1", p.Trace)

	w := httptest.NewRecorder()
	ProblemFromStatus(http.StatusGatewayTimeout, "", "").Write(w)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "Gateway Timeout", decodeProblem(t, w).Title)
}
