package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	got := New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	assert.Equal(t, &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  "INVALID_REQUEST",
		Message:    "Invalid request format",
	}, got)
	assert.Equal(t, "Invalid request format", got.Error())
}

func TestNewWithDetails(t *testing.T) {
	details := ValidationError{Field: "events", Message: "required"}
	got := NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", details)
	assert.Equal(t, details, got.Details)
	assert.Equal(t, "VALIDATION_FAILED", got.ErrorCode)
}

func TestHelpers(t *testing.T) {
	t.Run("invalid request carries the cause", func(t *testing.T) {
		got := InvalidRequestWithError(fmt.Errorf("unexpected EOF"))
		assert.Equal(t, http.StatusBadRequest, got.StatusCode)
		assert.Equal(t, "unexpected EOF", got.Details)
	})

	t.Run("validation error names the field", func(t *testing.T) {
		got := ErrValidation("events", "must be a list")
		assert.Equal(t, ValidationError{Field: "events", Message: "must be a list"}, got.Details)
	})

	t.Run("filesystem error", func(t *testing.T) {
		got := FileSystemError("save template", fmt.Errorf("disk full"))
		assert.Equal(t, http.StatusInternalServerError, got.StatusCode)
		assert.Equal(t, "Failed to save template: disk full", got.Message)
	})

	t.Run("validation errors list", func(t *testing.T) {
		got := NewValidationErrors([]ValidationError{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}})
		details, ok := got.Details.(ValidationErrors)
		require.True(t, ok)
		assert.Len(t, details.Errors, 2)
	})

	t.Run("simple validation error", func(t *testing.T) {
		got := NewValidationError("quotes must be a list")
		assert.Equal(t, http.StatusBadRequest, got.StatusCode)
		assert.Equal(t, "quotes must be a list", got.Message)
	})
}

func TestAPIError_RenderThroughChi(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/calendar/receive", nil)

	require.NoError(t, render.Render(w, r, ErrValidation("events", "must be a list")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response APIError
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "VALIDATION_FAILED", response.ErrorCode)
	assert.Equal(t, "Request validation failed", response.Message)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "events must be a list", "/api/calendar/receive").
		WithExtension("trace_id", "abc").
		WithExtension("type", "ignored")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeValidation, body["type"], "standard members win over extensions")
	assert.Equal(t, "Bad Request", body["title"])
	assert.EqualValues(t, 400, body["status"])
	assert.Equal(t, "events must be a list", body["detail"])
	assert.Equal(t, "/api/calendar/receive", body["instance"])
	assert.Equal(t, "abc", body["trace_id"])

	empty := &ProblemDetails{Type: TypeInternal, Title: "x", Status: 500}
	data, err = json.Marshal(empty.WithExtension("k", 1))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "detail")
}
