package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apierrors "econcal/internal/errors"
	"econcal/internal/services"
	"econcal/internal/validation"
)

// ErrorMappings returns the problem mappings for service errors. Register
// them on the shared error handler before serving.
func ErrorMappings() []apierrors.Mapping {
	return []apierrors.Mapping{
		{
			Err:    services.ErrNoQuotes,
			Status: http.StatusBadRequest,
			Type:   apierrors.TypeNoData,
			Title:  "No Data",
			Detail: "No quotes received yet.",
		},
		{
			Err:    services.ErrTemplateNotFound,
			Status: http.StatusNotFound,
			Type:   apierrors.TypeTemplateNotFound,
			Title:  "Template Not Found",
		},
		{
			Err:    services.ErrPlaceholderNotFound,
			Status: http.StatusBadRequest,
			Type:   apierrors.TypePlaceholderNotFound,
			Title:  "Placeholder Not Found",
		},
		{
			Err:    services.ErrNoTable,
			Status: http.StatusBadRequest,
			Type:   apierrors.TypeTemplateInvalid,
			Title:  "Invalid Template",
			Detail: "Template must contain at least one table",
		},
		{
			Match:  isUploadError,
			Status: http.StatusBadRequest,
			Type:   apierrors.TypeUploadRejected,
			Title:  "Upload Rejected",
		},
		{
			Err:    services.ErrInvalidInput,
			Status: http.StatusBadRequest,
			Type:   apierrors.TypeValidation,
			Title:  "Bad Request",
		},
	}
}

func isUploadError(err error) bool {
	var uploadErr *validation.UploadError
	return errors.As(err, &uploadErr)
}

// isMapped reports whether err has a dedicated problem mapping.
func isMapped(err error) bool {
	for _, m := range ErrorMappings() {
		if m.Match != nil && m.Match(err) {
			return true
		}
		if m.Err != nil && errors.Is(err, m.Err) {
			return true
		}
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// generationFailure keeps mapped errors as they are and turns anything else
// into a 500 naming the document that failed.
func generationFailure(document string, err error) error {
	if isMapped(err) {
		return err
	}
	return apierrors.New(http.StatusInternalServerError, "GENERATION_FAILED",
		fmt.Sprintf("Error generating %s: %v", document, err))
}

// decodeFailure converts a body decoding error into a problem-ready error.
func decodeFailure(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return apierrors.InvalidRequestWithError(err)
}
