package services

import (
	"errors"

	"econcal/internal/files"
	"econcal/internal/quotes"
)

// Service errors. Handlers map them to problem responses.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNoQuotes            = errors.New("no quotes received yet")
	ErrPlaceholderNotFound = errors.New("placeholder not found in template")

	// Re-exported so handlers depend on this package only.
	ErrTemplateNotFound = files.ErrTemplateNotFound
	ErrNoTable          = quotes.ErrNoTable
)
