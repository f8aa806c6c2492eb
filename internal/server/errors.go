// Package server provides the HTTP REST API for the portfolio generator.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/portfolio-generator/internal/llm"
	"github.com/jonathan/portfolio-generator/internal/store"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrRecordNotFound indicates a generation history record was not found
type ErrRecordNotFound struct {
	ID string
}

func (e *ErrRecordNotFound) Error() string {
	return fmt.Sprintf("generation record not found: %s", e.ID)
}

// ErrUnknownStyle indicates a requested style has no template set
type ErrUnknownStyle struct {
	Style string
}

func (e *ErrUnknownStyle) Error() string {
	return fmt.Sprintf("unknown style: %s", e.Style)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrValidation, *ErrUnknownStyle:
		return http.StatusBadRequest
	case *ErrRecordNotFound:
		return http.StatusNotFound
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, llm.ErrNoProviderAvailable),
		errors.Is(err, llm.ErrProviderNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
