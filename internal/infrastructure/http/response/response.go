// Package response writes JSON bodies and maps domain errors to HTTP statuses.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/flyerhub/flyerd/internal/domain"
)

// encodeFailureJSON is written when a response body cannot be marshaled.
const encodeFailureJSON = `{"error":{"code":"INTERNAL_ERROR","message":"failed to encode response","details":[]}}`

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []ErrorField `json:"details"`
}

// ErrorField describes a field-specific error.
type ErrorField struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// writeJSON marshals before writing headers so an encoding failure can still
// become a 500.
func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(encodeFailureJSON))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

// OK sends a 200 OK response with JSON data.
func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

// Created sends a 201 Created response with JSON data.
func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, data)
}

// NoContent sends a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error sends a generic error response.
func Error(w http.ResponseWriter, code, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: []ErrorField{},
		},
	})
}

// BadRequest sends a 400 Bad Request error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, "INVALID_REQUEST", message, http.StatusBadRequest)
}

// ValidationError sends a 400 validation error with field details.
func ValidationError(w http.ResponseWriter, field, issue string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: "validation failed",
			Details: []ErrorField{
				{Field: field, Issue: issue},
			},
		},
	})
}

// ValidationErrors sends a 400 validation error listing several fields.
func ValidationErrors(w http.ResponseWriter, details []ErrorField) {
	if details == nil {
		details = []ErrorField{}
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: "validation failed",
			Details: details,
		},
	})
}

// NotFound sends a 404 Not Found error.
func NotFound(w http.ResponseWriter, resource string) {
	Error(w, "NOT_FOUND", resource+" not found", http.StatusNotFound)
}

// InternalError sends a 500 Internal Server Error.
// The error is logged server-side; the client gets a generic message.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), "Internal server error", "error", err)
	}
	Error(w, "INTERNAL_ERROR", "an internal error occurred", http.StatusInternalServerError)
}

// FromDomainError maps domain errors to HTTP responses.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Validation errors (400)
	case errors.Is(err, domain.ErrTitleRequired):
		ValidationError(w, "title", "required field missing")
	case errors.Is(err, domain.ErrTitleTooLong):
		ValidationError(w, "title", "must be 255 characters or less")
	case errors.Is(err, domain.ErrInvalidID):
		ValidationError(w, "id", "invalid ID format")
	case errors.Is(err, domain.ErrInvalidDate):
		ValidationError(w, "date", "must be a calendar date in YYYY-MM-DD format")
	case errors.Is(err, domain.ErrInvalidDays):
		ValidationError(w, "specific_days", "day numbers must be between 1 and 31")
	case errors.Is(err, domain.ErrImageRequired):
		ValidationError(w, "image", "an image upload or image_url is required")
	case errors.Is(err, domain.ErrInvalidImageURL):
		ValidationError(w, "image_url", "must be an absolute http(s) URL")

	// Not found errors (404)
	case errors.Is(err, domain.ErrEventNotFound):
		NotFound(w, "event")
	case errors.Is(err, domain.ErrAnalysisNotFound):
		NotFound(w, "analysis")
	case errors.Is(err, domain.ErrImageNotFound):
		NotFound(w, "image")

	// Image errors (413, 415)
	case errors.Is(err, domain.ErrImageTooLarge):
		Error(w, "PAYLOAD_TOO_LARGE", domain.ErrImageTooLarge.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, domain.ErrUnsupportedImageType):
		Error(w, "UNSUPPORTED_MEDIA_TYPE", domain.ErrUnsupportedImageType.Error(), http.StatusUnsupportedMediaType)

	// Upstream errors (502)
	case errors.Is(err, domain.ErrVisionUnavailable):
		slog.ErrorContext(r.Context(), "Vision model unavailable", "error", err)
		Error(w, "VISION_UNAVAILABLE", "the flyer could not be analyzed right now", http.StatusBadGateway)

	// Unknown errors (500) - Log server-side, return generic message to client
	default:
		InternalError(w, r, err)
	}
}
