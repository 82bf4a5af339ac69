package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/flyerhub/flyerd/internal/application/flyer"
	"github.com/flyerhub/flyerd/internal/domain"
	"github.com/flyerhub/flyerd/internal/infrastructure/http/response"
)

// imageFormField is the multipart field carrying the flyer upload.
const imageFormField = "image"

// CreateAnalysis handles POST /v1/analyses.
//
// The flyer comes either as a multipart upload in the "image" field or as a
// JSON body with "image_url". ?create_event=true also creates an event; when
// that step fails the stored analysis is still returned, with event_error set.
func (h *APIHandler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	input, ok := h.analyzeInput(w, r)
	if !ok {
		return
	}

	result, err := h.flyers.Analyze(r.Context(), input)
	if err != nil && (result == nil || result.Analysis == nil) {
		response.FromDomainError(w, r, err)
		return
	}

	resp := AnalyzeResponse{Analysis: MapAnalysisToDTO(result.Analysis)}
	if result.Event != nil {
		e := MapEventToDTO(result.Event)
		resp.Event = &e
	}
	if err != nil {
		slog.WarnContext(r.Context(), "Analysis stored but event creation failed",
			"analysis_id", result.Analysis.ID,
			"error", err)
		resp.EventError = eventErrorDetail(err)
	}

	response.Created(w, resp)
}

// GetAnalysis handles GET /v1/analyses/{id}.
func (h *APIHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := h.flyers.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, MapAnalysisToDTO(a))
}

// analyzeInput reads the request into a flyer.AnalyzeInput, writing an error
// response and returning false when it cannot.
func (h *APIHandler) analyzeInput(w http.ResponseWriter, r *http.Request) (flyer.AnalyzeInput, bool) {
	var input flyer.AnalyzeInput

	if raw := r.URL.Query().Get("create_event"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.ValidationError(w, "create_event", "must be true or false")
			return input, false
		}
		input.CreateEvent = v
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.maxUploadMemory); err != nil {
			response.BadRequest(w, "invalid multipart form")
			return input, false
		}
		file, _, err := r.FormFile(imageFormField)
		if errors.Is(err, http.ErrMissingFile) {
			response.FromDomainError(w, r, domain.ErrImageRequired)
			return input, false
		}
		if err != nil {
			response.BadRequest(w, "invalid image upload")
			return input, false
		}
		defer file.Close()

		if input.Data, err = io.ReadAll(file); err != nil {
			response.InternalError(w, r, err)
			return input, false
		}

	default:
		var req AnalyzeURLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return input, false
		}
		input.ImageURL = req.ImageURL
		input.CreateEvent = input.CreateEvent || valueOr(req.CreateEvent, false)
	}

	if len(input.Data) == 0 && input.ImageURL == "" {
		response.FromDomainError(w, r, domain.ErrImageRequired)
		return input, false
	}

	return input, true
}

// eventErrorDetail describes why an event could not be created from an
// analysis. Only validation failures are explained to the client.
func eventErrorDetail(err error) *response.ErrorDetail {
	detail := &response.ErrorDetail{
		Code:    "INTERNAL_ERROR",
		Message: "the event could not be created",
		Details: []response.ErrorField{},
	}

	switch {
	case errors.Is(err, domain.ErrTitleRequired):
		detail.Code = "VALIDATION_ERROR"
		detail.Details = append(detail.Details, response.ErrorField{Field: "title", Issue: "no title was read from the flyer"})
	case errors.Is(err, domain.ErrTitleTooLong):
		detail.Code = "VALIDATION_ERROR"
		detail.Details = append(detail.Details, response.ErrorField{Field: "title", Issue: "must be 255 characters or less"})
	case errors.Is(err, domain.ErrInvalidDate):
		detail.Code = "VALIDATION_ERROR"
		detail.Details = append(detail.Details, response.ErrorField{Field: "date", Issue: "the flyer date is not a valid calendar date"})
	}

	return detail
}
